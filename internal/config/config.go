package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// Getenv retourne la variable d'environnement ou la valeur par défaut.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// BaseURL est l'URL publique de l'API (callbacks de paiement, OAuth).
func BaseURL() string {
	return Getenv("BASE_URL", "http://localhost:8080")
}

// ClientURL est l'URL du front (pages success/cancel après paiement).
func ClientURL() string {
	return Getenv("CLIENT_URL", "http://localhost:3000")
}
