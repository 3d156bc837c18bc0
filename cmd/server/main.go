package main

import (
	"context"
	"log"
	"os"

	"foodtruck_back_end/internal/auth"
	"foodtruck_back_end/internal/config"
	"foodtruck_back_end/internal/database"
	"foodtruck_back_end/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
)

func main() {
	config.Load()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Fatal("❌ Impossible d'initialiser Stripe : clé manquante")
	}
	log.Println("✅ Stripe initialisé")

	database.ConnectDatabases()
	database.InitPreparedStatements()

	warmupRedisCache()

	auth.InitProviders()

	r := gin.Default()
	routes.Register(r, config.ClientURL())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur food truck lancé sur le port", port)
	r.Run(":" + port)
}

// warmupRedisCache pré-chauffe la connexion Redis pour éviter la latence du
// premier appel.
func warmupRedisCache() {
	if err := database.Redis.Ping(context.Background()).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
