// Package handlers porte l'enveloppe JSON commune à tous les contrôleurs.
package handlers

import (
	"errors"
	"log"
	"net/http"

	"foodtruck_back_end/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Error traduit n'importe quelle erreur en réponse JSON uniforme. Les
// erreurs internes sont loggées en détail côté serveur, le client ne voit
// qu'un message générique.
func Error(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Wrap(err, "Internal server error")
	}

	switch ae.Kind {
	case apperr.NoOp:
		// Succès sans effet, pas une vraie erreur.
		c.JSON(http.StatusOK, gin.H{"message": ae.Message})
	case apperr.Internal:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, ae)
		c.JSON(http.StatusInternalServerError, gin.H{"error": ae.Message})
	default:
		c.JSON(ae.Status(), gin.H{"error": ae.Message})
	}
}

func OK(c *gin.Context, message string, data any) {
	if data == nil {
		c.JSON(http.StatusOK, gin.H{"message": message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "data": data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, gin.H{"message": message, "data": data})
}
