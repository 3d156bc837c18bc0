package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"foodtruck_back_end/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Le CORS est géré au niveau HTTP, pas ici.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func statusChannel(userID gocql.UUID) string {
	return "orders:status:" + userID.String()
}

// PublishOrderStatus pousse un changement de statut dans Redis pub/sub. Les
// websockets abonnées du même utilisateur le reçoivent, quel que soit le
// process qui les tient.
func PublishOrderStatus(userID gocql.UUID, orderID, status string) {
	if database.Redis == nil {
		return
	}

	payload, err := json.Marshal(gin.H{"orderId": orderID, "orderStatus": status})
	if err != nil {
		return
	}
	if err := database.Redis.Publish(context.Background(), statusChannel(userID), payload).Err(); err != nil {
		log.Printf("⚠️ Diffusion du statut impossible pour %s: %v", orderID, err)
	}
}

// StatusSocket abonne le client aux changements de statut de ses commandes.
func (h *Handler) StatusSocket(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Upgrade websocket impossible: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := database.Redis.Subscribe(ctx, statusChannel(userID))
	defer pubsub.Close()

	// Pompe de lecture : détecte la fermeture côté client.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Printf("🔌 Websocket statut ouverte pour %s", userID)

	ch := pubsub.Channel()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
