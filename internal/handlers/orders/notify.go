package orders

import (
	"log"

	"foodtruck_back_end/internal/config"
	"foodtruck_back_end/internal/models"
	"foodtruck_back_end/internal/utils"
)

// DefaultNotify envoie l'email de confirmation avec le QR de retrait et le
// reçu PDF. Chaque étape est best-effort : on dégrade plutôt que d'échouer.
func DefaultNotify(order models.Order, pos []models.ProductOrder) {
	if order.Email == "" {
		return
	}

	orderID := order.ID.String()

	qr, err := utils.GeneratePickupQR(orderID)
	if err != nil {
		log.Printf("⚠️ QR de retrait impossible pour %s: %v", orderID, err)
	}

	var receipt []byte
	if qr != "" {
		receipt, err = utils.RenderReceiptPDF(config.ClientURL()+"/receipt", orderID, qr)
		if err != nil {
			log.Printf("⚠️ Reçu PDF impossible pour %s: %v", orderID, err)
		}
	}

	if err := utils.SendOrderConfirmation(order.Email, order, pos, receipt); err != nil {
		log.Printf("❌ Email de confirmation non envoyé pour %s: %v", orderID, err)
		return
	}
	log.Printf("📤 Confirmation envoyée à %s pour la commande %s", order.Email, orderID)
}
