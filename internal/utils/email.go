package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"foodtruck_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// SendOrderConfirmation envoie la confirmation de commande, reçu PDF en
// pièce jointe quand il a pu être généré.
func SendOrderConfirmation(to string, order models.Order, pos []models.ProductOrder, receiptPDF []byte) error {
	msg := mail.NewMsg()

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "noreply@foodtruck.local"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("Votre commande %s est confirmée", order.ID.String()))
	msg.SetBodyString(mail.TypeTextHTML, orderConfirmationHTML(order, pos))

	if receiptPDF != nil {
		msg.AttachReader("recu_commande.pdf", bytes.NewReader(receiptPDF))
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de la confirmation à", to)
	return client.DialAndSend(msg)
}

func orderConfirmationHTML(order models.Order, pos []models.ProductOrder) string {
	itemsHTML := ""
	for _, po := range pos {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%d</td>
				<td>%d</td>
				<td>%.2f€</td>
				<td>%.2f€</td>
			</tr>`, po.ProductID, po.Quantity, po.Price, po.Price*float64(po.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Confirmation de commande</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Merci %s !</h2>
		<p>Votre commande <strong>%s</strong> est confirmée. Présentez le QR code du reçu au food truck pour la retirer.</p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Produit</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
		</table>
		<p style="font-size: 18px;"><strong>Total : %.2f€</strong></p>
	</div>
</body>
</html>`, order.FirstName, order.ID.String(), itemsHTML, order.Total)
}
