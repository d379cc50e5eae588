package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"atelier_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

func sendMail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@atelier.example"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("facture.pdf", bytes.NewReader(pdfAttachment))
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

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// SendOrderConfirmation envoie la confirmation de commande avec la facture
// PDF en pièce jointe. Appelé en goroutine après le checkout : un échec est
// journalisé, jamais propagé au client.
func SendOrderConfirmation(order models.Order, userEmail string) {
	pdf, err := GenerateInvoicePDF(order)
	if err != nil {
		log.Printf("⚠️ Facture PDF indisponible pour %s: %v", order.OrderNumber, err)
		pdf = nil
	}

	subject := fmt.Sprintf("Confirmation de commande %s", order.OrderNumber)
	if err := sendMail(userEmail, subject, orderConfirmationHTML(order), pdf); err != nil {
		log.Printf("❌ Échec envoi confirmation %s: %v", order.OrderNumber, err)
	}
}

// SendStatusUpdate prévient le client d'un changement de statut de commande.
func SendStatusUpdate(order models.Order, userEmail string) {
	subject := fmt.Sprintf("Commande %s : %s", order.OrderNumber, statusLabel(order.Status))
	if err := sendMail(userEmail, subject, statusUpdateHTML(order), nil); err != nil {
		log.Printf("❌ Échec envoi statut %s: %v", order.OrderNumber, err)
	}
}

func statusLabel(status string) string {
	switch status {
	case models.OrderStatusProcessing:
		return "en préparation"
	case models.OrderStatusShipped:
		return "expédiée"
	case models.OrderStatusDelivered:
		return "livrée"
	case models.OrderStatusCancelled:
		return "annulée"
	default:
		return "en attente"
	}
}

func orderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%.2f$</td>
				<td>%.2f$</td>
			</tr>`, item.ProductName, item.Quantity, item.UnitPrice, item.TotalPrice)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande %s</h2>
		<p>Bonjour,</p>
		<p>Votre commande a été enregistrée avec succès.</p>

		<h3>Détails de la commande</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Produit</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right;">Sous-total:</td>
					<td style="padding: 10px;">%.2f$</td>
				</tr>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right;">Taxes:</td>
					<td style="padding: 10px;">%.2f$</td>
				</tr>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right;">Livraison:</td>
					<td style="padding: 10px;">%.2f$</td>
				</tr>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 10px; font-weight: bold;">%.2f$</td>
				</tr>
			</tfoot>
		</table>

		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Atelier</strong>
		</p>
	</div>
</body>
</html>`, order.OrderNumber, itemsHTML, order.Subtotal, order.TaxAmount, order.ShippingAmount, order.TotalAmount)
}

func statusUpdateHTML(order models.Order) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Mise à jour de commande</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Votre commande %s est %s</h2>
		<p>Bonjour,</p>
		<p>Le statut de votre commande vient d'être mis à jour : <strong>%s</strong>.</p>
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Atelier</strong>
		</p>
	</div>
</body>
</html>`, order.OrderNumber, statusLabel(order.Status), statusLabel(order.Status))
}
