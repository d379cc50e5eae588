package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"atelier_back_end/internal/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"
)

// GenerateSepaQR génère un QR SEPA (format EPC) en base64 prêt à mettre dans
// un <img src="...">
func GenerateSepaQR(iban, bic, name, ref string, amount float64) (string, error) {
	sepa := fmt.Sprintf(`BCD
001
1
SCT
%s
%s
%s
EUR%.2f
%s`, bic, name, iban, amount, ref)

	png, err := qrcode.Encode(sepa, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// GenerateInvoicePDF rend la facture HTML dans Chrome headless et l'imprime
// en PDF A4.
func GenerateInvoicePDF(order models.Order) ([]byte, error) {
	iban := os.Getenv("COMPANY_IBAN")
	if iban == "" {
		iban = "BE12345678901234"
	}
	bic := os.Getenv("COMPANY_BIC")
	if bic == "" {
		bic = "KREDBEBB"
	}
	companyName := os.Getenv("COMPANY_NAME")
	if companyName == "" {
		companyName = "Atelier SRL"
	}

	ref := fmt.Sprintf("FACT-%s", order.OrderNumber)
	qrBase64, err := GenerateSepaQR(iban, bic, companyName, ref, order.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("erreur génération QR: %v", err)
	}

	html := invoiceHTML(order, companyName, qrBase64)
	return renderPDF(html)
}

// renderPDF charge le HTML via une data URL et imprime la page en PDF.
func renderPDF(html string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate(dataURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}

func invoiceHTML(order models.Order, companyName, qrBase64 string) string {
	var rows strings.Builder
	for _, item := range order.Items {
		variant := ""
		if item.Size != "" || item.Color != "" {
			variant = fmt.Sprintf(" <small>(%s %s)</small>", item.Size, item.Color)
		}
		rows.WriteString(fmt.Sprintf(`
		<tr>
			<td>%s%s</td>
			<td>%s</td>
			<td>%d</td>
			<td>%.2f$</td>
			<td>%.2f$</td>
		</tr>`, item.ProductName, variant, item.ProductSKU, item.Quantity, item.UnitPrice, item.TotalPrice))
	}

	billing := order.BillingAddress

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; color: #222; margin: 40px; }
		table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
		th, td { padding: 8px; border: 1px solid #ddd; text-align: left; }
		th { background: #f0f0f0; }
		.totals td { border: none; text-align: right; }
		.qr { margin-top: 30px; }
	</style>
</head>
<body>
	<h1>%s</h1>
	<h2>Facture %s</h2>
	<p>Commande %s du %s</p>
	<p>
		%s %s<br>
		%s<br>
		%s %s, %s
	</p>
	<table>
		<thead>
			<tr><th>Produit</th><th>SKU</th><th>Qté</th><th>P.U.</th><th>Total</th></tr>
		</thead>
		<tbody>%s</tbody>
	</table>
	<table class="totals">
		<tr><td>Sous-total:</td><td>%.2f$</td></tr>
		<tr><td>Taxes:</td><td>%.2f$</td></tr>
		<tr><td>Livraison:</td><td>%.2f$</td></tr>
		<tr><td><strong>Total:</strong></td><td><strong>%.2f$</strong></td></tr>
	</table>
	<div class="qr">
		<p>Paiement par virement :</p>
		<img src="%s" width="160" height="160">
	</div>
</body>
</html>`,
		companyName, order.OrderNumber, order.OrderNumber, order.CreatedAt.Format("02/01/2006"),
		billing.FirstName, billing.LastName, billing.AddressLine1,
		billing.PostalCode, billing.City, billing.Country,
		rows.String(),
		order.Subtotal, order.TaxAmount, order.ShippingAmount, order.TotalAmount,
		qrBase64)
}
