package checkout

import (
	"strings"

	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/models"
)

// Moyens de paiement acceptés au checkout.
var validPaymentMethods = map[string]bool{
	"credit_card": true,
	"debit_card":  true,
	"paypal":      true,
}

// OrderInput : payload typé du POST /checkout. L'adresse de livraison est
// optionnelle et retombe sur l'adresse de facturation.
type OrderInput struct {
	BillingAddress  models.Address  `json:"billing_address"`
	ShippingAddress *models.Address `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
}

// Validate contrôle champ par champ avant toute logique métier. Retourne nil
// si le payload est valide.
func (in *OrderInput) Validate() error {
	ve := &domain.ValidationError{}

	validateAddress(ve, "billing_address", &in.BillingAddress)
	if in.ShippingAddress != nil {
		validateAddress(ve, "shipping_address", in.ShippingAddress)
	}

	if in.PaymentMethod == "" {
		ve.Add("payment_method", "moyen de paiement requis")
	} else if !validPaymentMethods[in.PaymentMethod] {
		ve.Add("payment_method", "moyen de paiement invalide (credit_card, debit_card ou paypal)")
	}

	if ve.Empty() {
		return nil
	}
	return ve
}

func validateAddress(ve *domain.ValidationError, prefix string, a *models.Address) {
	required := map[string]string{
		"first_name":     a.FirstName,
		"last_name":      a.LastName,
		"email":          a.Email,
		"phone":          a.Phone,
		"address_line_1": a.AddressLine1,
		"city":           a.City,
		"state":          a.State,
		"postal_code":    a.PostalCode,
		"country":        a.Country,
	}

	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			ve.Add(prefix+"."+field, "champ requis")
		}
	}

	if a.Email != "" && !strings.Contains(a.Email, "@") {
		ve.Add(prefix+".email", "adresse e-mail invalide")
	}
	if len(a.Phone) > 20 {
		ve.Add(prefix+".phone", "numéro de téléphone trop long")
	}
}
