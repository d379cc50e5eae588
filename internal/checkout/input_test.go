package checkout

import (
	"testing"

	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() models.Address {
	return models.Address{
		FirstName:    "Marie",
		LastName:     "Dupont",
		Email:        "marie@example.com",
		Phone:        "+32470123456",
		AddressLine1: "12 rue des Lilas",
		City:         "Bruxelles",
		State:        "Bruxelles-Capitale",
		PostalCode:   "1000",
		Country:      "BE",
	}
}

func TestOrderInputValidate_Valid(t *testing.T) {
	in := OrderInput{
		BillingAddress: validAddress(),
		PaymentMethod:  "credit_card",
	}
	assert.NoError(t, in.Validate())
}

func TestOrderInputValidate_AllPaymentMethods(t *testing.T) {
	for _, method := range []string{"credit_card", "debit_card", "paypal"} {
		in := OrderInput{BillingAddress: validAddress(), PaymentMethod: method}
		assert.NoError(t, in.Validate(), method)
	}
}

func TestOrderInputValidate_MissingRequiredFields(t *testing.T) {
	in := OrderInput{PaymentMethod: "paypal"}

	err := in.Validate()
	require.Error(t, err)

	ve, ok := domain.AsValidation(err)
	require.True(t, ok)

	for _, field := range []string{"first_name", "last_name", "email", "phone",
		"address_line_1", "city", "state", "postal_code", "country"} {
		assert.Contains(t, ve.Fields, "billing_address."+field)
	}
}

func TestOrderInputValidate_InvalidEmail(t *testing.T) {
	addr := validAddress()
	addr.Email = "pas-un-email"
	in := OrderInput{BillingAddress: addr, PaymentMethod: "paypal"}

	err := in.Validate()
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "billing_address.email")
}

func TestOrderInputValidate_PhoneTooLong(t *testing.T) {
	addr := validAddress()
	addr.Phone = "123456789012345678901" // 21 caractères
	in := OrderInput{BillingAddress: addr, PaymentMethod: "paypal"}

	err := in.Validate()
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "billing_address.phone")
}

func TestOrderInputValidate_UnknownPaymentMethod(t *testing.T) {
	in := OrderInput{BillingAddress: validAddress(), PaymentMethod: "bitcoin"}

	err := in.Validate()
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "payment_method")
}

func TestOrderInputValidate_ShippingAddressCheckedWhenPresent(t *testing.T) {
	shipping := models.Address{FirstName: "Jean"}
	in := OrderInput{
		BillingAddress:  validAddress(),
		ShippingAddress: &shipping,
		PaymentMethod:   "credit_card",
	}

	err := in.Validate()
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "shipping_address.last_name")
	assert.NotContains(t, ve.Fields, "shipping_address.first_name")
}

func TestOrderInputValidate_BlankFieldsRejected(t *testing.T) {
	addr := validAddress()
	addr.City = "   "
	in := OrderInput{BillingAddress: addr, PaymentMethod: "credit_card"}

	err := in.Validate()
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "billing_address.city")
}
