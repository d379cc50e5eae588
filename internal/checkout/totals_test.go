package checkout

import (
	"testing"

	"atelier_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func items(priceQty ...float64) []models.CartItem {
	var out []models.CartItem
	for i := 0; i < len(priceQty); i += 2 {
		out = append(out, models.CartItem{
			Price:    priceQty[i],
			Quantity: int(priceQty[i+1]),
		})
	}
	return out
}

func TestComputeTotals_FreeShippingAboveThreshold(t *testing.T) {
	// 2 × 60.00 = 120.00 → taxe 9.60, livraison offerte, total 129.60
	totals := ComputeTotals(items(60.00, 2))

	assert.Equal(t, 120.00, totals.Subtotal)
	assert.Equal(t, 9.60, totals.TaxAmount)
	assert.Equal(t, 0.0, totals.ShippingAmount)
	assert.Equal(t, 129.60, totals.TotalAmount)
}

func TestComputeTotals_FlatShippingBelowThreshold(t *testing.T) {
	// 1 × 30.00 → taxe 2.40, livraison 10.00, total 42.40
	totals := ComputeTotals(items(30.00, 1))

	assert.Equal(t, 30.00, totals.Subtotal)
	assert.Equal(t, 2.40, totals.TaxAmount)
	assert.Equal(t, 10.00, totals.ShippingAmount)
	assert.Equal(t, 42.40, totals.TotalAmount)
}

func TestComputeTotals_ExactThresholdGetsFreeShipping(t *testing.T) {
	totals := ComputeTotals(items(50.00, 2))

	assert.Equal(t, 100.00, totals.Subtotal)
	assert.Equal(t, 0.0, totals.ShippingAmount)
}

func TestComputeTotals_RoundsToCents(t *testing.T) {
	// 3 × 19.99 = 59.97 → taxe brute 4.7976, arrondie à 4.80
	totals := ComputeTotals(items(19.99, 3))

	assert.Equal(t, 59.97, totals.Subtotal)
	assert.Equal(t, 4.80, totals.TaxAmount)
	assert.Equal(t, 10.00, totals.ShippingAmount)
	assert.Equal(t, 74.77, totals.TotalAmount)
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals := ComputeTotals(nil)

	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.TaxAmount)
	assert.Equal(t, 10.00, totals.ShippingAmount)
}

func TestComputeTotals_MultipleLines(t *testing.T) {
	totals := ComputeTotals(items(25.50, 2, 12.00, 3))

	assert.Equal(t, 87.00, totals.Subtotal)
	assert.Equal(t, 6.96, totals.TaxAmount)
	assert.Equal(t, 10.00, totals.ShippingAmount)
	assert.Equal(t, 103.96, totals.TotalAmount)
}
