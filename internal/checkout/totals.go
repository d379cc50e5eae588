package checkout

import (
	"math"

	"atelier_back_end/internal/models"
)

// Politique tarifaire fixe du checkout.
const (
	// TaxRate : TVA forfaitaire de 8%
	TaxRate = 0.08

	// FreeShippingThreshold : livraison offerte à partir de 100
	FreeShippingThreshold = 100.0

	// FlatShippingAmount : forfait livraison sous le seuil
	FlatShippingAmount = 10.0
)

// Totals : décomposition monétaire d'une commande.
type Totals struct {
	Subtotal       float64
	TaxAmount      float64
	ShippingAmount float64
	TotalAmount    float64
}

// ComputeTotals calcule la décomposition à partir des lignes du panier, en
// utilisant le prix figé de chaque ligne (jamais relu depuis le produit).
func ComputeTotals(items []models.CartItem) Totals {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	subtotal = roundCents(subtotal)

	tax := roundCents(subtotal * TaxRate)

	shipping := FlatShippingAmount
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}

	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		ShippingAmount: shipping,
		TotalAmount:    roundCents(subtotal + tax + shipping),
	}
}

// roundCents arrondit au centime le plus proche.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
