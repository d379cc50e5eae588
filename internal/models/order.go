package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts de commande
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Statuts de paiement
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Order est l'enregistrement immuable d'un achat terminé. Créée une seule
// fois par le pipeline de checkout, ensuite seuls le statut, les notes et
// les infos de paiement bougent (côté admin / webhook).
type Order struct {
	ID               gocql.UUID  `json:"id"`
	OrderNumber      string      `json:"order_number"`
	UserID           string      `json:"user_id"`
	Status           string      `json:"status"`
	Subtotal         float64     `json:"subtotal"`
	TaxAmount        float64     `json:"tax_amount"`
	ShippingAmount   float64     `json:"shipping_amount"`
	TotalAmount      float64     `json:"total_amount"`
	Currency         string      `json:"currency"`
	BillingAddress   Address     `json:"billing_address"`
	ShippingAddress  Address     `json:"shipping_address"`
	PaymentMethod    string      `json:"payment_method"`
	PaymentStatus    string      `json:"payment_status"`
	PaymentReference string      `json:"payment_reference,omitempty"`
	Notes            string      `json:"notes,omitempty"`
	ShippedAt        *time.Time  `json:"shipped_at,omitempty"`
	DeliveredAt      *time.Time  `json:"delivered_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	Items            []OrderItem `json:"items"`
}

// IsTerminal : delivered et cancelled sont des états finaux.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// OrderItem est le snapshot figé d'une ligne de panier au moment de la
// conversion. Aucun champ n'est relu depuis le produit après création :
// les commandes historiques survivent aux éditions de produits.
type OrderItem struct {
	ID          gocql.UUID `json:"id"`
	OrderID     gocql.UUID `json:"-"`
	ProductID   gocql.UUID `json:"product_id"`
	ProductName string     `json:"product_name"`
	ProductSKU  string     `json:"product_sku"`
	Size        string     `json:"size,omitempty"`
	Color       string     `json:"color,omitempty"`
	UnitPrice   float64    `json:"unit_price"`
	Quantity    int        `json:"quantity"`
	TotalPrice  float64    `json:"total_price"`
}
