package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Cart est résolu par une clé d'identité unique : "user:<id>" pour un
// utilisateur connecté, "session:<token>" pour un visiteur anonyme.
// Jamais les deux en même temps.
type Cart struct {
	ID        gocql.UUID `json:"id"`
	Key       string     `json:"-"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

// TotalAmount recalcule toujours le total depuis les lignes courantes,
// jamais depuis une valeur stockée.
func (c *Cart) TotalAmount() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (c *Cart) TotalItems() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// CartItem : le prix est figé au moment de l'ajout (snapshot), il n'est
// jamais relu depuis le produit ensuite.
type CartItem struct {
	ID        gocql.UUID `json:"id"`
	CartID    gocql.UUID `json:"-"`
	ProductID gocql.UUID `json:"product_id"`
	Name      string     `json:"name"`
	Size      string     `json:"size,omitempty"`
	Color     string     `json:"color,omitempty"`
	Price     float64    `json:"price"`
	Quantity  int        `json:"quantity"`
	ImageURL  string     `json:"image_url,omitempty"`
	AddedAt   time.Time  `json:"added_at"`
}

// SameLine : deux ajouts sont la même ligne ssi (produit, taille, couleur)
// correspondent dans le même panier.
func (i *CartItem) SameLine(productID gocql.UUID, size, color string) bool {
	return i.ProductID == productID && i.Size == size && i.Color == color
}
