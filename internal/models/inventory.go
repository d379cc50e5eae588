package models

import (
	"time"

	"github.com/gocql/gocql"
)

// StockMovement trace chaque variation de stock (vente, réassort,
// ajustement manuel).
type StockMovement struct {
	ID        gocql.UUID `json:"id"`
	ProductID gocql.UUID `json:"product_id"`
	Type      string     `json:"type"` // "sale", "restock", "adjustment"
	Quantity  int        `json:"quantity"`
	PrevStock int        `json:"prev_stock"`
	NewStock  int        `json:"new_stock"`
	Reason    string     `json:"reason"`
	UserID    string     `json:"user_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
