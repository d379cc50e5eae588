package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID             gocql.UUID `json:"id" db:"product_id"`
	Name           string     `json:"name" db:"name"`
	Slug           string     `json:"slug" db:"slug"`
	Description    string     `json:"description" db:"description"`
	SKU            string     `json:"sku" db:"sku"`
	Price          float64    `json:"price" db:"price"`
	ComparePrice   float64    `json:"compare_price,omitempty" db:"compare_price"`
	StockQuantity  int        `json:"stock_quantity" db:"stock_quantity"`
	TrackInventory bool       `json:"track_inventory" db:"track_inventory"`
	Sizes          []string   `json:"sizes,omitempty" db:"sizes"`
	Colors         []string   `json:"colors,omitempty" db:"colors"`
	ImageURLs      []string   `json:"image_urls,omitempty" db:"image_urls"`
	CategoryID     gocql.UUID `json:"category_id" db:"category_id"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	IsFeatured     bool       `json:"is_featured" db:"is_featured"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
