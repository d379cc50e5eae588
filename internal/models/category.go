package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Category struct {
	ID        gocql.UUID `json:"id" db:"category_id"`
	Name      string     `json:"name" db:"name"`
	Slug      string     `json:"slug" db:"slug"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
