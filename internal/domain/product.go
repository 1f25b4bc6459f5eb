package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a tracked product page. Its ID is the fingerprint of the URL,
// so the same URL always maps to the same product identity.
type Product struct {
	ID        string     `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Name      string     `db:"name" json:"name"`
	URL       string     `db:"url" json:"url"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// Active reports whether the product has not been soft-deleted.
func (p *Product) Active() bool {
	return p.DeletedAt == nil
}

// PriceSample is one persisted price observation for a product.
// The tracking job writes at most one sample per product per UTC day.
type PriceSample struct {
	ID        int64               `db:"id" json:"id"`
	ProductID string              `db:"product_id" json:"product_id"`
	Price     decimal.NullDecimal `db:"price" json:"price"`
	Currency  string              `db:"currency" json:"currency"`
	Date      time.Time           `db:"date" json:"date"`
	CreatedAt time.Time           `db:"created_at" json:"created_at"`
	DeletedAt *time.Time          `db:"deleted_at" json:"deleted_at,omitempty"`
}
