package domain

import "github.com/shopspring/decimal"

// Product is a catalog record. The core never writes products.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Stock    int             `json:"stock"`
	Image    string          `json:"image"`
	Brand    string          `json:"brand"`
	Category string          `json:"category"`
}
