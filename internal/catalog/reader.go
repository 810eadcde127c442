// Package catalog reads product records from the external catalog source.
//
// Readers never fail: an unreadable source is logged and reported as an
// empty product list, which callers treat as "no products available".
package catalog

import (
	"context"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// Reader lists the current catalog. Implementations must return the latest
// stock on every call unless they are explicitly a cache.
type Reader interface {
	ListProducts(ctx context.Context) []domain.Product
}

// Find returns the product with the given id.
func Find(products []domain.Product, id int64) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// FilterByCategory matches categories case-insensitively.
func FilterByCategory(products []domain.Product, category string) []domain.Product {
	result := make([]domain.Product, 0)
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			result = append(result, p)
		}
	}
	return result
}
