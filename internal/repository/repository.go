package repository

import (
	"errors"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

var ErrDuplicateOrder = errors.New("order with this id already exists")

// CartRepository owns cart state and the user -> cart mapping.
// Consumers define this interface, not the memory implementation
type CartRepository interface {
	// GetOrCreate returns the user's mapped cart if it still exists, else the
	// cart with cartID, else a new empty cart bound to userID (when given).
	GetOrCreate(cartID, userID string) domain.Cart

	// Get returns a copy of the cart or domain.ErrNotFound
	Get(cartID string) (domain.Cart, error)

	// Update runs fn against a private copy of the cart and commits the copy
	// only when fn returns nil. Updates to the same cart are serialized.
	Update(cartID string, fn func(cart *domain.Cart) error) (domain.Cart, error)
}

// OrderRepository is append-only: orders are never overwritten or deleted.
type OrderRepository interface {
	Create(order domain.Order) error

	// Get returns a copy of the order or domain.ErrNotFound
	Get(orderID string) (domain.Order, error)

	// ListAll returns every order, most recent first
	ListAll() []domain.Order
}
