package domain

import "errors"

// Error kinds returned by the cart and checkout engines. All of them are
// caller-facing validation failures.
var (
	ErrNotFound             = errors.New("not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("payment method must be cash, card, or upi")
)
