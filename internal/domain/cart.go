package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MaxItemQuantity is the per line item ceiling.
	MaxItemQuantity = 10

	DefaultCurrency = "INR"
)

// CartItem is a snapshot of product fields taken when the product was added.
// Later catalog changes do not touch it.
type CartItem struct {
	ID        string          `json:"id"`
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
	Brand     string          `json:"brand"`
}

// NewCartItem copies the product fields by value into a new line item.
func NewCartItem(p Product, quantity int) CartItem {
	return CartItem{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Currency:  p.Currency,
		Quantity:  quantity,
		Image:     p.Image,
		Brand:     p.Brand,
	}
}

// Subtotal returns price * quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId,omitempty"`
	Items       []CartItem      `json:"items"`
	TotalItems  int             `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Currency    string          `json:"currency"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NewCart returns an empty cart stamped with now.
func NewCart(userID string, now time.Time) Cart {
	return Cart{
		ID:          uuid.NewString(),
		UserID:      userID,
		Items:       []CartItem{},
		TotalAmount: decimal.Zero,
		Currency:    DefaultCurrency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Recalculate recomputes the totals from the item list.
func (c *Cart) Recalculate() {
	totalItems := 0
	totalAmount := decimal.Zero
	for _, item := range c.Items {
		totalItems += item.Quantity
		totalAmount = totalAmount.Add(item.Subtotal())
	}
	c.TotalItems = totalItems
	c.TotalAmount = totalAmount
}

// ItemIndex returns the position of the item with the given id, or -1.
func (c *Cart) ItemIndex(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// ProductIndex returns the position of the item holding productID, or -1.
func (c *Cart) ProductIndex(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// RemoveAt deletes the item at index i keeping insertion order.
func (c *Cart) RemoveAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// Clear drops every item and zeroes the totals.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.Recalculate()
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clone returns a deep copy that shares no item storage with c.
func (c Cart) Clone() Cart {
	c.Items = cloneItems(c.Items)
	return c
}

func cloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}
