package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"go.uber.org/zap"
)

// AddItemInput is validated at the HTTP boundary before it reaches the engine.
type AddItemInput struct {
	CartID    string
	UserID    string
	ProductID int64
	Quantity  int
}

type CartService struct {
	carts   repository.CartRepository
	catalog catalog.Reader
	logger  *zap.Logger
	now     func() time.Time
}

func NewCartService(carts repository.CartRepository, reader catalog.Reader, logger *zap.Logger) *CartService {
	return &CartService{
		carts:   carts,
		catalog: reader,
		logger:  logger,
		now:     time.Now,
	}
}

// GetCart resolves (and possibly creates) the cart for the caller.
func (s *CartService) GetCart(cartID, userID string) domain.Cart {
	return s.carts.GetOrCreate(cartID, userID)
}

// AddItem adds quantity of a product, merging into the existing line item for
// that product. The merged quantity must respect the per item ceiling and the
// current stock.
func (s *CartService) AddItem(ctx context.Context, in AddItemInput) (domain.Cart, error) {
	if in.Quantity <= 0 || in.Quantity > domain.MaxItemQuantity {
		return domain.Cart{}, fmt.Errorf("quantity must be between 1 and %d: %w", domain.MaxItemQuantity, domain.ErrInvalidQuantity)
	}

	cart := s.carts.GetOrCreate(in.CartID, in.UserID)

	updated, err := s.carts.Update(cart.ID, func(c *domain.Cart) error {
		product, ok := catalog.Find(s.catalog.ListProducts(ctx), in.ProductID)
		if !ok {
			return fmt.Errorf("product %d: %w", in.ProductID, domain.ErrNotFound)
		}
		if product.Stock < in.Quantity {
			return fmt.Errorf("product %d has %d in stock: %w", product.ID, product.Stock, domain.ErrInsufficientStock)
		}

		if i := c.ProductIndex(in.ProductID); i >= 0 {
			merged := c.Items[i].Quantity + in.Quantity
			if merged > domain.MaxItemQuantity {
				return fmt.Errorf("quantity cannot exceed %d: %w", domain.MaxItemQuantity, domain.ErrInvalidQuantity)
			}
			if product.Stock < merged {
				return fmt.Errorf("product %d has %d in stock: %w", product.ID, product.Stock, domain.ErrInsufficientStock)
			}
			c.Items[i].Quantity = merged
		} else {
			c.Items = append(c.Items, domain.NewCartItem(product, in.Quantity))
		}

		c.Recalculate()
		c.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return domain.Cart{}, err
	}

	s.logger.Debug("item added to cart",
		zap.String("cart_id", updated.ID),
		zap.Int64("product_id", in.ProductID),
		zap.Int("quantity", in.Quantity))
	return updated, nil
}

// UpdateItem sets the quantity of a line item. A quantity of zero or less
// removes the item.
func (s *CartService) UpdateItem(ctx context.Context, cartID, itemID string, quantity int) (domain.Cart, error) {
	cart := s.carts.GetOrCreate(cartID, "")

	return s.carts.Update(cart.ID, func(c *domain.Cart) error {
		i := c.ItemIndex(itemID)
		if i < 0 {
			return fmt.Errorf("item %q not found in cart: %w", itemID, domain.ErrNotFound)
		}

		switch {
		case quantity <= 0:
			c.RemoveAt(i)
		case quantity > domain.MaxItemQuantity:
			return fmt.Errorf("quantity cannot exceed %d: %w", domain.MaxItemQuantity, domain.ErrInvalidQuantity)
		default:
			// a product that left the catalog keeps its snapshot and skips the stock check
			product, ok := catalog.Find(s.catalog.ListProducts(ctx), c.Items[i].ProductID)
			if ok && product.Stock < quantity {
				return fmt.Errorf("product %d has %d in stock: %w", product.ID, product.Stock, domain.ErrInsufficientStock)
			}
			c.Items[i].Quantity = quantity
		}

		c.Recalculate()
		c.UpdatedAt = s.now()
		return nil
	})
}

func (s *CartService) RemoveItem(cartID, itemID string) (domain.Cart, error) {
	cart := s.carts.GetOrCreate(cartID, "")

	return s.carts.Update(cart.ID, func(c *domain.Cart) error {
		i := c.ItemIndex(itemID)
		if i < 0 {
			return fmt.Errorf("item %q not found in cart: %w", itemID, domain.ErrNotFound)
		}

		c.RemoveAt(i)
		c.Recalculate()
		c.UpdatedAt = s.now()
		return nil
	})
}

var seedItems = []struct {
	productID int64
	quantity  int
}{
	{productID: 1, quantity: 1},
	{productID: 2, quantity: 2},
	{productID: 3, quantity: 1},
}

// Seed fills the cart with a fixed set of demo products. It stops at the first
// failing add; items added before the failure stay in the cart.
func (s *CartService) Seed(ctx context.Context, cartID string) (domain.Cart, error) {
	cart := s.carts.GetOrCreate(cartID, "")
	for _, item := range seedItems {
		var err error
		cart, err = s.AddItem(ctx, AddItemInput{CartID: cart.ID, ProductID: item.productID, Quantity: item.quantity})
		if err != nil {
			return domain.Cart{}, fmt.Errorf("failed to seed cart: %w", err)
		}
	}
	return cart, nil
}
