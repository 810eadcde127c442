package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// stubCatalog serves an in-memory product list whose stock can change between calls.
type stubCatalog struct {
	mu       sync.Mutex
	products []domain.Product
}

func newStubCatalog(products ...domain.Product) *stubCatalog {
	return &stubCatalog{products: products}
}

func (c *stubCatalog) ListProducts(context.Context) []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *stubCatalog) setStock(id int64, stock int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.products {
		if c.products[i].ID == id {
			c.products[i].Stock = stock
		}
	}
}

func (c *stubCatalog) remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.products[:0]
	for _, p := range c.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.products = kept
}

func testProduct(id int64, price string, stock int) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "product",
		Price:    decimal.RequireFromString(price),
		Currency: domain.DefaultCurrency,
		Stock:    stock,
		Brand:    "brand",
		Category: "Misc",
	}
}

func defaultCatalog() *stubCatalog {
	return newStubCatalog(
		testProduct(1, "10", 5),
		testProduct(2, "15", 20),
		testProduct(3, "2499", 10),
		testProduct(4, "349.99", 40),
		testProduct(5, "0.10", 3),
	)
}

// mockPublisher records published orders and optionally fails.
type mockPublisher struct {
	mu        sync.Mutex
	published []domain.Order
	err       error
}

func (p *mockPublisher) PublishOrderPlaced(_ context.Context, order domain.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, order)
	return nil
}

func (p *mockPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

type testEnv struct {
	carts    *repository.MemoryCartRepository
	orders   *repository.MemoryOrderRepository
	catalog  *stubCatalog
	events   *mockPublisher
	cart     *CartService
	checkout *CheckoutService
	query    *OrderService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	carts := repository.NewMemoryCartRepository()
	orders := repository.NewMemoryOrderRepository()
	catalog := defaultCatalog()
	events := &mockPublisher{}
	logger := zap.NewNop()

	cartSvc := NewCartService(carts, catalog, logger)
	cartSvc.now = func() time.Time { return fixedNow }
	checkoutSvc := NewCheckoutService(carts, orders, events, logger)
	checkoutSvc.now = func() time.Time { return fixedNow }

	return &testEnv{
		carts:    carts,
		orders:   orders,
		catalog:  catalog,
		events:   events,
		cart:     cartSvc,
		checkout: checkoutSvc,
		query:    NewOrderService(orders),
	}
}

var errBroker = errors.New("broker unavailable")
