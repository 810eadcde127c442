package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticCatalog []domain.Product

func (c staticCatalog) ListProducts(context.Context) []domain.Product {
	out := make([]domain.Product, len(c))
	copy(out, c)
	return out
}

func testProducts() staticCatalog {
	return staticCatalog{
		{ID: 1, Name: "Classic Cotton T-Shirt", Price: decimal.RequireFromString("499"), Currency: "INR", Stock: 25, Category: "Clothing"},
		{ID: 2, Name: "Slim Fit Denim Jeans", Price: decimal.RequireFromString("1299.50"), Currency: "INR", Stock: 15, Category: "Clothing"},
		{ID: 3, Name: "Wireless Earbuds", Price: decimal.RequireFromString("2499"), Currency: "INR", Stock: 10, Category: "Electronics"},
		{ID: 4, Name: "Stainless Steel Water Bottle", Price: decimal.RequireFromString("349.99"), Currency: "INR", Stock: 3, Category: "Home"},
		{ID: 6, Name: "Smart Fitness Band", Price: decimal.RequireFromString("1999"), Currency: "INR", Stock: 0, Category: "Electronics"},
	}
}

type testServer struct {
	handler http.Handler
	carts   *repository.MemoryCartRepository
	users   *auth.UserStore
	tokens  *auth.TokenManager
	signer  *CookieSigner
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	logger := zap.NewNop()
	carts := repository.NewMemoryCartRepository()
	orders := repository.NewMemoryOrderRepository()
	products := testProducts()

	s := &testServer{
		carts:  carts,
		users:  auth.NewUserStore(),
		tokens: auth.NewTokenManager("test-jwt-secret"),
		signer: NewCookieSigner("test-cookie-secret"),
	}
	s.handler = NewRouter(Deps{
		Logger:          logger,
		Env:             "test",
		Catalog:         products,
		Carts:           carts,
		CartService:     service.NewCartService(carts, products, logger),
		CheckoutService: service.NewCheckoutService(carts, orders, nopPublisher{}, logger),
		OrderService:    service.NewOrderService(orders),
		Users:           s.users,
		Tokens:          s.tokens,
		CookieSigner:    s.signer,
		RequestTimeout:  5 * time.Second,
		MaxBodySize:     1 << 20,
	})
	return s
}

type nopPublisher struct{}

func (nopPublisher) PublishOrderPlaced(context.Context, domain.Order) error { return nil }

type requestOption func(*http.Request)

func withCartHeader(cartID string) requestOption {
	return func(r *http.Request) { r.Header.Set(CartIDHeader, cartID) }
}

func withBearer(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(c *http.Cookie) requestOption {
	return func(r *http.Request) { r.AddCookie(c) }
}

func (s *testServer) do(t *testing.T, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) token(t *testing.T, u auth.User) string {
	t.Helper()
	token, err := s.tokens.Issue(u)
	require.NoError(t, err)
	return token
}

type envelope[T any] struct {
	Success  bool   `json:"success"`
	Data     T      `json:"data"`
	Message  string `json:"message"`
	Count    *int   `json:"count"`
	Category string `json:"category"`
	Code     string `json:"code"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func cartCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CartCookieName {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", CartCookieName)
	return nil
}

func decodeInto(rec *httptest.ResponseRecorder, v any) error {
	return json.NewDecoder(rec.Body).Decode(v)
}
