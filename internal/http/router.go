package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Deps bundles what the router needs to build its handlers.
type Deps struct {
	Logger          *zap.Logger
	Env             string
	Catalog         catalog.Reader
	Carts           repository.CartRepository
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	OrderService    *service.OrderService
	Users           *auth.UserStore
	Tokens          *auth.TokenManager
	CookieSigner    *CookieSigner
	RequestTimeout  time.Duration
	MaxBodySize     int64
}

func NewRouter(d Deps) http.Handler {
	products := NewProductHandler(d.Catalog)
	carts := NewCartHandler(d.CartService, d.Logger)
	orders := NewOrdersHandler(d.CheckoutService, d.OrderService, d.Logger)
	users := NewAuthHandler(d.Users, d.Tokens, d.Logger)
	health := NewHealthHandler(d.Env)

	cartIdentity := CartIdentity(d.Carts, d.CookieSigner)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.RequestTimeout))
	}
	r.Use(middleware.Compress(5))
	if d.MaxBodySize > 0 {
		r.Use(middleware.RequestSize(d.MaxBodySize))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.Get)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/{id}", products.Get)
			r.Get("/category/{category}", products.ByCategory)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", users.Register)
			r.Post("/login", users.Login)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(OptionalAuthenticate(d.Tokens))
			r.Use(cartIdentity)

			r.Get("/", carts.GetCart)
			r.Post("/", carts.AddItem)
			r.Post("/seed", carts.Seed)
			r.Patch("/{itemId}", carts.UpdateItem)
			r.Delete("/{itemId}", carts.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(Authenticate(d.Tokens), cartIdentity).Post("/", orders.Create)
			r.Get("/", orders.List)
			r.Get("/{orderId}", orders.Get)
		})
	})

	return r
}
