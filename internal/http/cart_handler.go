package http

import (
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartHandler struct {
	carts  *service.CartService
	logger *zap.Logger
}

func NewCartHandler(carts *service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.GetCart(CartIDFromContext(r.Context()), userIDFromContext(r.Context()))
	respondData(w, http.StatusOK, cart, "")
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cart, err := h.carts.AddItem(r.Context(), service.AddItemInput{
		CartID:    CartIDFromContext(r.Context()),
		UserID:    userIDFromContext(r.Context()),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondData(w, http.StatusCreated, cart, "Item added to cart successfully")
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quantity := *req.Quantity
	cart, err := h.carts.UpdateItem(r.Context(), CartIDFromContext(r.Context()), chi.URLParam(r, "itemId"), quantity)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	message := "Item quantity updated successfully"
	if quantity == 0 {
		message = "Item removed from cart successfully"
	}
	respondData(w, http.StatusOK, cart, message)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.RemoveItem(CartIDFromContext(r.Context()), chi.URLParam(r, "itemId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, cart, "Item removed from cart successfully")
}

func (h *CartHandler) Seed(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Seed(r.Context(), CartIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondData(w, http.StatusCreated, cart, "Cart seeded with dummy items")
}
