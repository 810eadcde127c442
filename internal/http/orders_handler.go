package http

import (
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultPhone   = "0000000000"
	defaultAddress = "Address not provided"
)

type OrdersHandler struct {
	checkout *service.CheckoutService
	orders   *service.OrderService
	logger   *zap.Logger
}

func NewOrdersHandler(checkout *service.CheckoutService, orders *service.OrderService, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		checkout: checkout,
		orders:   orders,
		logger:   logger,
	}
}

func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req CheckoutRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.checkout.CreateOrder(r.Context(), service.CheckoutInput{
		CartID:        CartIDFromContext(r.Context()),
		UserID:        user.ID,
		CustomerInfo:  customerInfo(req.CustomerInfo, user),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondData(w, http.StatusCreated, order, "Order created successfully")
}

// customerInfo falls back to the token's identity when the body has none.
func customerInfo(dto *CustomerInfoDTO, user auth.User) domain.CustomerInfo {
	if dto != nil {
		return domain.CustomerInfo{
			Name:    dto.Name,
			Email:   dto.Email,
			Phone:   dto.Phone,
			Address: dto.Address,
		}
	}

	info := domain.CustomerInfo{
		Name:    user.Name,
		Email:   user.Email,
		Phone:   defaultPhone,
		Address: defaultAddress,
	}
	if info.Name == "" {
		info.Name = "User " + user.ID
	}
	if info.Email == "" {
		info.Email = "user" + user.ID + "@example.com"
	}
	return info
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	orders := h.orders.ListOrders(r.URL.Query().Get("userId"))
	respondList(w, orders, len(orders))
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(chi.URLParam(r, "orderId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, order, "")
}
