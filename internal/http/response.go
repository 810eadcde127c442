package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.uber.org/zap"
)

// Response is the envelope every API endpoint except health answers with.
type Response struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Message  string `json:"message,omitempty"`
	Count    *int   `json:"count,omitempty"`
	Category string `json:"category,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondData(w http.ResponseWriter, status int, data any, message string) {
	respondJSON(w, status, Response{Success: true, Data: data, Message: message})
}

func respondList(w http.ResponseWriter, data any, count int) {
	respondJSON(w, http.StatusOK, Response{Success: true, Data: data, Count: &count})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Success: false,
		Message: message,
		Code:    code,
	})
}

// handleServiceError maps engine errors to HTTP statuses. Anything it does not
// recognise is an internal fault and gets logged.
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "Cart is empty")
	case errors.Is(err, domain.ErrInvalidPaymentMethod):
		respondError(w, http.StatusBadRequest, "invalid_payment_method", "Payment method must be cash, card, or upi")
	default:
		logger.Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
