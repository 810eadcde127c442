package http

import (
	"errors"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users  *auth.UserStore
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewAuthHandler(users *auth.UserStore, tokens *auth.TokenManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  auth.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(req.Name, req.Email, req.Password)
	if errors.Is(err, auth.ErrEmailTaken) {
		respondError(w, http.StatusConflict, "email_taken", "Email already registered")
		return
	}
	if err != nil {
		h.logger.Error("failed to register user", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to register")
		return
	}

	h.logger.Info("user registered", zap.String("user_id", user.ID))
	respondData(w, http.StatusCreated, user, "")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to login")
		return
	}

	respondData(w, http.StatusOK, LoginResponse{Token: token, User: user}, "")
}
