package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	CartCookieName = "cartId"
	CartIDHeader   = "X-Cart-ID"
	cartCookieTTL  = 7 * 24 * time.Hour
)

type ctxKey int

const (
	userKey ctxKey = iota
	cartIDKey
)

func withUser(ctx context.Context, u auth.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (auth.User, bool) {
	u, ok := ctx.Value(userKey).(auth.User)
	return u, ok
}

func userIDFromContext(ctx context.Context) string {
	u, _ := UserFromContext(ctx)
	return u.ID
}

func CartIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(cartIDKey).(string)
	return id
}

// RequestLogger logs one line per request once the handler has finished.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Authenticate rejects requests without a valid bearer token.
func Authenticate(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respondError(w, http.StatusUnauthorized, "unauthorized", "Missing Authorization header")
				return
			}
			user, err := tokens.Verify(token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// OptionalAuthenticate attaches the user when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuthenticate(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if user, err := tokens.Verify(token); err == nil {
					r = r.WithContext(withUser(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CartIdentity resolves the caller's cart from the signed cookie, then the
// X-Cart-ID header, creating a fresh cart when neither names a live one. The
// resolved id is re-issued as a cookie and echoed in the response header.
func CartIdentity(carts repository.CartRepository, signer *CookieSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			incoming := ""
			if c, err := r.Cookie(CartCookieName); err == nil {
				if id, ok := signer.Unsign(c.Value); ok {
					incoming = id
				}
			}
			if incoming == "" {
				incoming = r.Header.Get(CartIDHeader)
			}

			cart := carts.GetOrCreate(incoming, userIDFromContext(r.Context()))

			http.SetCookie(w, &http.Cookie{
				Name:     CartCookieName,
				Value:    signer.Sign(cart.ID),
				Path:     "/",
				MaxAge:   int(cartCookieTTL.Seconds()),
				HttpOnly: true,
				Secure:   true,
				SameSite: http.SameSiteNoneMode,
			})
			w.Header().Set(CartIDHeader, cart.ID)

			ctx := context.WithValue(r.Context(), cartIDKey, cart.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
