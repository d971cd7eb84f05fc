package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/logger"
)

const (
	cartSessionCookie = "pudim_cart_session"
	cartSessionHeader = "X-Cart-Session"
)

// CartSession pins every storefront request to an anonymous session. The
// identifier travels as a cookie (with a header fallback for clients that
// block cookies) and is minted on first contact; it keys the persisted
// cart, nothing else.
func CartSession(ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(cartSessionCookie); err == nil {
				sessionID = sanitizeSessionID(cookie.Value)
			}
			if sessionID == "" {
				sessionID = sanitizeSessionID(r.Header.Get(cartSessionHeader))
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cartSessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(cartSessionHeader, sessionID)

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sanitizeSessionID accepts only UUID-shaped identifiers so arbitrary
// client input never reaches the cart keyspace.
func sanitizeSessionID(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if _, err := uuid.Parse(value); err != nil {
		return ""
	}
	return value
}
