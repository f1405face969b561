package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kiwari-pos/ordering/internal/auth"
	"github.com/kiwari-pos/ordering/internal/menu"
)

type contextKey string

const claimsKey contextKey = "claims"

// SessionCookie carries the session token for browser requests, which
// cannot send an Authorization header from links and HTML forms.
const SessionCookie = "menu_session"

// Authenticate accepts the session token from, in order: an
// "Authorization: Bearer" header, a ?token= query parameter, or the session
// cookie. A valid query token is stored in the session cookie so the
// page's follow-up form posts stay authenticated.
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, fromQuery, errMsg := tokenFromRequest(r)
			if errMsg != "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": errMsg})
				return
			}

			claims, err := auth.ValidateToken(jwtSecret, tokenStr)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}

			if fromQuery {
				cookie := &http.Cookie{
					Name:     SessionCookie,
					Value:    tokenStr,
					Path:     "/",
					HttpOnly: true,
					Secure:   r.TLS != nil,
					SameSite: http.SameSiteLaxMode,
				}
				if claims.ExpiresAt != nil {
					cookie.Expires = claims.ExpiresAt.Time
				}
				http.SetCookie(w, cookie)
			}

			ctx := WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) (token string, fromQuery bool, errMsg string) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", false, "invalid authorization format"
		}
		return parts[1], false, ""
	}
	if t := r.URL.Query().Get("token"); t != "" {
		return t, true, ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value, false, ""
	}
	return "", false, "missing authorization"
}

// WithClaims stores claims in ctx.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// SessionFromContext returns the menu session for the authenticated user.
func SessionFromContext(ctx context.Context) (menu.Session, bool) {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return menu.Session{}, false
	}
	return menu.Session{UserID: claims.UserID}, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
