package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper-agent/internal/config"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
)

// Auth resolves the player claims cookie and stashes the claims in the
// request context. Anonymous or stale requests pass through with the
// cookies cleared; handlers decide whether claims are required.
func Auth(log *slog.Logger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParsePlayerClaims(r)
			if err != nil {
				cookies.Clear(w)
				h.ServeHTTP(w, r)
				return
			}
			if err := cookies.Renew(w, claims); err != nil {
				log.Warn("failed to renew auth cookies", "error", err)
			}
			ctx := context.WithValue(r.Context(), CtxPlayerClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PlayerClaims extracts claims stored by Auth, if any.
func PlayerClaims(ctx context.Context) (*config.PlayerClaims, bool) {
	claims, ok := ctx.Value(CtxPlayerClaims).(*config.PlayerClaims)
	return claims, ok
}
