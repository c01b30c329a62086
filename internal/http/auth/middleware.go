package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/pocket/internal/auth"
	"github.com/MrJamesThe3rd/pocket/internal/http/render"
)

type ctxKey struct{}

type errorResponse struct {
	Error string `json:"error"`
}

// Require rejects requests without a valid bearer token.
func Require(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				render.JSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization header required"})
				return
			}

			subject, err := tokens.Parse(token)
			if err != nil {
				slog.Debug("rejected token", "error", err)
				render.JSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})

				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, subject)))
		})
	}
}

// Subject returns the token subject of an authenticated request.
func Subject(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxKey{}).(string)
	return s, ok
}
