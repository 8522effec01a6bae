package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openshelf-io/catalog/internal/config"
	"github.com/openshelf-io/catalog/internal/utils"
)

// authClaimsKey is the context key under which validated token claims are
// stored for downstream handlers.
type authClaimsKey struct{}

// IsAuthenticated rejects requests that do not carry a valid bearer token
// signed with the service API secret. The decoded claims are placed in the
// request context.
func IsAuthenticated(cfg *config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authorization := r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")

			if !strings.HasPrefix(authorization, "Bearer ") {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{
					"error": "Please provide your authorization token",
				})
				return
			}

			token := strings.TrimPrefix(authorization, "Bearer ")
			claims, err := utils.ValidateAPIToken(token, cfg.JWTConfig.ApiSecret)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{
					"error": err.Error(),
				})
				return
			}

			ctx := context.WithValue(r.Context(), authClaimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext returns the claims stored by IsAuthenticated, or nil
// when the request was not authenticated.
func GetClaimsFromContext(ctx context.Context) *utils.CatalogClaims {
	claims, ok := ctx.Value(authClaimsKey{}).(*utils.CatalogClaims)
	if !ok {
		return nil
	}
	return claims
}
