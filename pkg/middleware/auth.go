package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/stockledger/pkg/auth"
	"github.com/shashiranjanraj/stockledger/pkg/response"
)

type claimsKey struct{}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the verified claims in the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromCtx returns the verified JWT claims, if the request passed
// AuthMiddleware.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}
