package middleware

import (
	"context"
	"net/http"
	"strings"

	"catalog-backend/internal/domain"
	"catalog-backend/pkg/utils"
)

type identityKey struct{}

// Identity classifies the caller for rate limiting. A request carrying a
// valid Bearer token is "authenticated"; everything else is "anonymous".
// Classification never rejects: an invalid token just means anonymous.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := domain.IdentityAnonymous

		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if _, err := utils.ValidateJWT(token); err == nil {
				class = domain.IdentityAuthenticated
			}
		}

		ctx := context.WithValue(r.Context(), identityKey{}, class)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the caller's identity class, defaulting to
// anonymous when the Identity middleware did not run.
func IdentityFromContext(ctx context.Context) domain.IdentityClass {
	if class, ok := ctx.Value(identityKey{}).(domain.IdentityClass); ok {
		return class
	}
	return domain.IdentityAnonymous
}
