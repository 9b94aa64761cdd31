package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/ysegev/wealth-tracker/pkg/auth"
)

type contextKey string

const claimsKey contextKey = "claims"

// requireAuth rejects requests without a valid bearer token and attaches
// the verified claims to the request context
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := s.authn.VerifyToken(token)
		if err != nil {
			writeError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// claimsFrom extracts the verified token claims attached by requireAuth
func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}
