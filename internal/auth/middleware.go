package auth

import (
	"net/http"
	"strings"

	"github.com/nassimdv/workload-app/internal/httpx"
)

// Middleware extracts and verifies the bearer token, then stores the tagged
// principal in the request context. Requests without a token pass through
// unauthenticated; RequireRole decides whether that is acceptable.
func Middleware(verifier TokenVerifier, superAdminEmail string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")
			claims, err := verifier.Verify(raw)
			if err != nil {
				httpx.JSONError(w, http.StatusUnauthorized, "invalid_token", nil)
				return
			}
			p := PrincipalFromClaims(claims, superAdminEmail)
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole gates a handler to the given role kinds. The superadmin
// always passes. 401 without a principal, 403 with the wrong one.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if !allowed[p.Kind] && !p.IsSuperAdmin() {
				httpx.JSONError(w, http.StatusForbidden, "access_denied", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
