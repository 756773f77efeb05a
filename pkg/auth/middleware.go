package auth

import (
	"net/http"
	"strings"

	httputil "campushub/pkg/http"
	"campushub/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// Authenticate resolves the bearer token on every request and stores the
// identity on the context. Requests without a valid token are rejected.
func Authenticate(verifier Verifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				_ = httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
					Error: "Missing or malformed Authorization header",
				})
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				log.Warn("Token verification failed",
					"path", r.URL.Path,
					"error", err,
				)
				_ = httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
					Error: "Invalid or expired token",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// Guard wraps a single route with an access check.
type Guard = func(httprouter.Handle) httprouter.Handle

// RoleGuard returns a role check for a route, or a pass-through when
// authentication is disabled.
func RoleGuard(enabled bool, log *logger.Logger, roles ...string) Guard {
	if !enabled {
		return func(next httprouter.Handle) httprouter.Handle { return next }
	}
	return RequireRole(log, roles...)
}

// RequireRole guards a single route: the resolved identity must carry
// one of the given roles.
func RequireRole(log *logger.Logger, roles ...string) func(httprouter.Handle) httprouter.Handle {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			identity := FromContext(r.Context())
			if identity == nil {
				_ = httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
					Error: "Authentication required",
				})
				return
			}

			if _, ok := allowed[identity.Role]; !ok {
				log.Warn("Role check failed",
					"path", r.URL.Path,
					"user_id", identity.UserID,
					"role", identity.Role,
				)
				_ = httputil.WriteJSON(w, http.StatusForbidden, httputil.ErrorResponse{
					Error: "Insufficient permissions",
				})
				return
			}

			next(w, r, ps)
		}
	}
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
