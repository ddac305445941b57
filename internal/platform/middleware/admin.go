package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	dErrors "eramap/pkg/domainerrors"
	"eramap/pkg/platform/httputil"
)

type adminSubjectKey struct{}

// GetAdminSubject returns the subject claim of the validated admin token, or
// empty outside an admin-protected route.
func GetAdminSubject(ctx context.Context) string {
	subject, _ := ctx.Value(adminSubjectKey{}).(string)
	return subject
}

// RequireAdmin validates an HS256 bearer token with an "admin" role claim.
// An empty signing key disables the surface with 503 so a misconfigured
// deployment fails closed.
func RequireAdmin(signingKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if signingKey == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "admin interface not configured"))
				return
			}

			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				return []byte(signingKey), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				logger.WarnContext(r.Context(), "rejected admin token",
					"request_id", GetRequestID(r.Context()),
					"error", err.Error(),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
				return
			}
			if role, _ := claims["role"].(string); role != "admin" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin role required"))
				return
			}

			subject, _ := claims["sub"].(string)
			ctx := context.WithValue(r.Context(), adminSubjectKey{}, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
