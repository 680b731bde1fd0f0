package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"hrportal/internal/gate"
	"hrportal/internal/identity/models"
	"hrportal/internal/session/store/revocation"
	dErrors "hrportal/pkg/domain-errors"
	"hrportal/pkg/platform/httputil"
)

type contextKeyClaims struct{}

// ContextKeyClaims is exported for use in handlers.
var ContextKeyClaims = contextKeyClaims{}

// ClaimsFromContext retrieves the decoded session claims, or nil when the
// request carried no valid session.
func ClaimsFromContext(ctx context.Context) *Claims {
	c, ok := ctx.Value(ContextKeyClaims).(*Claims)
	if !ok {
		return nil
	}
	return c
}

// Middleware decodes the session token from the cookie (or, for API clients,
// the Authorization header), checks the revocation list, and attaches both
// the claims and the gate principal to the context.
//
// A missing, malformed, expired, or revoked token is not an error here: the
// request simply proceeds unauthenticated, and the gate's first rule or the
// handler's own auth check takes over. This keeps token failure semantics in
// exactly one place.
func Middleware(issuer *Issuer, revocations revocation.Store, cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := issuer.Decode(token)
			if err != nil {
				logger.DebugContext(r.Context(), "session decode failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					// Fail closed on revocation outages: treat as signed out.
					logger.ErrorContext(r.Context(), "revocation check failed", "error", err)
					next.ServeHTTP(w, r)
					return
				}
				if revoked {
					logger.DebugContext(r.Context(), "revoked session presented", "jti", claims.ID)
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			ctx = gate.ContextWithPrincipal(ctx, claims.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects unauthenticated API requests with an explicit 401.
// Unlike the gate, API routes never redirect.
func RequireAuth(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ClaimsFromContext(r.Context()) == nil {
				logger.WarnContext(r.Context(), "unauthorized api access", "path", r.URL.Path)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects API requests whose principal is below the minimum role.
// Role comparison uses the admin > manager > user total order, so an admin
// passes a manager requirement. Chain after RequireAuth.
func RequireRole(minimum models.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
				return
			}
			if claims.Role.Level() < minimum.Level() {
				logger.WarnContext(r.Context(), "forbidden api access",
					"path", r.URL.Path,
					"role", claims.Role,
					"required", minimum,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	const bearerPrefix = "Bearer "
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix); ok {
		return after
	}
	return ""
}
