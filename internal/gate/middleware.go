package gate

import (
	"log/slog"
	"net/http"

	gatemetrics "hrportal/internal/gate/metrics"
)

// Middleware runs the gate in front of page navigation. The session layer has
// already decoded the claims and attached the principal (or nothing) to the
// context; the middleware only consults that and the path, so it never blocks.
//
// API routes are not wrapped by this middleware: their handlers re-check role
// and reply with explicit 401/403 instead of redirecting.
func Middleware(m *gatemetrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			d := Decide(r.URL.Path, p)

			if d.Allow {
				m.ObserveAllow()
				next.ServeHTTP(w, r)
				return
			}

			m.ObserveRedirect(d.Target)
			logger.DebugContext(r.Context(), "gate redirect",
				"path", r.URL.Path,
				"target", d.Target,
			)
			http.Redirect(w, r, d.Target, http.StatusSeeOther)
		})
	}
}
