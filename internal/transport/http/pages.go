package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/gate"
	"hrportal/internal/session"
	"hrportal/pkg/platform/httputil"
)

// registerPages mounts the navigable page shells. The frontend renders the
// actual views; the server's job here is only to answer the gated navigation
// with the page identity and, when signed in, the session snapshot the view
// needs. Every route below runs behind the gate middleware.
func registerPages(r chi.Router) {
	r.Get(gate.PathHome, page("home"))
	r.Get(gate.PathLogin, page("login"))
	r.Get(gate.PathRegister, page("register"))
	r.Get(gate.PathPendingApproval, page("pending-approval"))
	r.Get(gate.PathProfileSetup, page("profile-setup"))
	r.Get(gate.PathDashboard, page("dashboard"))
	r.Get(gate.PathManagerHome, page("manager"))
	r.Get(gate.PathAdminHome, page("admin"))
	r.Get("/profile", page("profile"))
	r.Get("/leave-application", page("leave-application"))

	r.Get(gate.PathDashboard+"/*", page("dashboard"))
	r.Get(gate.PathManagerHome+"/*", page("manager"))
	r.Get(gate.PathAdminHome+"/*", page("admin"))
	r.Get("/user/*", page("dashboard"))

	// Anything else already passed the fail-closed gate; there is just no
	// page there.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, map[string]any{"page": "not-found"})
	})
}

func page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"page": name}
		if claims := session.ClaimsFromContext(r.Context()); claims != nil {
			body["session"] = map[string]any{
				"subject":          claims.Subject,
				"name":             claims.DisplayName,
				"email":            claims.Email,
				"role":             claims.Role,
				"status":           claims.Status,
				"profile_complete": claims.ProfileComplete,
			}
		}
		httputil.WriteJSON(w, http.StatusOK, body)
	}
}
