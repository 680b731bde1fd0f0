package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/gate"
	gatemetrics "hrportal/internal/gate/metrics"
	identityhandler "hrportal/internal/identity/handler"
	leavehandler "hrportal/internal/leave/handler"
	"hrportal/internal/platform/middleware"
	"hrportal/internal/session"
	"hrportal/internal/session/store/revocation"
	dErrors "hrportal/pkg/domain-errors"
	"hrportal/pkg/platform/httputil"
)

// Dependencies carries everything the router wires together.
type Dependencies struct {
	Logger        *slog.Logger
	Issuer        *session.Issuer
	Revocations   revocation.Store
	GateMetrics   *gatemetrics.Metrics
	Identity      *identityhandler.Handler
	Leave         *leavehandler.Handler
	SessionCookie string
}

// NewRouter assembles the portal's HTTP surface. Two regimes share one
// session middleware: /api routes answer role failures with explicit
// 401/403 JSON, while page routes sit behind the gate and redirect.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(session.Middleware(deps.Issuer, deps.Revocations, deps.SessionCookie, deps.Logger))

	r.Route("/api", func(api chi.Router) {
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no such endpoint"))
		})
		deps.Identity.Register(api)
		deps.Leave.Register(api)
	})

	r.Group(func(pages chi.Router) {
		pages.Use(gate.Middleware(deps.GateMetrics, deps.Logger))
		registerPages(pages)
	})

	return r
}
