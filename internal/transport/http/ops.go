package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hrportal/pkg/platform/httputil"
)

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// poolChecker adapts a pgx pool to the HealthChecker shape.
type poolChecker struct{ pool *pgxpool.Pool }

func (p poolChecker) Health(ctx context.Context) error { return p.pool.Ping(ctx) }

// PoolChecker wraps a pgx pool for health reporting.
func PoolChecker(pool *pgxpool.Pool) HealthChecker { return poolChecker{pool: pool} }

// NewOpsRouter serves the operational endpoints on their own listener so
// they are never exposed through the public router or the gate.
func NewOpsRouter(checks map[string]HealthChecker) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(req.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			} else {
				body[name] = "ok"
			}
		}
		httputil.WriteJSON(w, status, body)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
