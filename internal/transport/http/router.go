// Package httptransport assembles the HTTP surface: middleware chain,
// operational endpoints, and the mounted domain handlers.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lawyered0/clawyer/internal/platform/middleware"
	"github.com/lawyered0/clawyer/pkg/platform/httputil"
)

const requestTimeout = 30 * time.Second

// Registrar is implemented by every domain handler that mounts routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter builds the full router. Domain handlers register their own
// routes; transport concerns (request IDs, recovery, access logs, timeout)
// live here.
func NewRouter(logger *slog.Logger, registrars ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range registrars {
		h.Register(r)
	}
	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
