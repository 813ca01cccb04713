// Package handler exposes the reindex pipeline over HTTP. The endpoint is
// administrative: it rebuilds the whole party graph and is guarded
// accordingly.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lawyered0/clawyer/internal/reindex"
	"github.com/lawyered0/clawyer/pkg/platform/httputil"
	"github.com/lawyered0/clawyer/pkg/requestcontext"
)

// Runner triggers one full reindex run.
type Runner interface {
	Run(ctx context.Context) (reindex.Summary, error)
}

// Handler wires the reindex trigger endpoint to the pipeline.
type Handler struct {
	runner Runner
	logger *slog.Logger
	admin  func(http.Handler) http.Handler
}

func New(runner Runner, logger *slog.Logger, admin func(http.Handler) http.Handler) *Handler {
	return &Handler{runner: runner, logger: logger, admin: admin}
}

// Register mounts the reindex endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.With(h.admin).Post("/conflicts/reindex", h.HandleReindex)
}

// HandleReindex handles POST /conflicts/reindex. The request blocks until
// the run completes; concurrent triggers queue behind the pipeline guard.
func (h *Handler) HandleReindex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	summary, err := h.runner.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "reindex request failed",
			"request_id", requestID,
			"reviewer", requestcontext.Reviewer(ctx),
			"seeded", summary.Seeded,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "reindex request completed",
		"request_id", requestID,
		"reviewer", requestcontext.Reviewer(ctx),
		"seeded", summary.Seeded,
		"skipped_matters", summary.SkippedMatters,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, summary)
}
