package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lawyered0/clawyer/internal/conflicts"
	"github.com/lawyered0/clawyer/pkg/platform/httputil"
	"github.com/lawyered0/clawyer/pkg/requestcontext"
)

// Service defines the conflict check operations the handler needs.
type Service interface {
	Check(ctx context.Context, names []string) (conflicts.CheckResult, error)
}

// Seeder is the single-entry atomic write surface exposed to administrators.
type Seeder interface {
	SeedEntry(ctx context.Context, entry conflicts.SeedEntry) error
}

// Handler wires conflict check endpoints to the gate service.
type Handler struct {
	service Service
	seeder  Seeder
	logger  *slog.Logger
	admin   func(http.Handler) http.Handler
}

// New constructs a conflicts handler. admin is the middleware guarding the
// seed endpoint.
func New(service Service, seeder Seeder, logger *slog.Logger, admin func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, seeder: seeder, logger: logger, admin: admin}
}

// Register mounts conflict endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/conflicts/check", h.HandleCheck)
	r.With(h.admin).Post("/conflicts/seed", h.HandleSeed)
}

// HandleCheck handles POST /conflicts/check.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Check(ctx, req.Names)
	if err != nil {
		h.logger.ErrorContext(ctx, "conflict check failed",
			"request_id", requestID,
			"candidates", len(req.Names),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "conflict check completed",
		"request_id", requestID,
		"candidates", len(req.Names),
		"hits", len(result.Hits),
		"source", result.Source,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if result.Hits == nil {
		result.Hits = []conflicts.ConflictHit{}
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleSeed handles POST /conflicts/seed.
func (h *Handler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SeedRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.seeder.SeedEntry(ctx, req.Entry()); err != nil {
		h.logger.ErrorContext(ctx, "seed entry failed",
			"request_id", requestID,
			"matter_id", req.MatterID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "seed entry written",
		"request_id", requestID,
		"matter_id", req.MatterID,
		"reviewer", requestcontext.Reviewer(ctx),
	)
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"status": "seeded"})
}
