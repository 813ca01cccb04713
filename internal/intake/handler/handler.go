// Package handler exposes matter intake over HTTP: matter creation gated by
// the conflict check, and the reviewer clearance endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lawyered0/clawyer/internal/conflicts"
	"github.com/lawyered0/clawyer/internal/intake"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
	"github.com/lawyered0/clawyer/pkg/platform/httputil"
	"github.com/lawyered0/clawyer/pkg/requestcontext"
)

// Service defines the intake operations the handler needs.
type Service interface {
	CreateMatter(ctx context.Context, req intake.MatterRequest) (intake.MatterResult, error)
	RecordClearance(ctx context.Context, names []string, disposition intake.Disposition, hits []conflicts.ConflictHit, reviewer string) (intake.ClearanceRecord, error)
}

// Handler wires intake endpoints to the gate service.
type Handler struct {
	service Service
	logger  *slog.Logger
	admin   func(http.Handler) http.Handler
}

// New constructs an intake handler. admin guards the clearance endpoint;
// matter creation is open to the practice-management frontends.
func New(service Service, logger *slog.Logger, admin func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, logger: logger, admin: admin}
}

// Register mounts intake endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/matters", h.HandleCreateMatter)
	r.With(h.admin).Post("/clearances", h.HandleRecordClearance)
}

// blockedResponse is the 409 body: the standard error envelope with the
// blocking hits attached so the caller can route them to review.
type blockedResponse struct {
	Error            string                  `json:"error"`
	ErrorDescription string                  `json:"error_description"`
	Hits             []conflicts.ConflictHit `json:"hits"`
	Source           string                  `json:"source,omitempty"`
}

// HandleCreateMatter handles POST /matters.
func (h *Handler) HandleCreateMatter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[MatterCreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.CreateMatter(ctx, req.Request())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeClearanceRequired) {
			h.logger.InfoContext(ctx, "matter creation blocked",
				"request_id", requestID,
				"matter_id", req.MatterID,
				"hits", len(result.Hits),
			)
			httputil.WriteJSON(w, http.StatusConflict, blockedResponse{
				Error:            string(dErrors.CodeClearanceRequired),
				ErrorDescription: dErrors.MessageOf(err),
				Hits:             result.Hits,
				Source:           result.Source,
			})
			return
		}
		h.logger.ErrorContext(ctx, "matter creation failed",
			"request_id", requestID,
			"matter_id", req.MatterID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "matter creation completed",
		"request_id", requestID,
		"matter_id", req.MatterID,
		"parties", result.Seeded,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, result)
}

// HandleRecordClearance handles POST /clearances.
func (h *Handler) HandleRecordClearance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ClearanceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	disposition, _ := intake.ParseDisposition(req.Disposition)

	record, err := h.service.RecordClearance(ctx, req.Names, disposition, req.Hits, req.Reviewer)
	if err != nil {
		h.logger.ErrorContext(ctx, "clearance recording failed",
			"request_id", requestID,
			"disposition", disposition,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, record)
}
