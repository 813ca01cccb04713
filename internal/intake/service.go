package intake

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lawyered0/clawyer/internal/conflicts"
	"github.com/lawyered0/clawyer/internal/intake/metrics"
	"github.com/lawyered0/clawyer/pkg/domain"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
	"github.com/lawyered0/clawyer/pkg/requestcontext"
)

// Checker is the conflict check consulted before a matter may be opened.
type Checker interface {
	Check(ctx context.Context, names []string) (conflicts.CheckResult, error)
}

// Seeder writes one party entry atomically into the graph.
type Seeder interface {
	SeedEntry(ctx context.Context, entry conflicts.SeedEntry) error
}

// MatterRequest is a validated request to open a matter.
type MatterRequest struct {
	MatterID domain.MatterID
	Parties  []conflicts.SeedEntry
}

// CandidateNames collects every name the conflict check must consider:
// canonical party names plus their aliases.
func (r MatterRequest) CandidateNames() []string {
	var names []string
	for _, p := range r.Parties {
		names = append(names, p.CanonicalName)
		names = append(names, p.Aliases...)
	}
	return names
}

// MatterResult reports the outcome of a creation attempt. Hits carries the
// conflicts that block (or were cleared for) the matter, so the caller can
// surface them alongside an error.
type MatterResult struct {
	MatterID domain.MatterID         `json:"matter_id"`
	Hits     []conflicts.ConflictHit `json:"hits"`
	Source   string                  `json:"source,omitempty"`
	Seeded   int                     `json:"seeded"`
}

// Service gates matter creation on the conflict check and clearance
// history, and records reviewer decisions.
type Service struct {
	checker    Checker
	seeder     Seeder
	clearances ClearanceStore
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

func NewService(checker Checker, seeder Seeder, clearances ClearanceStore, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		checker:    checker,
		seeder:     seeder,
		clearances: clearances,
		logger:     logger,
		metrics:    m,
		tracer:     otel.Tracer("github.com/lawyered0/clawyer/internal/intake"),
	}
}

// CreateMatter runs the conflict check over the matter's parties and, when
// the check is clean or a clearance covers the hits, seeds the parties into
// the graph. A declined clearance blocks the exact candidate set for good;
// uncovered hits demand a reviewer decision first. An unverifiable check is
// an error, never an open matter.
func (s *Service) CreateMatter(ctx context.Context, req MatterRequest) (MatterResult, error) {
	ctx, span := s.tracer.Start(ctx, "intake.CreateMatter")
	defer span.End()
	span.SetAttributes(attribute.String("matter.id", string(req.MatterID)))

	result := MatterResult{MatterID: req.MatterID, Hits: []conflicts.ConflictHit{}}
	if len(req.Parties) == 0 {
		return result, dErrors.New(dErrors.CodeValidation, "a matter requires at least one party")
	}

	names := req.CandidateNames()
	key := CandidateSetKey(names)

	declined, err := s.clearances.HasDeclined(ctx, key)
	if err != nil {
		s.metrics.IncrementMatter("error")
		return result, err
	}
	if declined {
		s.metrics.IncrementMatter("declined")
		s.logger.InfoContext(ctx, "matter blocked by declined clearance",
			"matter_id", req.MatterID,
			"candidate_set_key", key,
		)
		return result, dErrors.New(dErrors.CodeConflict, "engagement previously declined for this party set")
	}

	check, err := s.checker.Check(ctx, names)
	if err != nil {
		s.metrics.IncrementMatter("error")
		return result, err
	}
	result.Hits = check.Hits
	result.Source = check.Source

	if len(check.Hits) > 0 {
		record, ok, err := s.clearances.Latest(ctx, key)
		if err != nil {
			s.metrics.IncrementMatter("error")
			return result, err
		}
		covered := ok && (record.Disposition == DispositionClear || record.Disposition == DispositionWaived)
		if !covered {
			s.metrics.IncrementMatter("blocked")
			s.logger.InfoContext(ctx, "matter blocked pending clearance",
				"matter_id", req.MatterID,
				"candidate_set_key", key,
				"hits", len(check.Hits),
				"source", check.Source,
			)
			return result, dErrors.New(dErrors.CodeClearanceRequired, "conflict hits require reviewer clearance")
		}
		s.logger.InfoContext(ctx, "matter proceeding under clearance",
			"matter_id", req.MatterID,
			"clearance_id", record.ID,
			"disposition", record.Disposition,
			"reviewer", record.Reviewer,
		)
	}

	for _, entry := range req.Parties {
		entry.MatterID = req.MatterID
		if err := s.seeder.SeedEntry(ctx, entry); err != nil {
			s.metrics.IncrementMatter("error")
			return result, dErrors.Wrap(err, dErrors.CodeStorage, "seed matter party")
		}
		result.Seeded++
	}

	s.metrics.IncrementMatter("created")
	s.logger.InfoContext(ctx, "matter created",
		"matter_id", req.MatterID,
		"parties", result.Seeded,
		"hits", len(result.Hits),
	)
	return result, nil
}

// RecordClearance persists a reviewer decision for a candidate set. The
// reviewer defaults to the authenticated admin subject on the context.
func (s *Service) RecordClearance(ctx context.Context, names []string, disposition Disposition, hits []conflicts.ConflictHit, reviewer string) (ClearanceRecord, error) {
	ctx, span := s.tracer.Start(ctx, "intake.RecordClearance")
	defer span.End()

	if reviewer == "" {
		reviewer = requestcontext.Reviewer(ctx)
	}
	if reviewer == "" {
		return ClearanceRecord{}, dErrors.New(dErrors.CodeValidation, "a clearance requires a reviewer")
	}

	key := CandidateSetKey(names)
	if key == CandidateSetKey(nil) {
		return ClearanceRecord{}, dErrors.New(dErrors.CodeValidation, "a clearance requires at least one candidate name")
	}

	record := ClearanceRecord{
		ID:              domain.NewClearanceID(),
		CandidateSetKey: key,
		Disposition:     disposition,
		Hits:            hits,
		Reviewer:        reviewer,
		CreatedAt:       requestcontext.Now(ctx).UTC(),
	}
	if err := s.clearances.Save(ctx, record); err != nil {
		return ClearanceRecord{}, err
	}

	s.metrics.IncrementClearance(string(disposition))
	s.logger.InfoContext(ctx, "clearance recorded",
		"clearance_id", record.ID,
		"candidate_set_key", key,
		"disposition", disposition,
		"reviewer", reviewer,
	)
	return record, nil
}
