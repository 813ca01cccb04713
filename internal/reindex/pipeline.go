package reindex

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/lawyered0/clawyer/internal/conflicts"
	"github.com/lawyered0/clawyer/internal/reindex/metrics"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
)

// Summary reports the outcome of one reindex run. On failure Seeded still
// carries the number of entries committed before the abort.
type Summary struct {
	Seeded         int `json:"seeded"`
	SkippedMatters int `json:"skipped_matters"`

	// SkippedEntries counts malformed supplementary entries; whole matters
	// that were skipped land in SkippedMatters.
	SkippedEntries int `json:"skipped_entries"`
}

// Pipeline rebuilds the party graph: full reset followed by per-matter
// atomic seeding, all under an exclusive guard.
//
// The guard serializes reindex runs against each other only. Conflict-check
// reads never take it and may observe a mid-rebuild store; that window is
// acceptable because the check is advisory and the clearance decision is
// the authoritative gate. A failed run leaves whatever partial state was
// committed; the next successful run's reset recovers consistency.
type Pipeline struct {
	store      conflicts.Store
	source     Source
	supplement conflicts.FallbackSource

	// guard is the process-wide exclusion primitive for reindex. It is
	// deliberately owned here and exposed nowhere else.
	guard *semaphore.Weighted

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// New constructs the pipeline. supplement may be nil when no supplementary
// conflicts file is configured.
func New(store conflicts.Store, source Source, supplement conflicts.FallbackSource, logger *slog.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		store:      store,
		source:     source,
		supplement: supplement,
		guard:      semaphore.NewWeighted(1),
		logger:     logger,
		metrics:    m,
		tracer:     otel.Tracer("github.com/lawyered0/clawyer/internal/reindex"),
	}
}

// Run executes one full reindex. Concurrent calls serialize on the guard;
// the guard is released on every path. Failures abort the run and surface
// with the partial seed count; nothing is rolled back.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	ctx, span := p.tracer.Start(ctx, "reindex.Run")
	defer span.End()

	if err := p.guard.Acquire(ctx, 1); err != nil {
		return Summary{}, dErrors.Wrap(err, dErrors.CodeTimeout, "reindex cancelled while waiting for guard")
	}
	defer p.guard.Release(1)

	start := time.Now()
	summary, err := p.run(ctx)
	span.SetAttributes(
		attribute.Int("reindex.seeded", summary.Seeded),
		attribute.Int("reindex.skipped_matters", summary.SkippedMatters),
	)
	if err != nil {
		p.metrics.ObserveRun("error", summary.Seeded, time.Since(start))
		p.logger.ErrorContext(ctx, "reindex aborted",
			"seeded", summary.Seeded,
			"skipped_matters", summary.SkippedMatters,
			"error", err,
		)
		return summary, err
	}

	p.metrics.ObserveRun("success", summary.Seeded, time.Since(start))
	p.logger.InfoContext(ctx, "reindex completed",
		"seeded", summary.Seeded,
		"skipped_matters", summary.SkippedMatters,
		"skipped_entries", summary.SkippedEntries,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return summary, nil
}

func (p *Pipeline) run(ctx context.Context) (Summary, error) {
	var summary Summary

	matters, skipped, err := p.source.Matters(ctx)
	if err != nil {
		return summary, err
	}
	summary.SkippedMatters = skipped

	if err := p.store.ResetAll(ctx); err != nil {
		return summary, err
	}

	for _, matter := range matters {
		for _, entry := range matter.Entries {
			if err := p.store.SeedEntry(ctx, entry); err != nil {
				// An entry the store rejects as invalid spoils only its own
				// matter; anything else aborts the run.
				if dErrors.HasCode(err, dErrors.CodeValidation) {
					summary.SkippedMatters++
					p.logger.WarnContext(ctx, "matter entry invalid, skipping matter",
						"matter_id", matter.ID,
						"error", err,
					)
					break
				}
				return summary, dErrors.Wrap(err, dErrors.CodeStorage,
					"seed aborted for matter "+string(matter.ID))
			}
			summary.Seeded++
		}
	}

	if p.supplement != nil {
		entries, skipped, err := p.supplement.Entries(ctx)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// The supplementary file is optional.
		case err != nil:
			summary.SkippedMatters++
			p.logger.WarnContext(ctx, "supplementary conflicts file unreadable, skipping",
				"error", err,
			)
		default:
			summary.SkippedEntries += skipped
			for _, entry := range entries {
				if err := p.store.SeedEntry(ctx, entry); err != nil {
					if dErrors.HasCode(err, dErrors.CodeValidation) {
						summary.SkippedEntries++
						p.logger.WarnContext(ctx, "supplementary entry invalid, skipping",
							"party", entry.CanonicalName,
							"error", err,
						)
						continue
					}
					return summary, dErrors.Wrap(err, dErrors.CodeStorage, "seed aborted for supplementary entry")
				}
				summary.Seeded++
			}
		}
	}

	return summary, nil
}
