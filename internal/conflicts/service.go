package conflicts

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lawyered0/clawyer/internal/conflicts/metrics"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
	pstrings "github.com/lawyered0/clawyer/pkg/platform/strings"
)

// Result sources. Callers treat fallback results with lower trust.
const (
	SourceDB       = "db"
	SourceFallback = "fallback"
)

// FallbackSource supplies the supplementary conflicts list used when the
// primary store is unreachable or empty. skipped counts malformed entries;
// they are logged and excluded, never fatal.
type FallbackSource interface {
	Entries(ctx context.Context) (entries []SeedEntry, skipped int, err error)
}

// CheckResult is the outcome of one conflict check.
type CheckResult struct {
	Hits   []ConflictHit `json:"hits"`
	Source string        `json:"source"`
}

// Service is the conflict check gate: the read path consulted at matter
// intake. It never takes the reindex guard and reads whatever graph state
// is currently committed.
type Service struct {
	store    Store
	fallback FallbackSource
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// NewService builds the gate. fallback may be nil when the degraded path is
// disabled by configuration.
func NewService(store Store, fallback FallbackSource, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:    store,
		fallback: fallback,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("github.com/lawyered0/clawyer/internal/conflicts"),
	}
}

// Check matches the candidate names against the party graph. DB-first; when
// the store errors or is empty and a fallback source is configured, the
// supplementary conflicts file is consulted instead and the result is marked
// degraded. When neither source can answer, the check fails closed: an error
// is returned, never an empty "clear".
func (s *Service) Check(ctx context.Context, names []string) (CheckResult, error) {
	ctx, span := s.tracer.Start(ctx, "conflicts.Check")
	defer span.End()

	start := time.Now()
	names = pstrings.DedupeAndTrim(names)
	span.SetAttributes(attribute.Int("conflicts.candidates", len(names)))
	if len(names) == 0 {
		return CheckResult{Hits: []ConflictHit{}, Source: SourceDB}, nil
	}

	g, loadErr := s.store.Load(ctx)
	if loadErr == nil && !g.Empty() {
		hits := Match(g, names)
		s.observe(SourceDB, hits, start)
		return CheckResult{Hits: hits, Source: SourceDB}, nil
	}

	if loadErr != nil {
		s.logger.WarnContext(ctx, "party graph store unavailable",
			"error", loadErr,
			"fallback_enabled", s.fallback != nil,
		)
	}

	if s.fallback == nil {
		if loadErr != nil {
			return CheckResult{}, dErrors.Wrap(loadErr, dErrors.CodeUnverifiable, "conflict check unavailable and no fallback configured")
		}
		// Store reachable but empty: a legitimate (if unusual) clear.
		hits := Match(g, names)
		s.observe(SourceDB, hits, start)
		return CheckResult{Hits: hits, Source: SourceDB}, nil
	}

	entries, skipped, fbErr := s.fallback.Entries(ctx)
	if fbErr != nil {
		if loadErr != nil {
			// Both sources down: report "unable to verify", never "clear".
			return CheckResult{}, dErrors.Wrap(fbErr, dErrors.CodeUnverifiable, "store and fallback both unavailable")
		}
		s.logger.WarnContext(ctx, "fallback conflicts source unreadable, using empty store result",
			"error", fbErr,
		)
		hits := Match(g, names)
		s.observe(SourceDB, hits, start)
		return CheckResult{Hits: hits, Source: SourceDB}, nil
	}

	if skipped > 0 {
		s.logger.WarnContext(ctx, "fallback conflicts source has malformed entries",
			"skipped", skipped,
		)
	}
	hits := Match(GraphFromEntries(entries), names)
	s.observe(SourceFallback, hits, start)
	return CheckResult{Hits: hits, Source: SourceFallback}, nil
}

func (s *Service) observe(source string, hits []ConflictHit, start time.Time) {
	s.metrics.IncrementCheck(source)
	for _, h := range hits {
		s.metrics.IncrementHit(string(h.Kind))
	}
	s.metrics.ObserveCheckLatency(time.Since(start))
}

// GraphFromEntries builds an in-memory snapshot from raw seed entries.
// Used by the fallback path; entries that fail validation are skipped.
func GraphFromEntries(entries []SeedEntry) *Graph {
	store := NewInMemoryStore()
	ctx := context.Background()
	for _, entry := range entries {
		_ = store.SeedEntry(ctx, entry)
	}
	g, _ := store.Load(ctx)
	return g
}
