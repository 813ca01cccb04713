package intake

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/lawyered0/clawyer/internal/conflicts"
	"github.com/lawyered0/clawyer/pkg/domain"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
	"github.com/lawyered0/clawyer/pkg/platform/tx"
)

// clearanceDDL uses only syntax shared by PostgreSQL and SQLite. Timestamps
// are stored as fixed-width RFC 3339 text so lexicographic order matches
// chronological order on both backends.
const clearanceDDL = `
CREATE TABLE IF NOT EXISTS clearance_records (
    id                TEXT PRIMARY KEY,
    candidate_set_key TEXT NOT NULL,
    disposition       TEXT NOT NULL,
    hits              TEXT NOT NULL,
    reviewer          TEXT NOT NULL,
    created_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_clearance_records_key
    ON clearance_records (candidate_set_key, created_at);
`

// clearanceTimeFormat pads fractional seconds to nine digits. RFC3339Nano
// trims trailing zeros, which breaks ORDER BY within a second.
const clearanceTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// EnsureClearanceSchema creates the clearance table if missing.
func EnsureClearanceSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(clearanceDDL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return dErrors.Wrap(err, dErrors.CodeStorage, "ensure clearance schema")
		}
	}
	return nil
}

// execer is the subset of *sql.DB and *sql.Tx the store needs, so Save can
// join a caller-managed transaction placed in the context.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLClearanceStore implements ClearanceStore over the shared database
// handle, for both supported drivers.
type SQLClearanceStore struct {
	db     *sql.DB
	driver conflicts.Driver
}

func NewSQLClearanceStore(db *sql.DB, driver conflicts.Driver) *SQLClearanceStore {
	return &SQLClearanceStore{db: db, driver: driver}
}

func (s *SQLClearanceStore) execer(ctx context.Context) execer {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *SQLClearanceStore) Save(ctx context.Context, record ClearanceRecord) error {
	hits, err := json.Marshal(record.Hits)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode clearance hits")
	}

	_, err = s.execer(ctx).ExecContext(ctx, s.rebind(`
        INSERT INTO clearance_records (id, candidate_set_key, disposition, hits, reviewer, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`),
		record.ID.String(),
		record.CandidateSetKey,
		string(record.Disposition),
		string(hits),
		record.Reviewer,
		record.CreatedAt.UTC().Format(clearanceTimeFormat),
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "save clearance record")
	}
	return nil
}

func (s *SQLClearanceStore) Latest(ctx context.Context, key string) (ClearanceRecord, bool, error) {
	row := s.execer(ctx).QueryRowContext(ctx, s.rebind(`
        SELECT id, candidate_set_key, disposition, hits, reviewer, created_at
        FROM clearance_records
        WHERE candidate_set_key = ?
        ORDER BY created_at DESC
        LIMIT 1`), key)

	var (
		record    ClearanceRecord
		id        string
		dispo     string
		hitsJSON  string
		createdAt string
	)
	err := row.Scan(&id, &record.CandidateSetKey, &dispo, &hitsJSON, &record.Reviewer, &createdAt)
	if err == sql.ErrNoRows {
		return ClearanceRecord{}, false, nil
	}
	if err != nil {
		return ClearanceRecord{}, false, dErrors.Wrap(err, dErrors.CodeStorage, "load clearance record")
	}

	record.ID, err = domain.ParseClearanceID(id)
	if err != nil {
		return ClearanceRecord{}, false, dErrors.Wrap(err, dErrors.CodeStorage, "corrupt clearance id")
	}
	record.Disposition, err = ParseDisposition(dispo)
	if err != nil {
		return ClearanceRecord{}, false, dErrors.Wrap(err, dErrors.CodeStorage, "corrupt clearance disposition")
	}
	if err := json.Unmarshal([]byte(hitsJSON), &record.Hits); err != nil {
		return ClearanceRecord{}, false, dErrors.Wrap(err, dErrors.CodeStorage, "corrupt clearance hits")
	}
	record.CreatedAt, err = time.Parse(clearanceTimeFormat, createdAt)
	if err != nil {
		return ClearanceRecord{}, false, dErrors.Wrap(err, dErrors.CodeStorage, "corrupt clearance timestamp")
	}
	return record, true, nil
}

func (s *SQLClearanceStore) HasDeclined(ctx context.Context, key string) (bool, error) {
	row := s.execer(ctx).QueryRowContext(ctx, s.rebind(`
        SELECT COUNT(1) FROM clearance_records
        WHERE candidate_set_key = ? AND disposition = ?`),
		key, string(DispositionDeclined))

	var count int
	if err := row.Scan(&count); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeStorage, "count declined clearances")
	}
	return count > 0, nil
}

// rebind rewrites ? placeholders to $N for postgres. SQLite accepts ? as is.
func (s *SQLClearanceStore) rebind(query string) string {
	if s.driver != conflicts.DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
