package conflicts

import (
	"context"
	"database/sql"

	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
)

// partyGraphDDL uses only syntax accepted by both PostgreSQL and SQLite so
// the two backends stay observably identical.
var partyGraphDDL = []string{
	`CREATE TABLE IF NOT EXISTS parties (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		normalized_name TEXT NOT NULL UNIQUE,
		party_type TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS party_aliases (
		party_id TEXT NOT NULL REFERENCES parties(id) ON DELETE CASCADE,
		alias TEXT NOT NULL,
		normalized_alias TEXT NOT NULL,
		PRIMARY KEY (party_id, normalized_alias)
	)`,
	`CREATE TABLE IF NOT EXISTS matter_party_links (
		matter_id TEXT NOT NULL,
		party_id TEXT NOT NULL REFERENCES parties(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		PRIMARY KEY (matter_id, party_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_party_aliases_normalized
		ON party_aliases (normalized_alias)`,
	`CREATE INDEX IF NOT EXISTS idx_matter_party_links_party
		ON matter_party_links (party_id)`,
}

// EnsureSchema creates the party graph tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range partyGraphDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return dErrors.Wrap(err, dErrors.CodeStorage, "create party graph schema")
		}
	}
	return nil
}
