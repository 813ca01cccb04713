package conflicts

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/lawyered0/clawyer/pkg/domain"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
)

// Driver selects the SQL backend. Both run through database/sql with the
// same queries; only placeholder syntax differs.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

const defaultTxTimeout = 5 * time.Second

// SQLStore implements Store over PostgreSQL (lib/pq) or SQLite
// (modernc.org/sqlite) with identical observable semantics.
type SQLStore struct {
	db        *sql.DB
	driver    Driver
	txTimeout time.Duration
}

// NewSQLStore wraps an open database handle. The handle's driver must match
// the given Driver.
func NewSQLStore(db *sql.DB, driver Driver) *SQLStore {
	return &SQLStore{db: db, driver: driver, txTimeout: defaultTxTimeout}
}

// ResetAll clears parties, aliases, and matter links in one transaction.
// Either all three sets are empty afterwards or none changed.
func (s *SQLStore) ResetAll(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "begin reset tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"party_aliases", "matter_party_links", "parties"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return dErrors.Wrap(err, dErrors.CodeStorage, "clear "+table)
		}
	}

	if err := tx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "commit reset tx")
	}
	return nil
}

// SeedEntry upserts one party, its aliases, and one matter link atomically.
// Re-seeding the same (matter, canonical name) updates in place.
func (s *SQLStore) SeedEntry(ctx context.Context, entry SeedEntry) error {
	normalized := Normalize(entry.CanonicalName)
	if normalized.Key == "" {
		return dErrors.New(dErrors.CodeValidation, "party name normalizes to empty")
	}
	if entry.MatterID == "" {
		return dErrors.New(dErrors.CodeValidation, "seed entry requires a matter id")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "begin seed tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO parties (id, display_name, normalized_name, party_type)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (normalized_name) DO UPDATE SET
			display_name = excluded.display_name,
			party_type = excluded.party_type`),
		domain.NewPartyID().String(), entry.CanonicalName, normalized.Key, string(entry.Type),
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "upsert party")
	}

	var partyID string
	err = tx.QueryRowContext(ctx,
		s.rebind(`SELECT id FROM parties WHERE normalized_name = ?`),
		normalized.Key,
	).Scan(&partyID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "resolve party id")
	}

	for _, alias := range entry.Aliases {
		aliasKey := Normalize(alias).Key
		if aliasKey == "" {
			continue
		}
		_, err = tx.ExecContext(ctx, s.rebind(`
			INSERT INTO party_aliases (party_id, alias, normalized_alias)
			VALUES (?, ?, ?)
			ON CONFLICT (party_id, normalized_alias) DO UPDATE SET alias = excluded.alias`),
			partyID, alias, aliasKey,
		)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeStorage, "upsert alias")
		}
	}

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO matter_party_links (matter_id, party_id, role)
		VALUES (?, ?, ?)
		ON CONFLICT (matter_id, party_id) DO UPDATE SET role = excluded.role`),
		string(entry.MatterID), partyID, string(entry.Role),
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "upsert matter link")
	}

	if err := tx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "commit seed tx")
	}
	return nil
}

// Load reads one committed snapshot of the whole graph inside a single
// transaction, so a concurrent seed is either fully visible or not at all.
func (s *SQLStore) Load(ctx context.Context) (*Graph, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: s.driver == DriverPostgres})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "begin load tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	byID := make(map[string]*GraphParty)
	var parties []*GraphParty

	rows, err := tx.QueryContext(ctx,
		`SELECT id, display_name, normalized_name, party_type FROM parties ORDER BY normalized_name`)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "load parties")
	}
	for rows.Next() {
		var idStr, displayName, normalizedName, partyType string
		if err := rows.Scan(&idStr, &displayName, &normalizedName, &partyType); err != nil {
			rows.Close()
			return nil, dErrors.Wrap(err, dErrors.CodeStorage, "scan party")
		}
		partyID, err := domain.ParsePartyID(idStr)
		if err != nil {
			rows.Close()
			return nil, dErrors.Wrap(err, dErrors.CodeStorage, "corrupt party id")
		}
		gp := &GraphParty{Party: Party{
			ID:             partyID,
			DisplayName:    displayName,
			NormalizedName: normalizedName,
			Type:           PartyType(partyType),
		}}
		byID[idStr] = gp
		parties = append(parties, gp)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "iterate parties")
	}
	rows.Close()

	rows, err = tx.QueryContext(ctx,
		`SELECT party_id, alias, normalized_alias FROM party_aliases ORDER BY normalized_alias`)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "load aliases")
	}
	for rows.Next() {
		var partyID, alias, normalizedAlias string
		if err := rows.Scan(&partyID, &alias, &normalizedAlias); err != nil {
			rows.Close()
			return nil, dErrors.Wrap(err, dErrors.CodeStorage, "scan alias")
		}
		if gp, ok := byID[partyID]; ok {
			gp.Aliases = append(gp.Aliases, Alias{PartyID: gp.ID, Text: alias, Normalized: normalizedAlias})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "iterate aliases")
	}
	rows.Close()

	rows, err = tx.QueryContext(ctx,
		`SELECT matter_id, party_id, role FROM matter_party_links ORDER BY matter_id`)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "load matter links")
	}
	for rows.Next() {
		var matterID, partyID, role string
		if err := rows.Scan(&matterID, &partyID, &role); err != nil {
			rows.Close()
			return nil, dErrors.Wrap(err, dErrors.CodeStorage, "scan matter link")
		}
		if gp, ok := byID[partyID]; ok {
			gp.Matters = append(gp.Matters, MatterRef{MatterID: domain.MatterID(matterID), Role: Role(role)})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "iterate matter links")
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "commit load tx")
	}
	return NewGraph(parties), nil
}

// rebind rewrites ? placeholders to $N for postgres. SQLite accepts ? as is.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	timeout := s.txTimeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
