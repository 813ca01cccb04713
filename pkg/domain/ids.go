// Package domain holds the typed identifiers shared across the conflict
// engine. Distinct Go types keep party, matter, and clearance IDs from being
// swapped at call sites.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
)

// PartyID identifies a canonical party in the party graph.
type PartyID uuid.UUID

// ClearanceID identifies a recorded clearance decision.
type ClearanceID uuid.UUID

// MatterID identifies a matter. Matters are keyed by workspace-assigned
// identifiers (directory names, docket-style strings), not UUIDs.
type MatterID string

// NewPartyID returns a fresh random party ID.
func NewPartyID() PartyID { return PartyID(uuid.New()) }

// NewClearanceID returns a fresh random clearance ID.
func NewClearanceID() ClearanceID { return ClearanceID(uuid.New()) }

func (id PartyID) String() string     { return uuid.UUID(id).String() }
func (id PartyID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ClearanceID) String() string { return uuid.UUID(id).String() }
func (id ClearanceID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps the UUID string form in JSON and logs.

func (id PartyID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *PartyID) UnmarshalText(b []byte) error {
	parsed, err := ParsePartyID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id ClearanceID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ClearanceID) UnmarshalText(b []byte) error {
	parsed, err := ParseClearanceID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParsePartyID parses a party ID, rejecting empty, malformed, and nil UUIDs.
func ParsePartyID(raw string) (PartyID, error) {
	parsed, err := parseUUID(raw, "party id")
	return PartyID(parsed), err
}

// ParseClearanceID parses a clearance ID with the same invariants.
func ParseClearanceID(raw string) (ClearanceID, error) {
	parsed, err := parseUUID(raw, "clearance id")
	return ClearanceID(parsed), err
}

// ParseMatterID validates a matter identifier: non-empty after trimming and
// free of path separators so workspace-derived IDs stay filesystem-safe.
func ParseMatterID(raw string) (MatterID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeValidation, "matter id must not be empty")
	}
	if strings.ContainsAny(trimmed, "/\\") {
		return "", dErrors.New(dErrors.CodeValidation, "matter id must not contain path separators")
	}
	return MatterID(trimmed), nil
}

func parseUUID(raw, what string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, what+" must not be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid "+what)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, what+" must not be the nil uuid")
	}
	return parsed, nil
}
