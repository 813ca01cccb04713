// Package conflicts implements the party graph and the conflict-of-interest
// matching engine: the check consulted before any new matter may be opened.
package conflicts

import (
	"github.com/lawyered0/clawyer/pkg/domain"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
)

// PartyType distinguishes natural persons from legal entities.
type PartyType string

const (
	PartyIndividual PartyType = "individual"
	PartyEntity     PartyType = "entity"
)

// ParsePartyType validates a party type received at a trust boundary.
func ParsePartyType(raw string) (PartyType, error) {
	switch PartyType(raw) {
	case PartyIndividual, PartyEntity:
		return PartyType(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "party type must be individual or entity")
	}
}

// Role names a party's relationship to a matter.
type Role string

const (
	RoleClient   Role = "client"
	RoleOpposing Role = "opposing"
	RoleWitness  Role = "witness"
	RoleRelated  Role = "related"
	RoleAdverse  Role = "adverse"
)

// ParseRole validates a matter role received at a trust boundary.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleClient, RoleOpposing, RoleWitness, RoleRelated, RoleAdverse:
		return Role(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "unknown matter role")
	}
}

// MatchKind orders hits by confidence: exact > alias > fuzzy.
type MatchKind string

const (
	MatchExact MatchKind = "exact"
	MatchAlias MatchKind = "alias"
	MatchFuzzy MatchKind = "fuzzy"
)

// Confidence returns the numeric signal attached to hits of this kind.
func (k MatchKind) Confidence() float64 {
	switch k {
	case MatchExact:
		return 1.0
	case MatchAlias:
		return 0.9
	case MatchFuzzy:
		return 0.6
	default:
		return 0
	}
}

// stronger reports whether k outranks other.
func (k MatchKind) stronger(other MatchKind) bool {
	return k.Confidence() > other.Confidence()
}

// Party is a canonical legal entity or individual known to the practice.
// NormalizedName is always derived from DisplayName via Normalize; it is
// never hand-edited.
type Party struct {
	ID             domain.PartyID
	DisplayName    string
	NormalizedName string
	Type           PartyType
}

// Alias is an alternate name (nickname, DBA, prior legal name) for a party.
type Alias struct {
	PartyID    domain.PartyID
	Text       string
	Normalized string
}

// MatterRef ties a party to one matter in a named role.
type MatterRef struct {
	MatterID domain.MatterID
	Role     Role
}

// SeedEntry is the unit of atomic graph mutation: one party, its aliases,
// and one matter link, committed together or not at all.
type SeedEntry struct {
	MatterID      domain.MatterID
	CanonicalName string
	Type          PartyType
	Role          Role
	Aliases       []string
}

// ConflictHit is one potential match between a candidate name and an
// existing party on an existing matter. Regenerated on every query, never
// persisted on its own.
type ConflictHit struct {
	Candidate  string          `json:"candidate"`
	PartyID    domain.PartyID  `json:"-"`
	Party      string          `json:"party"`
	PartyType  PartyType       `json:"party_type"`
	MatterID   domain.MatterID `json:"matter_id"`
	Role       Role            `json:"role"`
	Kind       MatchKind       `json:"kind"`
	Confidence float64         `json:"confidence"`
}
