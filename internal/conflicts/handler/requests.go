package handler

import (
	"github.com/lawyered0/clawyer/internal/conflicts"
	"github.com/lawyered0/clawyer/pkg/domain"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
)

const maxCandidateNames = 100

// CheckRequest is the payload for POST /conflicts/check.
type CheckRequest struct {
	Names []string `json:"names"`
}

// Validate implements httputil.Validatable.
func (r CheckRequest) Validate() error {
	if len(r.Names) == 0 {
		return dErrors.New(dErrors.CodeValidation, "names must not be empty")
	}
	if len(r.Names) > maxCandidateNames {
		return dErrors.New(dErrors.CodeValidation, "too many candidate names")
	}
	return nil
}

// SeedRequest is the payload for POST /conflicts/seed: one atomic party
// entry outside a full reindex.
type SeedRequest struct {
	MatterID string   `json:"matter_id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Role     string   `json:"role"`
	Aliases  []string `json:"aliases"`
}

// Validate implements httputil.Validatable.
func (r SeedRequest) Validate() error {
	if _, err := domain.ParseMatterID(r.MatterID); err != nil {
		return err
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name must not be empty")
	}
	if _, err := conflicts.ParsePartyType(r.Type); err != nil {
		return err
	}
	if _, err := conflicts.ParseRole(r.Role); err != nil {
		return err
	}
	return nil
}

// Entry converts a validated request into the store's seed entry.
func (r SeedRequest) Entry() conflicts.SeedEntry {
	matterID, _ := domain.ParseMatterID(r.MatterID)
	partyType, _ := conflicts.ParsePartyType(r.Type)
	role, _ := conflicts.ParseRole(r.Role)
	return conflicts.SeedEntry{
		MatterID:      matterID,
		CanonicalName: r.Name,
		Type:          partyType,
		Role:          role,
		Aliases:       r.Aliases,
	}
}
