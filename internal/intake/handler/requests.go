package handler

import (
	"github.com/lawyered0/clawyer/internal/conflicts"
	"github.com/lawyered0/clawyer/internal/intake"
	"github.com/lawyered0/clawyer/pkg/domain"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
)

const maxMatterParties = 100

// PartyPayload is one party within a matter creation request.
type PartyPayload struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Role    string   `json:"role"`
	Aliases []string `json:"aliases"`
}

func (p PartyPayload) validate() error {
	if p.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "party name must not be empty")
	}
	if _, err := conflicts.ParsePartyType(p.Type); err != nil {
		return err
	}
	if _, err := conflicts.ParseRole(p.Role); err != nil {
		return err
	}
	return nil
}

// MatterCreateRequest is the payload for POST /matters.
type MatterCreateRequest struct {
	MatterID string         `json:"matter_id"`
	Parties  []PartyPayload `json:"parties"`
}

// Validate implements httputil.Validatable.
func (r MatterCreateRequest) Validate() error {
	if _, err := domain.ParseMatterID(r.MatterID); err != nil {
		return err
	}
	if len(r.Parties) == 0 {
		return dErrors.New(dErrors.CodeValidation, "parties must not be empty")
	}
	if len(r.Parties) > maxMatterParties {
		return dErrors.New(dErrors.CodeValidation, "too many parties")
	}
	for _, p := range r.Parties {
		if err := p.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Request converts a validated payload into the service request.
func (r MatterCreateRequest) Request() intake.MatterRequest {
	matterID, _ := domain.ParseMatterID(r.MatterID)
	req := intake.MatterRequest{MatterID: matterID}
	for _, p := range r.Parties {
		partyType, _ := conflicts.ParsePartyType(p.Type)
		role, _ := conflicts.ParseRole(p.Role)
		req.Parties = append(req.Parties, conflicts.SeedEntry{
			MatterID:      matterID,
			CanonicalName: p.Name,
			Type:          partyType,
			Role:          role,
			Aliases:       p.Aliases,
		})
	}
	return req
}

// ClearanceRequest is the payload for POST /clearances.
type ClearanceRequest struct {
	Names       []string                `json:"names"`
	Disposition string                  `json:"disposition"`
	Reviewer    string                  `json:"reviewer"`
	Hits        []conflicts.ConflictHit `json:"hits"`
}

// Validate implements httputil.Validatable.
func (r ClearanceRequest) Validate() error {
	if len(r.Names) == 0 {
		return dErrors.New(dErrors.CodeValidation, "names must not be empty")
	}
	if _, err := intake.ParseDisposition(r.Disposition); err != nil {
		return err
	}
	return nil
}
