package conflicts

import (
	"context"
	"sort"
	"sync"

	"github.com/lawyered0/clawyer/pkg/domain"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
)

// InMemoryStore keeps the party graph under an RWMutex. Unit tests and
// single-process development use it; production uses the SQL store.
type InMemoryStore struct {
	mu      sync.RWMutex
	parties map[string]*memParty // normalized canonical name -> party
}

type memParty struct {
	id          domain.PartyID
	displayName string
	normalized  string
	partyType   PartyType
	aliases     map[string]string          // normalized alias -> display text
	links       map[domain.MatterID]Role   // matter -> role
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{parties: make(map[string]*memParty)}
}

func (s *InMemoryStore) ResetAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties = make(map[string]*memParty)
	return nil
}

func (s *InMemoryStore) SeedEntry(_ context.Context, entry SeedEntry) error {
	normalized := Normalize(entry.CanonicalName)
	if normalized.Key == "" {
		return dErrors.New(dErrors.CodeValidation, "party name normalizes to empty")
	}
	if entry.MatterID == "" {
		return dErrors.New(dErrors.CodeValidation, "seed entry requires a matter id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.parties[normalized.Key]
	if !ok {
		p = &memParty{
			id:         domain.NewPartyID(),
			normalized: normalized.Key,
			aliases:    make(map[string]string),
			links:      make(map[domain.MatterID]Role),
		}
		s.parties[normalized.Key] = p
	}
	p.displayName = entry.CanonicalName
	p.partyType = entry.Type
	for _, alias := range entry.Aliases {
		key := Normalize(alias).Key
		if key == "" {
			continue
		}
		p.aliases[key] = alias
	}
	p.links[entry.MatterID] = entry.Role
	return nil
}

func (s *InMemoryStore) Load(_ context.Context) (*Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parties := make([]*GraphParty, 0, len(s.parties))
	for _, p := range s.parties {
		gp := &GraphParty{
			Party: Party{
				ID:             p.id,
				DisplayName:    p.displayName,
				NormalizedName: p.normalized,
				Type:           p.partyType,
			},
		}
		for key, text := range p.aliases {
			gp.Aliases = append(gp.Aliases, Alias{PartyID: p.id, Text: text, Normalized: key})
		}
		for matterID, role := range p.links {
			gp.Matters = append(gp.Matters, MatterRef{MatterID: matterID, Role: role})
		}
		sort.Slice(gp.Aliases, func(i, j int) bool { return gp.Aliases[i].Normalized < gp.Aliases[j].Normalized })
		sort.Slice(gp.Matters, func(i, j int) bool { return gp.Matters[i].MatterID < gp.Matters[j].MatterID })
		parties = append(parties, gp)
	}
	sort.Slice(parties, func(i, j int) bool { return parties[i].NormalizedName < parties[j].NormalizedName })
	return NewGraph(parties), nil
}
