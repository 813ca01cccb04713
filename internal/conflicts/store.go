package conflicts

import (
	"context"
)

// Store is the party graph persistence surface. It is mutated only by the
// reindex pipeline and the single-entry seed operation; the matching engine
// only reads it.
//
// Contract:
//   - ResetAll clears parties, aliases, and matter links in one transaction;
//     after a failure nothing has changed.
//   - SeedEntry upserts one party (keyed by normalized canonical name), its
//     aliases, and one matter link in a single transaction. Idempotent per
//     (matter, canonical name). A reader never observes a party without its
//     aliases or its link.
//   - Load returns one committed snapshot of the whole graph. It never spans
//     a writer's transaction and is never cached across requests.
type Store interface {
	ResetAll(ctx context.Context) error
	SeedEntry(ctx context.Context, entry SeedEntry) error
	Load(ctx context.Context) (*Graph, error)
}

// GraphParty is a party with its aliases and matter links, as read in a
// snapshot.
type GraphParty struct {
	Party
	Aliases []Alias
	Matters []MatterRef
}

// Graph is an immutable snapshot of the party graph with lookup maps for
// the matching engine. Built fresh on every query.
type Graph struct {
	parties []*GraphParty
	byName  map[string]*GraphParty
	byAlias map[string][]*GraphParty
}

// NewGraph indexes the given parties by normalized name and alias.
func NewGraph(parties []*GraphParty) *Graph {
	g := &Graph{
		parties: parties,
		byName:  make(map[string]*GraphParty, len(parties)),
		byAlias: make(map[string][]*GraphParty),
	}
	for _, p := range parties {
		g.byName[p.NormalizedName] = p
		for _, a := range p.Aliases {
			g.byAlias[a.Normalized] = append(g.byAlias[a.Normalized], p)
		}
	}
	return g
}

// Empty reports whether the snapshot holds no parties.
func (g *Graph) Empty() bool { return len(g.parties) == 0 }

// Len returns the number of parties in the snapshot.
func (g *Graph) Len() int { return len(g.parties) }

// ByName returns the party whose canonical name normalizes to key.
func (g *Graph) ByName(key string) (*GraphParty, bool) {
	p, ok := g.byName[key]
	return p, ok
}

// ByAlias returns all parties known under the normalized alias key.
func (g *Graph) ByAlias(key string) []*GraphParty {
	return g.byAlias[key]
}

// Parties returns the snapshot's party list for full scans.
func (g *Graph) Parties() []*GraphParty { return g.parties }
