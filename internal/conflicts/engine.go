package conflicts

import (
	"github.com/lawyered0/clawyer/pkg/domain"
)

// Match runs every candidate name against a graph snapshot and returns all
// hits, strongest kind first per candidate, deduplicated by (party, matter).
//
// Matching order per candidate:
//  1. exact — normalized candidate equals a party's normalized canonical name
//  2. alias — normalized candidate equals a normalized alias
//  3. fuzzy — shared significant token at a word boundary, never a
//     substring-anywhere match
//
// Candidates flagged ignorable by Normalize are excluded from fuzzy matching
// entirely; they may still match exactly or by alias.
func Match(g *Graph, candidates []string) []ConflictHit {
	var hits []ConflictHit
	for _, candidate := range candidates {
		hits = append(hits, matchOne(g, candidate)...)
	}
	return hits
}

type hitKey struct {
	party  domain.PartyID
	matter domain.MatterID
}

func matchOne(g *Graph, candidate string) []ConflictHit {
	norm := Normalize(candidate)
	if norm.Key == "" {
		return nil
	}

	var hits []ConflictHit
	seen := make(map[hitKey]int)

	add := func(p *GraphParty, kind MatchKind) {
		for _, ref := range p.Matters {
			key := hitKey{party: p.ID, matter: ref.MatterID}
			if idx, ok := seen[key]; ok {
				if kind.stronger(hits[idx].Kind) {
					hits[idx].Kind = kind
					hits[idx].Confidence = kind.Confidence()
				}
				continue
			}
			seen[key] = len(hits)
			hits = append(hits, ConflictHit{
				Candidate:  candidate,
				PartyID:    p.ID,
				Party:      p.DisplayName,
				PartyType:  p.Type,
				MatterID:   ref.MatterID,
				Role:       ref.Role,
				Kind:       kind,
				Confidence: kind.Confidence(),
			})
		}
	}

	if p, ok := g.ByName(norm.Key); ok {
		add(p, MatchExact)
	}
	for _, p := range g.ByAlias(norm.Key) {
		add(p, MatchAlias)
	}

	if norm.Ignorable {
		return hits
	}
	candTokens := tokenSet(significantTokens(norm.Key))
	if len(candTokens) == 0 {
		return hits
	}
	for _, p := range g.Parties() {
		if overlaps(candTokens, significantTokens(p.NormalizedName)) {
			add(p, MatchFuzzy)
			continue
		}
		for _, a := range p.Aliases {
			if overlaps(candTokens, significantTokens(a.Normalized)) {
				add(p, MatchFuzzy)
				break
			}
		}
	}
	return hits
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

func overlaps(set map[string]struct{}, tokens []string) bool {
	for _, tok := range tokens {
		if _, ok := set[tok]; ok {
			return true
		}
	}
	return false
}
