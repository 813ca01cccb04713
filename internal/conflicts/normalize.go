package conflicts

import (
	"strings"
	"unicode"
)

// minSignificantLen is the minimum number of significant characters a name
// needs before it may participate in fuzzy matching. Shorter keys still
// match exactly or by alias, but never fuzzily: two-letter fragments like
// "Li" would otherwise hit half the graph.
const minSignificantLen = 3

// suffixTokens are corporate designators that carry no identity signal.
// The fuzzy matcher skips them when computing token overlap; normalization
// keeps them in the key so exact matching stays faithful.
var suffixTokens = map[string]struct{}{
	"corp": {}, "corporation": {}, "inc": {}, "incorporated": {},
	"llc": {}, "llp": {}, "lp": {}, "ltd": {}, "plc": {},
	"co": {}, "company": {}, "holdings": {}, "group": {},
}

// NormalizedName is the comparison key derived from a raw party name.
// Ignorable marks keys too short for fuzzy matching.
type NormalizedName struct {
	Key       string
	Ignorable bool
}

// Normalize canonicalizes a raw party name into its comparison key. It is
// deterministic, total, and idempotent: case folded, surrounding whitespace
// trimmed, periods/commas/apostrophes stripped, internal whitespace
// collapsed to single spaces.
func Normalize(raw string) NormalizedName {
	var b strings.Builder
	b.Grow(len(raw))

	lastSpace := true // leading whitespace collapses away
	for _, r := range strings.ToLower(raw) {
		switch {
		case r == '.' || r == ',' || r == '\'' || r == '’':
			// dropped entirely: "J. Doe" and "J Doe" must share a key
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}

	key := strings.TrimRight(b.String(), " ")
	return NormalizedName{
		Key:       key,
		Ignorable: significantLen(key) < minSignificantLen,
	}
}

// significantLen counts letters and digits, the characters that actually
// distinguish one name from another.
func significantLen(key string) int {
	n := 0
	for _, r := range key {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// significantTokens splits a normalized key into the tokens eligible for
// fuzzy comparison: word-boundary tokens that are neither corporate
// suffixes nor below the minimum length.
func significantTokens(key string) []string {
	fields := strings.Fields(key)
	tokens := fields[:0]
	for _, tok := range fields {
		if len(tok) < minSignificantLen {
			continue
		}
		if _, isSuffix := suffixTokens[tok]; isSuffix {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
