// Package intake gates matter creation on the conflict check. A matter with
// potential conflicts may only be opened once a reviewer has recorded a
// clearance for exactly that candidate set.
package intake

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/lawyered0/clawyer/internal/conflicts"
	"github.com/lawyered0/clawyer/pkg/domain"
	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
)

// Disposition is a reviewer's decision on a flagged candidate set.
type Disposition string

const (
	// DispositionClear records that the flagged hits were reviewed and
	// found not to be actual conflicts.
	DispositionClear Disposition = "clear"
	// DispositionWaived records a real conflict waived with informed
	// consent of the affected clients.
	DispositionWaived Disposition = "waived"
	// DispositionDeclined records that the firm declined the engagement.
	// It blocks the candidate set permanently.
	DispositionDeclined Disposition = "declined"
)

// ParseDisposition validates a disposition received at a trust boundary.
func ParseDisposition(raw string) (Disposition, error) {
	switch Disposition(raw) {
	case DispositionClear, DispositionWaived, DispositionDeclined:
		return Disposition(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "disposition must be clear, waived, or declined")
	}
}

// ClearanceRecord is a reviewer decision bound to one candidate set. Records
// are append-only; the latest one governs, except declined which is final.
type ClearanceRecord struct {
	ID              domain.ClearanceID      `json:"id"`
	CandidateSetKey string                  `json:"candidate_set_key"`
	Disposition     Disposition             `json:"disposition"`
	Hits            []conflicts.ConflictHit `json:"hits,omitempty"`
	Reviewer        string                  `json:"reviewer"`
	CreatedAt       time.Time               `json:"created_at"`
}

// CandidateSetKey derives the stable identity of a candidate set: the
// SHA-256 of the sorted, deduplicated normalized names. Order and surface
// spelling of the input do not matter; any change to the set of parties
// yields a different key and re-triggers review.
func CandidateSetKey(names []string) string {
	keys := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		n := conflicts.Normalize(name)
		if n.Key == "" {
			continue
		}
		if _, ok := seen[n.Key]; ok {
			continue
		}
		seen[n.Key] = struct{}{}
		keys = append(keys, n.Key)
	}
	sort.Strings(keys)

	sum := sha256.Sum256([]byte(strings.Join(keys, "\n")))
	return hex.EncodeToString(sum[:])
}
