package intake

import (
	"context"
	"sync"
)

// ClearanceStore persists reviewer decisions. Records are append-only.
//
// Contract:
//   - Save appends one record; it never rewrites history.
//   - Latest returns the most recent record for a candidate-set key, or
//     ok=false when none exists.
//   - HasDeclined reports whether any record for the key, at any point in
//     history, was a decline. Declines are final and survive later records.
type ClearanceStore interface {
	Save(ctx context.Context, record ClearanceRecord) error
	Latest(ctx context.Context, candidateSetKey string) (ClearanceRecord, bool, error)
	HasDeclined(ctx context.Context, candidateSetKey string) (bool, error)
}

// InMemoryClearanceStore is the non-persistent ClearanceStore used in tests
// and single-process setups without a database.
type InMemoryClearanceStore struct {
	mu      sync.RWMutex
	records map[string][]ClearanceRecord
}

func NewInMemoryClearanceStore() *InMemoryClearanceStore {
	return &InMemoryClearanceStore{records: make(map[string][]ClearanceRecord)}
}

func (s *InMemoryClearanceStore) Save(_ context.Context, record ClearanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.CandidateSetKey] = append(s.records[record.CandidateSetKey], record)
	return nil
}

func (s *InMemoryClearanceStore) Latest(_ context.Context, key string) (ClearanceRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.records[key]
	if len(records) == 0 {
		return ClearanceRecord{}, false, nil
	}
	latest := records[0]
	for _, r := range records[1:] {
		if !r.CreatedAt.Before(latest.CreatedAt) {
			latest = r
		}
	}
	return latest, true, nil
}

func (s *InMemoryClearanceStore) HasDeclined(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records[key] {
		if r.Disposition == DispositionDeclined {
			return true, nil
		}
	}
	return false, nil
}
