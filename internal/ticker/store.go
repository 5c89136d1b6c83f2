package ticker

import "sync"

// Store is the shared keyed collection of the latest record per symbol.
// It is written by exactly one goroutine (the ingestion loop) and read by
// the render loop; the mutex still guards readers from observing a
// half-written record. Critical sections are kept to the map operation
// plus the snapshot copy.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]Record)}
}

// Upsert applies each record in order: unknown symbols insert as-is,
// known symbols replace through the Merge rule (previous-price carry).
func (s *Store) Upsert(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range records {
		r := records[i]
		if old, ok := s.records[r.Symbol]; ok {
			s.records[r.Symbol] = Merge(old, r)
		} else {
			r.PreviousPrice = r.LastPrice
			s.records[r.Symbol] = r
		}
	}
}

// Snapshot returns a point-in-time copy of all records. Order is
// unspecified; sorting is the view session's job.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	return out
}

// Len returns the number of distinct symbols currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
