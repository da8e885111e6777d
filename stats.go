package micropdf

import "fmt"

// Stats is a point-in-time snapshot of a [Store]'s counters.
type Stats struct {
	// Len is the number of live entries.
	Len int
	// Size and MaxSize are the charged and budgeted byte totals.
	Size, MaxSize int64
	// Hits and Misses count lookups since construction or [Store.ResetStats].
	Hits, Misses uint64
	// TotalStored counts every insertion ever accepted.
	TotalStored uint64
	// TotalEvicted counts policy-driven and bulk evictions
	// (including [Store.Clear]), but not removals or final drops.
	TotalEvicted uint64
}

// HitRate is Hits/(Hits+Misses), or 0 when no lookups occurred.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"%d entries, %d/%d bytes, %d hits, %d misses (%.1f%%)",
		s.Len, s.Size, s.MaxSize,
		s.Hits, s.Misses, s.HitRate()*100)
}

// Stats returns a snapshot of the store's counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Len:          len(s.items),
		Size:         s.currentSize,
		MaxSize:      s.maxSize,
		Hits:         s.hits,
		Misses:       s.misses,
		TotalStored:  s.totalStored,
		TotalEvicted: s.totalEvicted,
	}
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Size returns the byte total currently charged against the budget.
func (s *Store) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSize
}

// MaxSize returns the global byte budget.
func (s *Store) MaxSize() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxSize
}

// Policy returns the active eviction policy.
func (s *Store) Policy() Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy
}

// HitRate is Hits/(Hits+Misses), or 0 when no lookups occurred.
func (s *Store) HitRate() float64 {
	return s.Stats().HitRate()
}

// KindSize returns the byte total charged to entries of one kind.
func (s *Store) KindSize(kind Kind) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kindSizes[kind]
}

// KindCount returns the number of live entries of one kind.
func (s *Store) KindCount(kind Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, it := range s.items {
		if it.Value.kind == kind {
			count++
		}
	}
	return count
}

// ResetStats zeroes the cumulative counters
// without touching live entries.
func (s *Store) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits = 0
	s.misses = 0
	s.totalStored = 0
	s.totalEvicted = 0
}
