package micropdf

import "time"

// Eviction never tears down resources: it only drops the store's
// bookkeeping and handle reference. Whoever holds the handle performs
// the actual teardown, outside the store's lock.

// EvictToSize evicts eligible entries, policy order, until the store's
// size is at most target or no eligible entries remain.
// It returns the number of entries evicted.
// A negative target behaves like 0.
func (s *Store) EvictToSize(target int64) int {
	if target < 0 {
		target = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictToSizeLocked(target)
}

// EvictKindToSize is [Store.EvictToSize] scoped to entries of one kind,
// measured against the kind's current size.
func (s *Store) EvictKindToSize(kind Kind, target int64) int {
	if target < 0 {
		target = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictKindToSizeLocked(kind, target)
}

// EvictKind evicts every eligible entry of the given kind,
// returning the number evicted.
func (s *Store) EvictKind(kind Kind) int {
	return s.EvictKindToSize(kind, 0)
}

// EvictOlderThan evicts every eligible entry
// whose last access is older than maxAge,
// returning the number evicted.
func (s *Store) EvictOlderThan(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		now     = time.Now()
		evicted int
	)
	for {
		victim := s.victimLocked(func(data *itemData) bool {
			return now.Sub(data.lastUsed) > maxAge
		})
		if victim == nil {
			break
		}
		s.removeLocked(victim)
		s.totalEvicted++
		evicted++
	}
	return evicted
}

// Clear discards every entry, pinned or not, and zeroes the size
// accounting. Cleared entries count as evicted, matching the
// historical store behavior.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalEvicted += uint64(len(s.items))
	s.items = make(map[ID]*item)
	s.keys = make(map[string]ID)
	s.kindSizes = make(map[Kind]int64)
	s.currentSize = 0
	s.tail = nil
}

// evictToSizeLocked evicts until the store size is at most target or no
// eligible entries remain. A negative target evicts everything eligible.
func (s *Store) evictToSizeLocked(target int64) int {
	evicted := 0
	for s.currentSize > target {
		victim := s.victimLocked(func(*itemData) bool { return true })
		if victim == nil {
			break
		}
		s.removeLocked(victim)
		s.totalEvicted++
		evicted++
	}
	return evicted
}

// evictKindToSizeLocked evicts entries of kind until the kind's size is
// at most target or no eligible entries of that kind remain.
func (s *Store) evictKindToSizeLocked(kind Kind, target int64) int {
	evicted := 0
	for s.kindSizes[kind] > target {
		victim := s.victimLocked(func(data *itemData) bool {
			return data.kind == kind
		})
		if victim == nil {
			break
		}
		s.removeLocked(victim)
		s.totalEvicted++
		evicted++
	}
	return evicted
}

// victimLocked selects the next eviction victim: the entry minimizing
// the policy's metric over all evictable, unshared (refs <= 1) entries
// that satisfy eligible. The ring is walked oldest-first and only a
// strictly lower metric displaces the running choice, so ties resolve
// to the earliest-inserted candidate.
// It returns nil when no entry is eligible.
func (s *Store) victimLocked(eligible func(*itemData) bool) *item {
	if s.tail == nil {
		return nil
	}
	var (
		best       *item
		bestMetric uint64
	)
	for it := range s.tail.Next().Iter() {
		data := &it.Value
		if !data.evictable || data.refs > 1 {
			continue
		}
		if !eligible(data) {
			continue
		}
		if metric := s.policy.metric(data); best == nil || metric < bestMetric {
			best = it
			bestMetric = metric
		}
	}
	if debugging && best != nil {
		assert(best.Value.evictable && best.Value.refs <= 1,
			"victim selection returned an ineligible entry")
	}
	return best
}
