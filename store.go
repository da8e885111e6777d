package micropdf

import (
	"math"
	"sync"
	"time"

	"github.com/Lexmata/micropdf/internal/ring"
)

// ID identifies a store entry. IDs are local to one [Store] and are a
// separate namespace from [Handle]. The zero value is never allocated.
type ID uint64

// InvalidID is the reserved "no such entry" value.
const InvalidID ID = 0

// DefaultMaxSize is the global byte budget
// used when [New] is passed a max size of 0.
const DefaultMaxSize int64 = 256 << 20

type (
	item     = ring.Ring[ID, itemData]
	itemData struct {
		kind   Kind
		handle Handle
		size   int64
		key    string
		hasKey bool
		// Wall-clock times serve age queries only;
		// policy ordering uses the logical ticks below,
		// which cannot collide.
		created     time.Time
		lastUsed    time.Time
		createdTick uint64
		lastTick    uint64
		accessCount uint64
		refs        uint32
		evictable   bool
	}
	// Store is a budgeted cache of re-creatable resources, indexed by
	// content key and/or entry id. It bounds the aggregate byte size
	// charged to its entries and discards entries under the configured
	// [Policy] when a budget is exceeded. The store tracks an opaque
	// [Handle] per entry and never touches the resource data itself;
	// teardown belongs to whoever owns the handle.
	//
	// All operations are serialized by a single internal lock.
	// Each Store is independent; construct one per process or per test
	// as needed via [New].
	Store struct {
		mu          sync.Mutex
		maxSize     int64
		currentSize int64
		policy      Policy
		items       map[ID]*item
		keys        map[string]ID
		// tail is the newest entry of the insertion-order ring;
		// tail.Next() is the oldest.
		tail       *item
		kindLimits map[Kind]int64
		kindSizes  map[Kind]int64
		nextID     ID
		tick       uint64
		hits, misses,
		totalStored, totalEvicted uint64
	}
)

// New creates a [Store] with the given byte budget.
// A maxSize of 0 selects [DefaultMaxSize];
// a negative maxSize is an error.
// The initial policy is [PolicyLRU].
func New(maxSize int64) (*Store, error) {
	if maxSize < 0 {
		return nil, negativeSizeError(maxSize)
	}
	if maxSize == 0 {
		maxSize = DefaultMaxSize
	}
	return &Store{
		maxSize:    maxSize,
		policy:     PolicyLRU,
		items:      make(map[ID]*item),
		keys:       make(map[string]ID),
		kindLimits: make(map[Kind]int64),
		kindSizes:  make(map[Kind]int64),
	}, nil
}

// SetMaxSize replaces the global byte budget.
// Shrinking the budget evicts entries to the new limit
// before SetMaxSize returns.
func (s *Store) SetMaxSize(maxSize int64) error {
	if maxSize < 0 {
		return negativeSizeError(maxSize)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxSize = maxSize
	s.evictToSizeLocked(maxSize)
	return nil
}

// SetPolicy replaces the eviction policy.
// Entries already resident keep their bookkeeping;
// the new policy applies from the next eviction on.
func (s *Store) SetPolicy(policy Policy) error {
	if !policy.valid() {
		return policyError(policy)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = policy
	return nil
}

// SetKindLimit sets a byte budget for one resource kind.
// A limit <= 0 removes the kind's budget.
// The limit is enforced on subsequent insertions,
// not retroactively.
func (s *Store) SetKindLimit(kind Kind, limit int64) error {
	if !kind.valid() {
		return kindError(kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > 0 {
		s.kindLimits[kind] = limit
	} else {
		delete(s.kindLimits, kind)
	}
	return nil
}

// Put inserts an entry charging size bytes against the budgets,
// evicting other entries first if either the global budget or the
// kind's budget would be exceeded. An entry whose size alone exceeds
// the budget is still admitted once every eligible entry has been
// evicted; the budget is then exceeded until the entry is removed.
//
// A non-empty key makes the entry findable via [Store.FindByKey].
// Putting under a key that is already live supersedes the previous
// entry entirely: its id, key mapping and size contribution are
// removed first (as a removal, not an eviction).
//
// The entry starts evictable, with one logical reference.
// An invalid kind is recorded as [KindGeneric].
func (s *Store) Put(kind Kind, handle Handle, size int64, key []byte) ID {
	if !kind.valid() {
		kind = KindGeneric
	}
	if size < 0 {
		size = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(key) > 0 {
		if prev, ok := s.keys[string(key)]; ok {
			if it, ok := s.items[prev]; ok {
				s.removeLocked(it)
			}
		}
	}
	if s.currentSize+size > s.maxSize {
		s.evictToSizeLocked(s.maxSize - size)
	}
	if limit, ok := s.kindLimits[kind]; ok &&
		s.kindSizes[kind]+size > limit {
		s.evictKindToSizeLocked(kind, limit-size)
	}
	s.nextID++
	s.tick++
	var (
		id  = s.nextID
		now = time.Now()
		it  = &item{
			Name: id,
			Value: itemData{
				kind:        kind,
				handle:      handle,
				size:        size,
				key:         string(key),
				hasKey:      len(key) > 0,
				created:     now,
				lastUsed:    now,
				createdTick: s.tick,
				lastTick:    s.tick,
				refs:        1,
				evictable:   true,
			},
		}
	)
	if s.tail == nil {
		s.tail = it
	} else {
		s.tail.Link(it)
		s.tail = it
	}
	s.items[id] = it
	if it.Value.hasKey {
		s.keys[it.Value.key] = id
	}
	s.currentSize += size
	s.kindSizes[kind] += size
	s.totalStored++
	return id
}

// FindByKey returns the handle indexed under key, marking the entry as
// accessed and counting a hit; an unknown or empty key counts a miss.
func (s *Store) FindByKey(key []byte) (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.keys[string(key)]; ok {
		if it, ok := s.items[id]; ok {
			s.touchLocked(it)
			s.hits++
			return it.Value.handle, true
		}
	}
	s.misses++
	return InvalidHandle, false
}

// FindByID returns the handle of the entry with the given id, marking
// the entry as accessed and counting a hit; an unknown id counts a miss.
func (s *Store) FindByID(id ID) (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[id]; ok {
		s.touchLocked(it)
		s.hits++
		return it.Value.handle, true
	}
	s.misses++
	return InvalidHandle, false
}

// Remove discards the entry with the given id regardless of its
// reference count, returning its handle. Use it when the underlying
// resource is being destroyed out-of-band. The removal is not counted
// as an eviction. Removing an unknown id returns false.
func (s *Store) Remove(id ID) (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return InvalidHandle, false
	}
	handle := it.Value.handle
	s.removeLocked(it)
	return handle, true
}

// RemoveByKey is [Store.Remove] addressed by content key.
func (s *Store) RemoveByKey(key []byte) (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.keys[string(key)]
	if !ok {
		return InvalidHandle, false
	}
	it, ok := s.items[id]
	if !ok {
		return InvalidHandle, false
	}
	handle := it.Value.handle
	s.removeLocked(it)
	return handle, true
}

// Keep registers one additional logical reference to the entry and
// returns the id unchanged, or [InvalidID] if the id does not resolve.
// An entry with more than one reference is never selected for eviction.
func (s *Store) Keep(id ID) ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return InvalidID
	}
	if it.Value.refs < math.MaxUint32 {
		it.Value.refs++
	}
	return id
}

// Drop releases one logical reference to the entry.
// When the count reaches zero the entry is removed
// (not counted as an eviction).
// Dropping an unknown id is a no-op.
func (s *Store) Drop(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return
	}
	if it.Value.refs > 0 {
		it.Value.refs--
	}
	if it.Value.refs == 0 {
		s.removeLocked(it)
	}
}

// SetEvictable marks the entry as eligible (true) or pinned (false).
// Pinned entries survive budget pressure until explicitly removed.
// It reports whether the id resolved.
func (s *Store) SetEvictable(id ID, evictable bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return false
	}
	it.Value.evictable = evictable
	return true
}

// ItemSize returns the byte cost charged for the entry.
func (s *Store) ItemSize(id ID) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[id]; ok {
		return it.Value.size, true
	}
	return 0, false
}

// ItemKind returns the entry's resource kind.
func (s *Store) ItemKind(id ID) (Kind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[id]; ok {
		return it.Value.kind, true
	}
	return KindGeneric, false
}

// ItemAccessCount returns how many successful lookups the entry has served.
func (s *Store) ItemAccessCount(id ID) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[id]; ok {
		return it.Value.accessCount, true
	}
	return 0, false
}

// ItemAge returns the time elapsed since the entry was created.
func (s *Store) ItemAge(id ID) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[id]; ok {
		return time.Since(it.Value.created), true
	}
	return 0, false
}

// touchLocked records a successful lookup on the entry.
func (s *Store) touchLocked(it *item) {
	s.tick++
	data := &it.Value
	data.lastTick = s.tick
	data.lastUsed = time.Now()
	if data.accessCount < math.MaxUint64 {
		data.accessCount++
	}
}

// removeLocked unindexes the entry and reverses its size accounting.
// Eviction counters are the caller's concern.
func (s *Store) removeLocked(it *item) {
	data := &it.Value
	delete(s.items, it.Name)
	if data.hasKey {
		if current, ok := s.keys[data.key]; ok && current == it.Name {
			delete(s.keys, data.key)
		}
	}
	s.currentSize -= data.size
	if remaining := s.kindSizes[data.kind] - data.size; remaining == 0 {
		delete(s.kindSizes, data.kind)
	} else {
		s.kindSizes[data.kind] = remaining
	}
	s.detachLocked(it)
	if debugging {
		assert(s.currentSize >= 0,
			"current size went negative after removal")
	}
}

// detachLocked unlinks the entry from the insertion-order ring.
func (s *Store) detachLocked(it *item) {
	if it.Next() == it {
		s.tail = nil
		return
	}
	if it == s.tail {
		s.tail = it.Prev()
	}
	it.Prev().Unlink(1)
}
