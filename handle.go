package micropdf

import (
	"iter"
	"sync"
	"sync/atomic"
)

// Handle is an opaque identifier for a resource held by a [Table].
// Handles are process-wide unique and never reused.
// The zero value is never allocated and always resolves to "not found".
type Handle uint64

// InvalidHandle is the reserved "no such resource" value.
const InvalidHandle Handle = 0

// handleCounter backs every table in the process so that a handle
// obtained from one table can never collide with one from another.
var handleCounter atomic.Uint64

func newHandle() Handle {
	return Handle(handleCounter.Add(1))
}

type (
	// Slot is a shared, individually locked cell holding one resource value.
	// A *Slot returned from a [Table] remains usable after the slot has been
	// removed from the table; removal only detaches the table's reference.
	Slot[Value any] struct {
		mu    sync.Mutex
		refs  atomic.Int64
		value Value
	}
	// Table maps handles to slots of one resource kind.
	// All table-level operations are serialized by a single lock;
	// the values themselves are guarded by their slot's own lock,
	// so long-running work on one resource does not block lookups.
	// Constructed by [NewTable].
	Table[Value any] struct {
		mu    sync.Mutex
		slots map[Handle]*Slot[Value]
	}
)

// With runs f with exclusive access to the slot's value.
// f must not call back into the slot or its table.
func (s *Slot[Value]) With(f func(*Value)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.value)
}

// Value returns a copy of the slot's current value.
func (s *Slot[Value]) Value() Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the slot's value.
func (s *Slot[Value]) Set(value Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
}

// NewTable creates an empty [Table].
func NewTable[Value any]() *Table[Value] {
	return &Table[Value]{
		slots: make(map[Handle]*Slot[Value]),
	}
}

// Insert wraps value in a new slot and returns its freshly allocated handle.
// The slot starts with a single logical reference: the table's own.
func (t *Table[Value]) Insert(value Value) Handle {
	var (
		handle = newHandle()
		slot   = &Slot[Value]{value: value}
	)
	slot.refs.Store(1)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots[handle] = slot
	return handle
}

// Get returns the slot for handle, or false if the handle is unknown
// or was previously removed. The caller may use the slot even if
// another goroutine removes it from the table concurrently.
func (t *Table[Value]) Get(handle Handle) (*Slot[Value], bool) {
	if handle == InvalidHandle {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	slot, ok := t.slots[handle]
	return slot, ok
}

// Remove detaches and returns the table's reference to the slot,
// regardless of its reference count.
// Removing an already removed or unknown handle returns false.
func (t *Table[Value]) Remove(handle Handle) (*Slot[Value], bool) {
	if handle == InvalidHandle {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	slot, ok := t.slots[handle]
	if !ok {
		return nil, false
	}
	delete(t.slots, handle)
	return slot, true
}

// Keep registers one additional logical holder of the slot
// and returns the handle unchanged.
// It returns [InvalidHandle] if the handle does not resolve.
func (t *Table[Value]) Keep(handle Handle) Handle {
	if handle == InvalidHandle {
		return InvalidHandle
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	slot, ok := t.slots[handle]
	if !ok {
		return InvalidHandle
	}
	slot.refs.Add(1)
	return handle
}

// Drop releases one logical holder of the slot.
// When the count reaches zero the slot is detached from the table;
// outstanding *Slot pointers stay valid and keep the value alive.
// Dropping an unknown handle is a no-op.
func (t *Table[Value]) Drop(handle Handle) {
	if handle == InvalidHandle {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	slot, ok := t.slots[handle]
	if !ok {
		return
	}
	if slot.refs.Add(-1) <= 0 {
		delete(t.slots, handle)
	}
}

// Len returns the number of slots currently held by the table.
func (t *Table[Value]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots)
}

// Handles returns an iterator over the (unordered) handles
// resolvable at the time of the call.
func (t *Table[Value]) Handles() iter.Seq[Handle] {
	t.mu.Lock()
	snapshot := make([]Handle, 0, len(t.slots))
	for handle := range t.slots {
		snapshot = append(snapshot, handle)
	}
	t.mu.Unlock()
	return func(yield func(Handle) bool) {
		for _, handle := range snapshot {
			if !yield(handle) {
				return
			}
		}
	}
}
