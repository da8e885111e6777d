// Package ring is a specialized adaption of `container/ring` for ordered cache bookkeeping.
package ring

import "iter"

// A Ring is an element of a circular list, or ring.
// Rings do not have a beginning or end; a pointer to any ring element
// serves as reference to the entire ring. Empty rings are represented
// as nil Ring pointers. The zero value for a Ring is a one-element
// ring with a nil Value.
//
// The store links entries into a ring in insertion order; walking the
// ring therefore yields entries oldest-first, which is the iteration
// order that policy tie-breaks are defined against.
type Ring[Key comparable, Value any] struct {
	next, prev *Ring[Key, Value]
	// Name is the identifier of the data this element is bound to.
	Name Key
	// Value is the data carried by this element.
	Value Value
}

func (r *Ring[Key, Value]) init() *Ring[Key, Value] {
	r.next = r
	r.prev = r
	return r
}

// Next returns the next ring element. r must not be empty.
func (r *Ring[Key, Value]) Next() *Ring[Key, Value] {
	if r.next == nil {
		return r.init()
	}
	return r.next
}

// Prev returns the previous ring element. r must not be empty.
func (r *Ring[Key, Value]) Prev() *Ring[Key, Value] {
	if r.next == nil {
		return r.init()
	}
	return r.prev
}

// Link connects ring r with ring s such that r.Next()
// becomes s and returns the original value for r.Next().
// r must not be empty.
//
// If r and s point to the same ring, linking
// them removes the elements between r and s from the ring.
// The removed elements form a subring and the result is a
// reference to that subring (if no elements were removed,
// the result is still the original value for r.Next(),
// and not nil).
//
// If r and s point to different rings, linking
// them creates a single ring with the elements of s inserted
// after r. The result points to the element following the
// last element of s after insertion.
func (r *Ring[Key, Value]) Link(s *Ring[Key, Value]) *Ring[Key, Value] {
	n := r.Next()
	if s != nil {
		p := s.Prev()
		// Note: Cannot use multiple assignment because
		// evaluation order of LHS is not specified.
		r.next = s
		s.prev = r
		n.prev = p
		p.next = n
	}
	return n
}

// Unlink removes n % r.Len() elements from the ring r, starting
// at r.Next(). If n % r.Len() == 0, r remains unchanged.
// The result is the removed subring. r must not be empty.
func (r *Ring[Key, Value]) Unlink(n int) *Ring[Key, Value] {
	if n <= 0 {
		return nil
	}
	return r.Link(r.move(n + 1))
}

// move advances n elements forward in the ring
// and returns that ring element. r must not be empty.
func (r *Ring[Key, Value]) move(n int) *Ring[Key, Value] {
	if r.next == nil {
		return r.init()
	}
	for ; n > 0; n-- {
		r = r.next
	}
	return r
}

// Len computes the number of elements in ring r.
// It executes in time proportional to the number of elements.
func (r *Ring[Key, Value]) Len() int {
	n := 0
	if r != nil {
		n = 1
		for p := r.Next(); p != r; p = p.next {
			n++
		}
	}
	return n
}

// Iter returns an iterator over the ring's elements
// in forward order, starting at r.
// The behavior of Iter is undefined if the yield function modifies the ring.
func (r *Ring[Key, Value]) Iter() iter.Seq[*Ring[Key, Value]] {
	return func(yield func(*Ring[Key, Value]) bool) {
		if r == nil ||
			!yield(r) {
			return
		}
		for p := r.Next(); p != r; p = p.next {
			if !yield(p) {
				return
			}
		}
	}
}
