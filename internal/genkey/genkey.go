// Package genkey implements a generational slot arena: stable (index,
// generation) keys that remain safe to hold across removal and reuse of a
// slot, the way the graph keeps node identity stable across remove/insert.
package genkey

// Key identifies a slot in an Arena. A Key is only valid for the Gen under
// which it was issued; once the slot is removed and its generation bumped,
// older keys referencing it report not-found rather than aliasing the new
// occupant.
type Key struct {
	Index uint32
	Gen   uint32
}

type slot[T any] struct {
	gen   uint32
	alive bool
	value T
}

// Arena is a generic generational slot arena.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
}

// NewArena returns an empty arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v in a free slot (or a fresh one) and returns its key.
func (a *Arena[T]) Insert(v T) Key {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.alive = true
		s.value = v
		return Key{Index: idx, Gen: s.gen}
	}
	a.slots = append(a.slots, slot[T]{gen: 0, alive: true, value: v})
	return Key{Index: uint32(len(a.slots) - 1), Gen: 0}
}

// Remove evicts the slot referenced by k, bumping its generation so stale
// keys can no longer resolve to it. Returns false if k was already stale.
func (a *Arena[T]) Remove(k Key) bool {
	if !a.valid(k) {
		return false
	}
	s := &a.slots[k.Index]
	var zero T
	s.value = zero
	s.alive = false
	s.gen++
	a.free = append(a.free, k.Index)
	return true
}

// Get returns a pointer to the value at k, or ok=false if k is stale or
// unknown.
func (a *Arena[T]) Get(k Key) (*T, bool) {
	if !a.valid(k) {
		return nil, false
	}
	return &a.slots[k.Index].value, true
}

// Contains reports whether k currently resolves to a live slot.
func (a *Arena[T]) Contains(k Key) bool { return a.valid(k) }

// Len returns the number of live slots.
func (a *Arena[T]) Len() int {
	n := 0
	for i := range a.slots {
		if a.slots[i].alive {
			n++
		}
	}
	return n
}

// Each calls fn for every live slot. fn must not mutate the arena.
func (a *Arena[T]) Each(fn func(Key, *T)) {
	for i := range a.slots {
		if a.slots[i].alive {
			fn(Key{Index: uint32(i), Gen: a.slots[i].gen}, &a.slots[i].value)
		}
	}
}

func (a *Arena[T]) valid(k Key) bool {
	i := int(k.Index)
	return i >= 0 && i < len(a.slots) && a.slots[i].alive && a.slots[i].gen == k.Gen
}
