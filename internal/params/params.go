// Package params implements the parameter plane and message transport: a
// process-wide array of named, clamped, atomic float parameters for
// block-granular RT reads, plus a bounded SPSC queue carrying per-node
// set-param commands.
package params

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Key indexes one parameter in a Store. Keys are assigned sequentially by a
// Builder and are stable for the Store's lifetime (the store is never
// resized after Build).
type Key int

// Meta describes one parameter's name and valid range.
type Meta struct {
	Name    string
	Min     float32
	Max     float32
	Default float32
}

// atomicFloat is a relaxed-ordering atomic float32, since Go has no native
// atomic float32 type. Reads and writes go through math.Float32bits, the
// standard idiom for atomic floats in Go (see DESIGN.md for why this one
// piece stays on the standard library rather than a third-party dep).
type atomicFloat struct {
	bits atomic.Uint32
}

func (a *atomicFloat) Load() float32 {
	return math.Float32frombits(a.bits.Load())
}

func (a *atomicFloat) Store(v float32) {
	a.bits.Store(math.Float32bits(v))
}

// Store is the immutable, index-keyed array of atomic parameters. Values
// are shared by reference between the non-RT frontend (Set) and the RT
// reader (Get); both sides use plain atomic access with no ordering promised
// between unrelated parameters.
type Store struct {
	values []atomicFloat
	meta   []Meta
	names  map[string]Key
}

// Get performs a relaxed atomic read of the parameter's current value. Safe
// to call from the RT thread once per block per parameter.
func (s *Store) Get(k Key) float32 {
	return s.values[k].Load()
}

// Set clamps v to the parameter's [min, max] range and stores it. Called
// only from non-RT threads (the frontend).
func (s *Store) Set(k Key, v float32) {
	m := s.meta[k]
	if v < m.Min {
		v = m.Min
	} else if v > m.Max {
		v = m.Max
	}
	s.values[k].Store(v)
}

// Meta returns the metadata for k.
func (s *Store) Meta(k Key) Meta { return s.meta[k] }

// KeyByName resolves a parameter name to its Key. Only used by the non-RT
// frontend (the RT path never does name lookups).
func (s *Store) KeyByName(name string) (Key, bool) {
	k, ok := s.names[name]
	return k, ok
}

// Len returns the number of registered parameters.
func (s *Store) Len() int { return len(s.meta) }

// Builder accumulates parameter declarations before the store is built.
// Mirrors the non-RT "ParamStoreBuilder assigns sequential keys" pattern.
type Builder struct {
	meta  []Meta
	names map[string]Key
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{names: make(map[string]Key)}
}

// Register declares a new parameter and returns its Key. Registering the
// same name twice is a construction error.
func (b *Builder) Register(name string, min, max, def float32) (Key, error) {
	if _, exists := b.names[name]; exists {
		return 0, fmt.Errorf("params: parameter %q already registered", name)
	}
	k := Key(len(b.meta))
	b.meta = append(b.meta, Meta{Name: name, Min: min, Max: max, Default: def})
	b.names[name] = k
	return k, nil
}

// Build finalizes the Store, initializing every value to its declared
// default. The returned Store never changes size again.
func (b *Builder) Build() *Store {
	s := &Store{
		values: make([]atomicFloat, len(b.meta)),
		meta:   append([]Meta(nil), b.meta...),
		names:  b.names,
	}
	for i, m := range s.meta {
		s.values[i].Store(m.Default)
	}
	return s
}
