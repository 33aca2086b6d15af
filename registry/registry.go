// Copyright (c) 2025 Mark Tikhonov
//
// Licensed under the MIT License. See the accompanying LICENSE file for
// details.

// Package registry provides a mutable, key-sorted alternative to the
// static dispatch factory in package dispatch. Where a dispatch.Factory
// binds a fixed key set to a minimal perfect hash at construction time,
// a Registry accepts keys one at a time at runtime and resolves them by
// binary search, trading the perfect-hash factory's O(1) lookup for the
// ability to Register new bindings after startup.
package registry

import (
	"sort"

	"github.com/MarikTik/etools/bits"
	"github.com/MarikTik/etools/memory"
)

// entry pairs a key with the lazily-constructed storage for one binding.
type entry[Base any, K bits.Unsigned] struct {
	key  K
	ctor func() Base
	cell memory.Cell[Base]
}

// Registry maps keys of type K to lazily constructed values of type Base,
// looked up by binary search over a key-sorted slice.
//
// Registry is NOT goroutine-safe, matching the non-goal this module
// inherited from its dispatch sibling.
type Registry[Base any, K bits.Unsigned] struct {
	entries []*entry[Base, K]
	sorted  bool
}

// New returns an empty Registry.
func New[Base any, K bits.Unsigned]() *Registry[Base, K] {
	return &Registry[Base, K]{}
}

// Register adds a binding from key to a constructor for Base. Registering
// a key that is already present panics — Register is for growing the
// key set, not for replacing a binding (see Replace for replacing the
// stored value within one binding).
func (r *Registry[Base, K]) Register(key K, ctor func() Base) {
	if _, _, found := r.find(key); found {
		panic("registry: Register: duplicate key")
	}
	r.entries = append(r.entries, &entry[Base, K]{key: key, ctor: ctor})
	r.sorted = false
}

// Len reports the number of registered keys.
func (r *Registry[Base, K]) Len() int { return len(r.entries) }

// Has reports whether key has a binding, independent of whether it has
// been constructed yet.
func (r *Registry[Base, K]) Has(key K) bool {
	_, _, found := r.find(key)
	return found
}

// Get returns the constructed value for key, constructing it via the
// registered constructor on first access. The second result is false if
// key has no binding.
func (r *Registry[Base, K]) Get(key K) (Base, bool) {
	i, _, found := r.find(key)
	if !found {
		var zero Base
		return zero, false
	}
	e := r.entries[i]
	if v := e.cell.Get(); v != nil {
		return *v, true
	}
	return *e.cell.Construct(e.ctor()), true
}

// Replace tears down the current value for key, if live, and constructs a
// fresh one immediately rather than lazily. It panics if key has no
// binding.
func (r *Registry[Base, K]) Replace(key K) Base {
	i, _, found := r.find(key)
	if !found {
		panic("registry: Replace: unknown key")
	}
	e := r.entries[i]
	return *e.cell.Replace(e.ctor())
}

// Close tears down every constructed value, in ascending key order, and
// invokes OnDestroy hooks (via memory.Cell.Destroy) along the way. A
// Registry can be reused after Close: constructed values are simply
// forgotten, not the bindings themselves.
func (r *Registry[Base, K]) Close() {
	r.ensureSorted()
	for _, e := range r.entries {
		e.cell.Destroy()
	}
}

// Keys returns the registered keys in ascending order.
func (r *Registry[Base, K]) Keys() []K {
	r.ensureSorted()
	keys := make([]K, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.key
	}
	return keys
}

func (r *Registry[Base, K]) ensureSorted() {
	if r.sorted {
		return
	}
	sort.Slice(r.entries, func(i, j int) bool {
		return r.entries[i].key < r.entries[j].key
	})
	r.sorted = true
}

// find locates key by binary search, returning its index (or the
// insertion point if not found) and whether it was found.
func (r *Registry[Base, K]) find(key K) (int, int, bool) {
	r.ensureSorted()
	i := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].key >= key
	})
	if i < len(r.entries) && r.entries[i].key == key {
		return i, i, true
	}
	return i, i, false
}
