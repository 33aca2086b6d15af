// Copyright (c) 2025 Mark Tikhonov
//
// Licensed under the MIT License. See the accompanying LICENSE file for
// details.

package hashing

import (
	"fmt"

	"github.com/MarikTik/etools/bits"
	"github.com/MarikTik/etools/internal/distinct"
)

// LLUT is a direct-address lookup table: one cell per possible key value in
// [0, max(keys)+1). It is the cheapest possible minimal perfect hash when
// the key span is compact, and the worst possible one when it is sparse —
// see MPH / New for the heuristic that picks between LLUT and FKS.
type LLUT[K bits.Unsigned] struct {
	cells    []int // dense index, or sentinel (len(keys)) when unoccupied
	size     int
	capacity int
}

// NewLLUT builds a direct-address table over keys. keys must be pairwise
// distinct and non-empty; violations panic, mirroring the build-time
// failures spec.md §7 assigns to a duplicate key set.
func NewLLUT[K bits.Unsigned](keys []K) *LLUT[K] {
	if len(keys) == 0 {
		panic("hashing: NewLLUT: key set must be non-empty")
	}
	if !distinct.Keys(keys) {
		panic("hashing: NewLLUT: keys must be pairwise distinct")
	}

	var maxKey K
	for _, k := range keys {
		if k > maxKey {
			maxKey = k
		}
	}
	capacity := int(maxKey) + 1
	sentinel := len(keys)

	cells := make([]int, capacity)
	for i := range cells {
		cells[i] = sentinel
	}
	for i, k := range keys {
		cells[int(k)] = i
	}

	return &LLUT[K]{cells: cells, size: len(keys), capacity: capacity}
}

// Size returns N, the number of registered keys.
func (t *LLUT[K]) Size() int { return t.size }

// Sentinel returns N, the "not a member" index.
func (t *LLUT[K]) Sentinel() int { return t.size }

// Capacity returns max(keys)+1, the backing array length.
func (t *LLUT[K]) Capacity() int { return t.capacity }

// Lookup returns the dense index of key, or Sentinel() if key was not
// registered. Out-of-range keys unconditionally return the sentinel.
func (t *LLUT[K]) Lookup(key K) int {
	i := int(key)
	if i < 0 || i >= t.capacity {
		return t.size
	}
	return t.cells[i]
}

func (t *LLUT[K]) String() string {
	return fmt.Sprintf("LLUT{size=%d capacity=%d}", t.size, t.capacity)
}
