// Copyright (c) 2025 Mark Tikhonov
//
// Licensed under the MIT License. See the accompanying LICENSE file for
// details.

// Package distinct implements the build-time duplicate-key check that
// hashing and dispatch run before trusting a key set. It is not part of the
// public API: callers see its effect only as a panic raised by whichever
// constructor invoked it.
package distinct

import "github.com/MarikTik/etools/bits"

// Keys reports whether every element of keys is pairwise distinct. Key
// types with at most 16 value bits use a bitmap indexed by key value;
// wider types use an open-addressed probe set sized ceilPow2(max(1, 2*N)).
func Keys[T bits.Unsigned](keys []T) bool {
	if len(keys) <= 1 {
		return true
	}
	if bitmapEligible[T]() {
		return distinctViaBitmap(keys)
	}
	return distinctViaProbe(keys)
}

func bitmapEligible[T bits.Unsigned]() bool {
	var zero T
	switch any(zero).(type) {
	case uint8, uint16:
		return true
	default:
		return uint64(^zero) <= 0xffff
	}
}

func distinctViaBitmap[T bits.Unsigned](keys []T) bool {
	// At most 2^16 bits are needed since callers only take this path for
	// <=16-bit key types.
	var seen [1 << 16 / 64]uint64
	for _, k := range keys {
		v := uint64(k)
		word, bit := v/64, v%64
		mask := uint64(1) << bit
		if seen[word]&mask != 0 {
			return false
		}
		seen[word] |= mask
	}
	return true
}

func distinctViaProbe[T bits.Unsigned](keys []T) bool {
	capacity := bits.CeilPow2(uint64(len(keys)) * 2)
	if capacity < 1 {
		capacity = 1
	}
	table := make([]uint64, capacity)
	present := make([]bool, capacity)
	mask := capacity - 1

	for _, k := range keys {
		v := uint64(k)
		slot := bits.MixNative(k) & uint(mask)
		for {
			if !present[slot] {
				present[slot] = true
				table[slot] = v
				break
			}
			if table[slot] == v {
				return false
			}
			slot = (slot + 1) & uint(mask)
		}
	}
	return true
}
