// Copyright (c) 2025 Mark Tikhonov
//
// Licensed under the MIT License. See the accompanying LICENSE file for
// details.

package hashing

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/MarikTik/etools/bits"
)

// MPH is the narrow capability both backends expose: lookup, size, and
// sentinel. dispatch depends only on this interface, never on LLUT or FKS
// directly, so the selector's choice of backend stays an implementation
// detail.
type MPH[K bits.Unsigned] interface {
	Lookup(key K) int
	Size() int
	Sentinel() int
}

// fksAlphaScaled is the integer approximation of FKS's per-entry slot
// overhead factor (spec.md §4.E's α), used only by the LLUT-vs-FKS memory
// heuristic.
const fksAlphaScaled = 3

// New builds the more memory-efficient of LLUT or FKS for keys, per the
// compile-time memory model in spec.md §4.E:
//
//	memLLUT ~= span * indexWidth
//	memFKS  ~= N * (alpha*indexWidth + 2*wordSize + 1 + sizeof(K))
//
// FKS is chosen when memLLUT > memFKS; LLUT otherwise. New does not cache
// its result — callers wanting the "same key set, same object" guarantee
// (testable property 11) should go through Singleton instead.
func New[K bits.Unsigned](keys []K) MPH[K] {
	if len(keys) == 0 {
		panic("hashing: New: key set must be non-empty")
	}

	n := uint64(len(keys))
	var maxKey K
	for _, k := range keys {
		if k > maxKey {
			maxKey = k
		}
	}
	span := uint64(maxKey) + 1
	indexWidth := uint64(bits.SmallestUintWidth(len(keys))) / 8

	var zeroKey K
	keyWidth := uint64(wordSizeOf(zeroKey))
	wordSize := uint64(8)

	memLLUT := span * indexWidth
	memFKS := n * (fksAlphaScaled*indexWidth + 2*wordSize + 1 + keyWidth)

	if memLLUT > memFKS {
		return NewFKS(keys)
	}
	return NewLLUT(keys)
}

func wordSizeOf[K bits.Unsigned](zero K) int {
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// singletons memoizes MPH instances by a fingerprint of (K's reflect.Type,
// keys in declaration order), giving every caller that builds the "same"
// key set a reference to the same object — see Design Notes §9's guidance
// to "prefer lazy initialization on first use but return by stable
// reference." This is the only synchronized state in the package; it backs
// a rarely-taken, one-time-per-key-set path, never the hot lookup path.
var singletons sync.Map // map[string]any

// Singleton returns the canonical MPH for (K, keys...), building it on
// first request and returning the cached instance thereafter. dispatch
// always goes through Singleton rather than New.
func Singleton[K bits.Unsigned](keys []K) MPH[K] {
	fingerprint := fingerprintOf(keys)
	if v, ok := singletons.Load(fingerprint); ok {
		return v.(MPH[K])
	}
	built := New(keys)
	actual, _ := singletons.LoadOrStore(fingerprint, built)
	return actual.(MPH[K])
}

func fingerprintOf[K bits.Unsigned](keys []K) string {
	var zero K
	return fmt.Sprintf("%s:%v", reflect.TypeOf(zero), keys)
}
