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

// debug gates verbose tracing of the FKS build path, in the
// same spirit as cockroachdb/swiss's debug-gated fmt.Printf calls in
// map.go. Off by default; flip by hand for local debugging.
const debug = false

// fksSeedCapFactor bounds the per-bucket odd-multiplier search: a bucket of
// second-level size 1<<r gets fksSeedCapFactor*(1<<r) seed trials before the
// build gives up. See SPEC_FULL.md §4.D for the Open Question this resolves.
const fksSeedCapFactor = 32

// FKS is a two-level Fredman-Komlos-Szemeredi perfect hash table: first-level
// bucketing by a native-width mixer, second-level per-bucket multiply-shift
// hashing with a collision-free odd multiplier found at build time.
type FKS[K bits.Unsigned] struct {
	buckets   uint
	localMul  []uint64 // a[b], odd
	localBits []uint8  // r[b]
	base      []int    // base offset into slotIndex for bucket b
	slotIndex []int    // dense index, or sentinel, per slot
	keyAt     []K      // dense index -> original key, for the final equality check
	size      int
}

// NewFKS builds a two-level perfect hash over keys. keys must be pairwise
// distinct and non-empty; violations panic. A build that cannot find a
// collision-free multiplier for some bucket within the seed cap also
// panics, naming the offending bucket — this can only happen for a
// pathological key set, but spec.md §7 requires the failure be loud rather
// than a silent fallback.
func NewFKS[K bits.Unsigned](keys []K) *FKS[K] {
	if len(keys) == 0 {
		panic("hashing: NewFKS: key set must be non-empty")
	}
	if !distinct.Keys(keys) {
		panic("hashing: NewFKS: keys must be pairwise distinct")
	}

	n := len(keys)
	m := bits.CeilPow2(uint64(n))
	if m == 0 {
		m = 1
	}
	bucketCount := uint(m)

	counts := make([]int, bucketCount)
	bucketOfKey := make([]uint, n)
	for i, k := range keys {
		b := bits.BucketOf(k, bucketCount)
		bucketOfKey[i] = b
		counts[b]++
	}

	// CSR-style grouping of key indices by bucket, declaration order
	// preserved within each bucket.
	offsets := make([]int, bucketCount+1)
	for b := uint(0); b < bucketCount; b++ {
		offsets[b+1] = offsets[b] + counts[b]
	}
	cursor := append([]int(nil), offsets[:bucketCount]...)
	items := make([]int, n)
	for i := range keys {
		b := bucketOfKey[i]
		items[cursor[b]] = i
		cursor[b]++
	}

	localBits := make([]uint8, bucketCount)
	for b := uint(0); b < bucketCount; b++ {
		s := counts[b]
		target := uint64(1)
		if s > 1 {
			target = uint64(s) * uint64(s)
		}
		localBits[b] = uint8(bits.CeilLog2(target))
	}

	base := make([]int, bucketCount)
	totalSlots := 0
	for b := uint(0); b < bucketCount; b++ {
		base[b] = totalSlots
		totalSlots += 1 << localBits[b]
	}

	slotIndex := make([]int, totalSlots)
	for i := range slotIndex {
		slotIndex[i] = n
	}
	keyAt := make([]K, n)
	localMul := make([]uint64, bucketCount)

	for b := uint(0); b < bucketCount; b++ {
		bucketItems := items[offsets[b]:offsets[b+1]]
		if len(bucketItems) == 0 {
			localMul[b] = 1
			continue
		}

		r := localBits[b]
		seedCap := fksSeedCapFactor * (1 << r)
		found := false

		positions := make([]int, len(bucketItems))
		for seed := uint64(1); seed <= uint64(seedCap); seed++ {
			a := bits.MixNative(uint(seed)) | 1
			a64 := uint64(a)

			ok := true
			var occupied uint64 // only valid while r <= 64, which always holds here
			var occMap map[int]bool
			if r > 6 {
				occMap = make(map[int]bool, len(bucketItems))
			}
			for idx, itemIdx := range bucketItems {
				k := keys[itemIdx]
				mixed := uint64(bits.MixNative(k))
				pos := int(bits.TopBits(mixed*a64, int(r)))
				positions[idx] = pos
				if r <= 6 {
					bit := uint64(1) << uint(pos)
					if occupied&bit != 0 {
						ok = false
						break
					}
					occupied |= bit
				} else {
					if occMap[pos] {
						ok = false
						break
					}
					occMap[pos] = true
				}
			}
			if ok {
				localMul[b] = a64
				found = true
				if debug {
					fmt.Printf("fks: bucket=%d seed=%d a=%#x trials=%d\n", b, seed, a64, seed)
				}
				break
			}
		}
		if !found {
			panic(fmt.Sprintf(
				"hashing: NewFKS: bucket %d (%d keys) exhausted %d seed trials without a collision-free multiplier",
				b, len(bucketItems), seedCap))
		}

		for idx, itemIdx := range bucketItems {
			denseIdx := itemIdx
			slotIndex[base[b]+positions[idx]] = denseIdx
			keyAt[denseIdx] = keys[itemIdx]
		}
	}

	return &FKS[K]{
		buckets:   bucketCount,
		localMul:  localMul,
		localBits: localBits,
		base:      base,
		slotIndex: slotIndex,
		keyAt:     keyAt,
		size:      n,
	}
}

// Size returns N, the number of registered keys.
func (t *FKS[K]) Size() int { return t.size }

// Sentinel returns N, the "not a member" index.
func (t *FKS[K]) Sentinel() int { return t.size }

// Buckets returns the first-level bucket count M.
func (t *FKS[K]) Buckets() int { return int(t.buckets) }

// Slots returns the total second-level slot count across all buckets.
func (t *FKS[K]) Slots() int { return len(t.slotIndex) }

// Lookup returns the dense index of key, or Sentinel() if key was not
// registered. The final equality check against keyAt is mandatory: a
// non-registered key can still hash into an occupied slot belonging to a
// different key.
func (t *FKS[K]) Lookup(key K) int {
	mixed := uint64(bits.MixNative(key))
	b := uint(mixed) & (t.buckets - 1)
	r := t.localBits[b]
	pos := int(bits.TopBits(mixed*t.localMul[b], int(r)))
	slot := t.base[b] + pos
	i := t.slotIndex[slot]
	if i == t.size || t.keyAt[i] != key {
		return t.size
	}
	return i
}

func (t *FKS[K]) String() string {
	return fmt.Sprintf("FKS{size=%d buckets=%d slots=%d}", t.size, t.buckets, len(t.slotIndex))
}
