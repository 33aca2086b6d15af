// Copyright (c) 2025 Mark Tikhonov
//
// Licensed under the MIT License. See the accompanying LICENSE file for
// details.

package bits

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMixZeroFixedPoint(t *testing.T) {
	require.EqualValues(t, 0, MixU8(0))
	require.EqualValues(t, 0, MixU16(0))
	require.EqualValues(t, 0, MixU32(0))
	require.EqualValues(t, 0, MixU64(0))
}

func TestMixAvalanche(t *testing.T) {
	// Flipping a single low bit should change many output bits.
	a := MixU64(0)
	b := MixU64(1)
	require.NotEqual(t, a, b)

	diff := a ^ b
	set := 0
	for diff != 0 {
		set++
		diff &= diff - 1
	}
	require.Greater(t, set, 8, "expected wide avalanche from a single bit flip")
}

func TestMixWidthDispatchesByTargetWidth(t *testing.T) {
	require.EqualValues(t, MixU8(7), MixWidth[uint8](uint32(7)))
	require.EqualValues(t, MixU16(7), MixWidth[uint16](uint32(7)))
	require.EqualValues(t, MixU32(7), MixWidth[uint32](uint32(7)))
	require.EqualValues(t, MixU64(7), MixWidth[uint64](uint32(7)))
}

func TestCeilPow2(t *testing.T) {
	cases := map[uint64]uint64{
		0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 1023: 1024, 1024: 1024, 1025: 2048,
	}
	for in, want := range cases {
		require.Equal(t, want, CeilPow2(in), "CeilPow2(%d)", in)
	}
}

func TestCeilPow2Saturate(t *testing.T) {
	require.EqualValues(t, 1, CeilPow2Saturate[uint8](0))
	require.EqualValues(t, 128, CeilPow2Saturate[uint8](129))
	require.EqualValues(t, 128, CeilPow2Saturate[uint8](255))
	require.EqualValues(t, 64, CeilPow2Saturate[uint8](64))
}

func TestBitWidth(t *testing.T) {
	require.Equal(t, 0, BitWidth[uint32](0))
	require.Equal(t, 1, BitWidth[uint32](1))
	require.Equal(t, 3, BitWidth[uint32](5))
	require.Equal(t, 8, BitWidth[uint8](255))
}

func TestCeilLog2(t *testing.T) {
	require.Equal(t, 0, CeilLog2[uint32](0))
	require.Equal(t, 0, CeilLog2[uint32](1))
	require.Equal(t, 1, CeilLog2[uint32](2))
	require.Equal(t, 2, CeilLog2[uint32](3))
	require.Equal(t, 10, CeilLog2[uint32](1024))
	require.Equal(t, 11, CeilLog2[uint32](1025))
}

func TestBucketOfRequiresPowerOfTwo(t *testing.T) {
	require.Panics(t, func() { BucketOf(uint32(5), 3) })
	require.Panics(t, func() { BucketOf(uint32(5), 0) })
	require.NotPanics(t, func() { BucketOf(uint32(5), 8) })
}

func TestBucketOfRange(t *testing.T) {
	for k := uint32(0); k < 4096; k++ {
		b := BucketOf(k, 64)
		require.Less(t, b, uint(64))
	}
}

func TestTopBits(t *testing.T) {
	require.EqualValues(t, 0, TopBits(uint32(0xdeadbeef), 0))
	require.EqualValues(t, 0xdeadbeef, TopBits(uint32(0xdeadbeef), 32))
	require.EqualValues(t, 0xdead, TopBits(uint32(0xdeadbeef), 16))
	require.Panics(t, func() { TopBits(uint32(1), 33) })
	require.Panics(t, func() { TopBits(uint32(1), -1) })
}

func TestSmallestUintWidth(t *testing.T) {
	require.Equal(t, 8, SmallestUintWidth(0))
	require.Equal(t, 8, SmallestUintWidth(255))
	require.Equal(t, 16, SmallestUintWidth(256))
	require.Equal(t, 16, SmallestUintWidth(65535))
	require.Equal(t, 32, SmallestUintWidth(65536))
	require.Equal(t, 64, SmallestUintWidth(1 << 32))
	require.Panics(t, func() { SmallestUintWidth(-1) })
}
