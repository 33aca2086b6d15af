// Copyright (c) 2025 Mark Tikhonov
//
// Licensed under the MIT License. See the accompanying LICENSE file for
// details.

package hashing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S1 from spec.md §8.
func TestLLUT_S1(t *testing.T) {
	table := NewLLUT([]uint8{2, 5, 7})

	require.Equal(t, 3, table.Size())
	require.Equal(t, 3, table.Sentinel())
	require.Equal(t, 0, table.Lookup(2))
	require.Equal(t, 1, table.Lookup(5))
	require.Equal(t, 2, table.Lookup(7))
	require.Equal(t, 3, table.Lookup(0))
	require.Equal(t, 3, table.Lookup(9))
	require.Equal(t, 3, table.Lookup(255))
}

func TestLLUT_DeclarationOrderIndices(t *testing.T) {
	keys := []uint16{40, 10, 30, 20}
	table := NewLLUT(keys)
	for i, k := range keys {
		require.Equal(t, i, table.Lookup(k))
	}
}

func TestLLUT_DuplicateKeysPanic(t *testing.T) {
	require.Panics(t, func() { NewLLUT([]uint8{1, 2, 1}) })
}

func TestLLUT_EmptyKeysPanic(t *testing.T) {
	require.Panics(t, func() { NewLLUT([]uint8{}) })
}
