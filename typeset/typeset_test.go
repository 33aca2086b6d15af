// Copyright (c) 2025 Mark Tikhonov
//
// Licensed under the MIT License. See the accompanying LICENSE file for
// details.

package typeset

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type alpha struct{}
type beta struct{}
type gamma struct{}

func TestSetFlagAndTest(t *testing.T) {
	s := New(
		reflect.TypeOf(alpha{}),
		reflect.TypeOf(beta{}),
		reflect.TypeOf(gamma{}),
	)

	require.False(t, Test[alpha](s))
	require.False(t, Test[beta](s))

	SetFlag[alpha](s)
	require.True(t, Test[alpha](s))
	require.False(t, Test[beta](s))
	require.False(t, Test[gamma](s))

	SetFlag[gamma](s)
	require.True(t, Test[gamma](s))

	ClearFlag[alpha](s)
	require.False(t, Test[alpha](s))
	require.True(t, Test[gamma](s))
}

func TestContains(t *testing.T) {
	s := New(reflect.TypeOf(alpha{}))
	require.True(t, Contains[alpha](s))
	require.False(t, Contains[beta](s))
}

func TestUnregisteredTypePanics(t *testing.T) {
	s := New(reflect.TypeOf(alpha{}))
	require.Panics(t, func() { Test[beta](s) })
	require.Panics(t, func() { SetFlag[beta](s) })
}

func TestTypeVariantsMirrorGenericVariants(t *testing.T) {
	s := New(reflect.TypeOf(alpha{}), reflect.TypeOf(beta{}))

	require.True(t, ContainsType(s, reflect.TypeOf(alpha{})))
	require.False(t, ContainsType(s, reflect.TypeOf(gamma{})))

	SetFlagType(s, reflect.TypeOf(alpha{}))
	require.True(t, TestType(s, reflect.TypeOf(alpha{})))
	require.True(t, Test[alpha](s))

	ClearFlagType(s, reflect.TypeOf(alpha{}))
	require.False(t, TestType(s, reflect.TypeOf(alpha{})))

	require.Panics(t, func() { TestType(s, reflect.TypeOf(gamma{})) })
}

func TestNewDuplicateTypePanics(t *testing.T) {
	require.Panics(t, func() {
		New(reflect.TypeOf(alpha{}), reflect.TypeOf(alpha{}))
	})
}

func TestManyTypesCrossWordBoundary(t *testing.T) {
	// Exercise the bit-index arithmetic across a uint64 word boundary by
	// synthesizing 70 distinct struct types.
	distinct := make([]reflect.Type, 70)
	for i := range distinct {
		distinct[i] = reflect.StructOf([]reflect.StructField{
			{Name: "F", Type: reflect.ArrayOf(i+1, reflect.TypeOf(byte(0)))},
		})
	}

	s := New(distinct...)
	require.Len(t, s.bits, 2)

	last := distinct[len(distinct)-1]
	idx, ok := s.index[last]
	require.True(t, ok)
	require.GreaterOrEqual(t, idx, 64)

	s.bits[idx/64] |= uint64(1) << (uint(idx) % 64)
	require.NotZero(t, s.bits[idx/64])
}
