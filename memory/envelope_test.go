// Copyright (c) 2025 Mark Tikhonov
//
// Licensed under the MIT License. See the accompanying LICENSE file for
// details.

package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type widget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestEnvelopePackUnpackRoundTrip(t *testing.T) {
	env := NewEnvelope(nil, nil)
	require.NoError(t, env.Pack(widget{Name: "bolt", Count: 7}))

	var out widget
	require.NoError(t, env.Unpack(&out))
	require.Equal(t, widget{Name: "bolt", Count: 7}, out)
}

func TestEnvelopeTakeClosesEnvelope(t *testing.T) {
	env := NewEnvelope(nil, nil)
	require.NoError(t, env.Pack(widget{Name: "nut", Count: 3}))

	buf, err := env.Take()
	require.NoError(t, err)
	require.NotEmpty(t, buf)

	_, err = env.Take()
	require.ErrorIs(t, err, ErrEnvelopeClosed)
	require.ErrorIs(t, env.Pack(widget{}), ErrEnvelopeClosed)
}

func TestEnvelopeCloseInvokesRelease(t *testing.T) {
	var released []byte
	env := NewEnvelope([]byte("preset"), func(b []byte) { released = b })
	env.Close()
	require.Equal(t, []byte("preset"), released)

	env.Close() // idempotent
}
