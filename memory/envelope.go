// Copyright (c) 2025 Mark Tikhonov
//
// Licensed under the MIT License. See the accompanying LICENSE file for
// details.

package memory

import (
	"errors"

	"github.com/sugawarayuuta/sonnet"
)

// ErrEnvelopeClosed is returned by Pack/Unpack/Bytes after Close or after
// the Envelope has been moved out of via Take.
var ErrEnvelopeClosed = errors.New("memory: envelope: use of closed envelope")

// Envelope owns a byte buffer used to hand serialized values between
// components without either side needing to agree on a wire format ahead
// of time. It is move-only: once Take is called, the original Envelope is
// left closed and every other method returns ErrEnvelopeClosed.
//
// Pack/Unpack are backed by github.com/sugawarayuuta/sonnet, a drop-in,
// faster replacement for encoding/json — the serialization library this
// component wraps, in the spirit of spec.md §1's "byte-buffer envelope
// wrappers over an external binary serialization library."
type Envelope struct {
	buf     []byte
	release func([]byte)
	closed  bool
}

// NewEnvelope wraps an existing buffer. release, if non-nil, is invoked
// from Close with the buffer that was owned — the Go analogue of the
// original envelope's custom Deleter, letting callers reuse pool- or
// arena-sourced memory instead of leaving it to the GC.
func NewEnvelope(buf []byte, release func([]byte)) *Envelope {
	return &Envelope{buf: buf, release: release}
}

// Pack serializes v and stores the result as the envelope's contents,
// replacing whatever was there before.
func (e *Envelope) Pack(v any) error {
	if e.closed {
		return ErrEnvelopeClosed
	}
	data, err := sonnet.Marshal(v)
	if err != nil {
		return err
	}
	e.buf = data
	return nil
}

// Unpack deserializes the envelope's current contents into v.
func (e *Envelope) Unpack(v any) error {
	if e.closed {
		return ErrEnvelopeClosed
	}
	return sonnet.Unmarshal(e.buf, v)
}

// Bytes returns the envelope's current raw contents. The returned slice
// aliases the envelope's internal buffer and must not be retained past the
// next Pack, Take, or Close.
func (e *Envelope) Bytes() ([]byte, error) {
	if e.closed {
		return nil, ErrEnvelopeClosed
	}
	return e.buf, nil
}

// Take moves ownership of the buffer out of the envelope. After Take, the
// envelope is closed: every other method returns ErrEnvelopeClosed, and
// Close becomes a no-op (ownership, and responsibility for release, moved
// with the buffer).
func (e *Envelope) Take() ([]byte, error) {
	if e.closed {
		return nil, ErrEnvelopeClosed
	}
	buf := e.buf
	e.buf = nil
	e.release = nil
	e.closed = true
	return buf, nil
}

// Close releases the owned buffer via the release callback supplied to
// NewEnvelope, if any, and marks the envelope closed. Close is idempotent.
func (e *Envelope) Close() {
	if e.closed {
		return
	}
	if e.release != nil {
		e.release(e.buf)
	}
	e.buf = nil
	e.closed = true
}
