// Copyright (c) 2025 Mark Tikhonov
//
// Licensed under the MIT License. See the accompanying LICENSE file for
// details.

// Package memory provides the static storage primitives the dispatch and
// registry packages build on: a single-slot cell with an explicit
// construct/replace/destroy lifecycle, and a serialized byte-buffer
// envelope for handing structured values between components.
package memory

// destroyer is implemented by types that want an observable hook when a
// Cell destroys their instance. In the original C++ source this role was
// played by an actual destructor call; Go has no deterministic destructor,
// so callers that need to observe "was this instance torn down" implement
// OnDestroy instead.
type destroyer interface {
	OnDestroy()
}

// Cell is a single-slot, single-owner store for one value of type T. At
// most one T is ever "live" in a Cell at a time. A Cell is NOT
// goroutine-safe: it is intended for single-threaded or cooperatively
// scheduled callers, exactly as the original slot<T> it is modeled on.
//
// Unlike the C++ slot<T>, a Go Cell[T] does not need a hand-rolled aligned
// byte buffer to get correct alignment for T — a plain T field already is
// one — so Cell keeps only the lifecycle (construct/replace/destroy/live)
// that the original actually cared about. A Cell is an ordinary value, not
// a process-wide singleton per T: every owner (a dispatch.Factory key, a
// registry entry) holds its own Cell.
type Cell[T any] struct {
	value T
	live  bool
}

// Construct places value into the cell. It panics if the cell is already
// live — use Replace to overwrite a live cell. The precondition-violation
// panic mirrors spec.md §7's treatment of "constructing into a live cell
// via construct (as opposed to replace)" as a defensive-assertion bug.
func (c *Cell[T]) Construct(value T) *T {
	if c.live {
		panic("memory: Cell.Construct: cell is already live; use Replace")
	}
	c.value = value
	c.live = true
	return &c.value
}

// Replace destroys any live value (invoking OnDestroy if implemented) and
// constructs value in its place.
func (c *Cell[T]) Replace(value T) *T {
	if c.live {
		c.destroyLiveValue()
	}
	c.value = value
	c.live = true
	return &c.value
}

// Destroy clears the cell, invoking OnDestroy on the live value if
// implemented. It is a no-op if the cell is not live.
func (c *Cell[T]) Destroy() {
	if !c.live {
		return
	}
	c.destroyLiveValue()
	var zero T
	c.value = zero
}

// Get returns a pointer to the live value, or nil if the cell is empty.
func (c *Cell[T]) Get() *T {
	if !c.live {
		return nil
	}
	return &c.value
}

// Live reports whether the cell currently holds a constructed value.
func (c *Cell[T]) Live() bool { return c.live }

// destroyLiveValue probes both value- and pointer-receiver forms of
// destroyer. When T is itself an interface (as dispatch.Factory
// instantiates Cell[Base]), &c.value has concrete type *T, a
// pointer-to-interface with an empty method set, so only the any(c.value)
// form ever matches — the interface's dynamic value carries whatever
// OnDestroy the concrete type underneath it implements. When T is a
// concrete struct with a pointer-receiver OnDestroy, only any(&c.value)
// matches. Checking both covers every case this module actually
// instantiates Cell with.
func (c *Cell[T]) destroyLiveValue() {
	if d, ok := any(c.value).(destroyer); ok {
		d.OnDestroy()
	} else if d, ok := any(&c.value).(destroyer); ok {
		d.OnDestroy()
	}
	c.live = false
}
