// Copyright (c) 2025 Mark Tikhonov
//
// Licensed under the MIT License. See the accompanying LICENSE file for
// details.

// Package dispatch implements the static polymorphic factory: binding a
// fixed set of derived types to keys extracted from each type, and
// constructing one of them into the storage cell the Factory keeps for
// that key, selected by a minimal perfect hash lookup. Cells belong to
// the Factory: two Factories over the same types do not share them.
//
// Go has no templates and no SFINAE, so the constructor-matching the
// original does via "if constexpr is_constructible_v<T, Args...>" over an
// overload set is done here with reflect: each Binding closes over one or
// more constructor functions, and Emplace tries each in registration
// order, matching the supplied arguments against its signature by
// reflect.Value.Call, and taking the first one that fits.
package dispatch

import (
	"reflect"

	"github.com/MarikTik/etools/bits"
	"github.com/MarikTik/etools/hashing"
	"github.com/MarikTik/etools/memory"
	"github.com/MarikTik/etools/typeset"
)

// Take wraps a value to mark it as moved into a constructor rather than
// copied. Go has no lvalue/rvalue distinction, so where the original
// relied on overload resolution to choose a move- or copy-constructor,
// this module asks the caller to be explicit: pass ordinary V for a copy,
// Take[V] for a move. A constructor parameter typed Take[V] receives the
// wrapped value and should not expect the original to remain usable.
type Take[V any] struct {
	Value V
}

// Moved wraps v for a move-style constructor argument.
func Moved[V any](v V) Take[V] { return Take[V]{Value: v} }

// Binding pairs a key with one or more constructor functions for its
// derived type. Each constructor must have exactly one return value, of
// some concrete type assignable to Base (directly, or via an interface
// Base implements) — the Go analogue of "a pointer to Derived convertible
// to Base*". Registering more than one constructor under the same key is
// how a derived type with both a copy- and a move-style constructor is
// expressed: Emplace tries each Ctor in order and uses the first whose
// parameters match the supplied arguments, mirroring
// try_emplace_if_constructible's SFINAE skip over an overload set.
type Binding[Base any, K bits.Unsigned] struct {
	Key   K
	Ctors []any // each: func(Args...) Derived
}

// With returns a copy of b with ctor appended as an additional constructor
// overload for the same Key.
func (b Binding[Base, K]) With(ctor any) Binding[Base, K] {
	ctors := make([]any, len(b.Ctors)+1)
	copy(ctors, b.Ctors)
	ctors[len(b.Ctors)] = ctor
	return Binding[Base, K]{Key: b.Key, Ctors: ctors}
}

// Bind0 builds a Binding for a zero-argument constructor.
func Bind0[Base any, K bits.Unsigned, Derived any](key K, ctor func() Derived) Binding[Base, K] {
	return Binding[Base, K]{Key: key, Ctors: []any{ctor}}
}

// Bind1 builds a Binding for a one-argument constructor.
func Bind1[Base any, K bits.Unsigned, Derived, A any](key K, ctor func(A) Derived) Binding[Base, K] {
	return Binding[Base, K]{Key: key, Ctors: []any{ctor}}
}

// Bind2 builds a Binding for a two-argument constructor.
func Bind2[Base any, K bits.Unsigned, Derived, A, B any](key K, ctor func(A, B) Derived) Binding[Base, K] {
	return Binding[Base, K]{Key: key, Ctors: []any{ctor}}
}

// ctor is the type-erased, validated form of one registered constructor
// function: its reflect.Value for calling, and its declared (concrete)
// return type for typeset tracking.
type ctor struct {
	fn      reflect.Value
	outType reflect.Type
}

// binding is the type-erased form of one registered derived type: its
// key, and its candidate constructors in registration order.
type binding[K bits.Unsigned] struct {
	key   K
	ctors []ctor
}

// Factory binds a fixed set of derived-type constructors to keys and
// dispatches Emplace calls by minimal perfect hash lookup, constructing
// the selected derived type into a per-key storage cell.
//
// Factory is built once, from a fixed key set, and reuses hashing.Singleton
// so that two Factories built from the same Base/K pair and the same
// declaration-ordered keys share one underlying MPH, exactly as the
// original's static_factory::mpht() returns a reference to one compile-time
// singleton regardless of how many times static_factory<...> is named.
type Factory[Base any, K bits.Unsigned] struct {
	mph       hashing.MPH[K]
	bindings  []binding[K]
	cells     []memory.Cell[Base]
	everBuilt *typeset.Set
}

// New builds a Factory from bindings. Keys must be pairwise distinct;
// New panics otherwise (surfaced by hashing.Singleton's duplicate-key
// check). Every constructor's return type must be assignable to Base;
// New panics on the first one that is not. The order of bindings is the
// declaration order used to assign dense indices — passing the same keys
// in a different order yields a Factory with a different, independently
// memoized MPH.
func New[Base any, K bits.Unsigned](bindings ...Binding[Base, K]) *Factory[Base, K] {
	baseType := reflect.TypeOf((*Base)(nil)).Elem()

	keys := make([]K, len(bindings))
	for i, b := range bindings {
		keys[i] = b.Key
	}

	f := &Factory[Base, K]{
		mph:      hashing.Singleton(keys),
		bindings: make([]binding[K], len(bindings)),
		cells:    make([]memory.Cell[Base], len(bindings)),
	}

	seenTypes := make(map[reflect.Type]bool)
	var derivedTypes []reflect.Type

	for i, b := range bindings {
		if len(b.Ctors) == 0 {
			panic("dispatch: New: binding has no registered constructors")
		}
		ctors := make([]ctor, len(b.Ctors))
		for j, c := range b.Ctors {
			fn := reflect.ValueOf(c)
			if fn.Kind() != reflect.Func || fn.Type().NumOut() != 1 {
				panic("dispatch: New: Ctor must be a function returning exactly one value")
			}
			outType := fn.Type().Out(0)
			if !outType.AssignableTo(baseType) {
				panic("dispatch: New: constructor return type " + outType.String() +
					" is not assignable to " + baseType.String())
			}
			ctors[j] = ctor{fn: fn, outType: outType}
			if !seenTypes[outType] {
				seenTypes[outType] = true
				derivedTypes = append(derivedTypes, outType)
			}
		}
		f.bindings[i] = binding[K]{key: b.Key, ctors: ctors}
	}

	f.everBuilt = typeset.New(derivedTypes...)
	return f
}

// Emplace constructs (or replaces) the instance bound to key, forwarding
// args to the first registered constructor for that key whose parameters
// are assignable from args, and returns a pointer to the live Base value.
// The second result is false, with a nil pointer, if key is unregistered
// or if none of the registered constructors' parameters match args.
//
// If a value is already live for key, the matching constructor runs
// first and the live value is then destroyed (see memory.Cell.Replace)
// and replaced by the new one; the old value's OnDestroy hook therefore
// runs after, not before, the new constructor. When no constructor
// matches, the live value is left untouched.
func (f *Factory[Base, K]) Emplace(key K, args ...any) (*Base, bool) {
	index := f.mph.Lookup(key)
	if index < 0 || index >= len(f.bindings) {
		return nil, false
	}
	b := &f.bindings[index]
	if b.key != key {
		return nil, false
	}

	for _, c := range b.ctors {
		result, ok := tryCall(c.fn, args)
		if !ok {
			continue
		}
		value, ok := result.(Base)
		if !ok {
			continue
		}
		typeset.SetFlagType(f.everBuilt, c.outType)
		return f.cells[index].Replace(value), true
	}
	return nil, false
}

// EverConstructed reports whether a value of derived type T has ever been
// constructed by f, across all Emplace calls for any key — not reset by
// Reset, and not limited to the currently live value. It panics if T is
// not the declared return type of any constructor registered with f.
//
// Go has no generic methods, so — exactly as typeset.Test is a free
// function rather than a method on typeset.Set — EverConstructed is a
// free function rather than a method on Factory, taking f explicitly.
func EverConstructed[T any, Base any, K bits.Unsigned](f *Factory[Base, K]) bool {
	return typeset.Test[T](f.everBuilt)
}

// Get returns the currently live value for key without constructing
// anything. The second result is false if key is unregistered or has no
// live value.
func (f *Factory[Base, K]) Get(key K) (*Base, bool) {
	index := f.mph.Lookup(key)
	if index < 0 || index >= len(f.bindings) {
		return nil, false
	}
	if f.bindings[index].key != key {
		return nil, false
	}
	v := f.cells[index].Get()
	return v, v != nil
}

// Reset destroys the live value for key, if any. It is a no-op for an
// unregistered key.
func (f *Factory[Base, K]) Reset(key K) {
	index := f.mph.Lookup(key)
	if index < 0 || index >= len(f.bindings) || f.bindings[index].key != key {
		return
	}
	f.cells[index].Destroy()
}

// Size returns the number of distinct keys this Factory was built from.
func (f *Factory[Base, K]) Size() int { return len(f.bindings) }

// tryCall attempts to invoke fn with args, mirroring
// try_emplace_if_constructible's SFINAE skip: a mismatch in argument
// count or type is reported as (_, false), never a panic, so Emplace can
// safely probe a constructor that does not match and move on to the next
// overload.
func tryCall(fn reflect.Value, args []any) (result any, ok bool) {
	t := fn.Type()
	if t.IsVariadic() {
		if len(args) < t.NumIn()-1 {
			return nil, false
		}
	} else if len(args) != t.NumIn() {
		return nil, false
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		av := reflect.ValueOf(a)
		var want reflect.Type
		if t.IsVariadic() && i >= t.NumIn()-1 {
			want = t.In(t.NumIn() - 1).Elem()
		} else {
			want = t.In(i)
		}
		if !av.IsValid() || !av.Type().AssignableTo(want) {
			return nil, false
		}
		in[i] = av
	}

	defer func() {
		if recover() != nil {
			ok = false
			result = nil
		}
	}()
	out := fn.Call(in)
	return out[0].Interface(), true
}
