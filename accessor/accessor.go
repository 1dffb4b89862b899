// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package accessor provides composable, strongly typed read/write paths
// into configuration values.
//
// An [Accessor] addresses exactly one field of a value, possibly nested.
// Writes never mutate the value they are given; they return an updated copy.
// Every Accessor obeys two laws:
//
//	a.Set(s, a.Get(s)) == s
//	a.Get(a.Set(s, v)) == v
//
// Accessors into sub-records compose with [Compose]:
//
//	type Auth struct{ User string }
//	type Config struct{ Auth Auth }
//
//	auth := accessor.New("auth",
//		func(c Config) Auth { return c.Auth },
//		func(c Config, a Auth) Config { c.Auth = a; return c },
//	)
//	user := accessor.New("user",
//		func(a Auth) string { return a.User },
//		func(a Auth, u string) Auth { a.User = u; return a },
//	)
//	authUser := accessor.Compose(auth, user) // named "auth.user"
package accessor

import "strings"

// Separator joins the names of composed accessors.
const Separator = "."

// Accessor is a named (get, set) pair addressing a field of type A
// within a value of type S.
type Accessor[S, A any] struct {
	name string
	get  func(S) A
	set  func(S, A) S
}

// New returns an Accessor with the given name. The set func must return
// the updated value rather than mutate its argument.
//
// New panics if either get or set is nil.
func New[S, A any](name string, get func(S) A, set func(S, A) S) Accessor[S, A] {
	if get == nil || set == nil {
		panic("accessor: get and set must both be non-nil for " + name)
	}
	return Accessor[S, A]{
		name: name,
		get:  get,
		set:  set,
	}
}

// Identity returns the Accessor which addresses the whole value.
// It has an empty name and is a unit for [Compose].
func Identity[S any]() Accessor[S, S] {
	return Accessor[S, S]{
		get: func(s S) S { return s },
		set: func(_ S, v S) S { return v },
	}
}

// Name returns the dotted name of the addressed field.
func (a Accessor[S, A]) Name() string {
	return a.name
}

// Path returns the name split into its segments.
func (a Accessor[S, A]) Path() []string {
	if a.name == "" {
		return nil
	}
	return strings.Split(a.name, Separator)
}

// Get reads the addressed field from s.
func (a Accessor[S, A]) Get(s S) A {
	return a.get(s)
}

// Set returns a copy of s with the addressed field replaced by v.
func (a Accessor[S, A]) Set(s S, v A) S {
	return a.set(s, v)
}

// Modify returns a copy of s with f applied to the addressed field.
func (a Accessor[S, A]) Modify(s S, f func(A) A) S {
	return a.set(s, f(a.get(s)))
}

// Compose combines an accessor into a sub-record of type B with an
// accessor inside B, yielding an accessor of the nested field.
func Compose[S, B, A any](outer Accessor[S, B], inner Accessor[B, A]) Accessor[S, A] {
	return Accessor[S, A]{
		name: join(outer.name, inner.name),
		get: func(s S) A {
			return inner.get(outer.get(s))
		},
		set: func(s S, v A) S {
			return outer.set(s, inner.set(outer.get(s), v))
		},
	}
}

func join(outer, inner string) string {
	switch {
	case outer == "":
		return inner
	case inner == "":
		return outer
	default:
		return outer + Separator + inner
	}
}
