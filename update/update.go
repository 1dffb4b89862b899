// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package update provides sparse configuration transformations and the
// left fold which merges them over a default value.
package update

import "github.com/z5labs/strata/accessor"

// Updater transforms a configuration value. Updaters derived from partial
// documents or command-line flags only touch the fields they mention and
// are the identity on every other field.
//
// A nil Updater is the identity.
type Updater[T any] func(T) T

// Identity returns the Updater which leaves its input unchanged.
func Identity[T any]() Updater[T] {
	return func(v T) T { return v }
}

// Apply runs u on v. It is safe to call on a nil Updater.
func (u Updater[T]) Apply(v T) T {
	if u == nil {
		return v
	}
	return u(v)
}

// Then returns an Updater which applies u and then next.
func (u Updater[T]) Then(next Updater[T]) Updater[T] {
	switch {
	case u == nil:
		return next
	case next == nil:
		return u
	}
	return func(v T) T {
		return next(u(v))
	}
}

// Chain composes the given Updaters, applying them in order.
// Chain of no Updaters is the identity.
func Chain[T any](us ...Updater[T]) Updater[T] {
	var out Updater[T]
	for _, u := range us {
		out = out.Then(u)
	}
	if out == nil {
		return Identity[T]()
	}
	return out
}

// Set returns an Updater which writes v to the field addressed by a.
func Set[S, A any](a accessor.Accessor[S, A], v A) Updater[S] {
	return func(s S) S {
		return a.Set(s, v)
	}
}

// Modify returns an Updater which applies f to the field addressed by a.
func Modify[S, A any](a accessor.Accessor[S, A], f func(A) A) Updater[S] {
	return func(s S) S {
		return a.Modify(s, f)
	}
}

// Merge folds us over def from left to right. Later Updaters override
// earlier ones for any field they both touch.
func Merge[T any](def T, us ...Updater[T]) T {
	result := def
	for _, u := range us {
		result = u.Apply(result)
	}
	return result
}
