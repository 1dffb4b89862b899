// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schema describes which fields of a configuration type can be
// set from documents and command-line flags.
//
// A [Schema] is an ordered list of [Field]s, each backed by an
// [accessor.Accessor]. Decoders and command-line binders consult the schema
// to turn partial input into sparse [update.Updater]s: a field absent from
// the input contributes nothing.
package schema

import (
	"fmt"
	"strings"

	"github.com/z5labs/strata/accessor"
	"github.com/z5labs/strata/update"
)

// Schema is an ordered set of fields of the configuration type T.
type Schema[T any] []Field[T]

// DuplicateKeyError occurs when two fields share the same document key.
type DuplicateKeyError struct {
	Key string
}

// Error implements the error interface.
func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate config key: %s", e.Key)
}

// DuplicateFlagError occurs when two fields claim the same flag name or shorthand.
type DuplicateFlagError struct {
	Flag string
}

// Error implements the error interface.
func (e DuplicateFlagError) Error() string {
	return fmt.Sprintf("duplicate flag: %s", e.Flag)
}

// New returns a Schema of the given fields after checking that no two
// fields share a key, flag name or flag shorthand.
func New[T any](fields ...Field[T]) (Schema[T], error) {
	keys := make(map[string]struct{}, len(fields))
	flags := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, exists := keys[f.Key()]; exists {
			return nil, DuplicateKeyError{Key: f.Key()}
		}
		keys[f.Key()] = struct{}{}

		spec, ok := f.Flag()
		if !ok {
			continue
		}
		names := []string{"--" + spec.Name}
		if spec.Shorthand != "" {
			names = append(names, "-"+spec.Shorthand)
		}
		for _, name := range names {
			if _, exists := flags[name]; exists {
				return nil, DuplicateFlagError{Flag: name}
			}
			flags[name] = struct{}{}
		}
	}
	return Schema[T](fields), nil
}

// MustNew is like [New] but panics on error.
func MustNew[T any](fields ...Field[T]) Schema[T] {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup returns the field registered under key.
func (s Schema[T]) Lookup(key string) (Field[T], bool) {
	for _, f := range s {
		if f.Key() == key {
			return f, true
		}
	}
	return nil, false
}

// Covers reports whether path addresses a field (or lies inside one) and
// whether some field lives below path.
func (s Schema[T]) Covers(path []string) (field bool, parent bool) {
	return s.covers(path, func(a, b string) bool { return a == b })
}

// CoversFold is like [Schema.Covers] but compares path segments
// case-insensitively.
func (s Schema[T]) CoversFold(path []string) (field bool, parent bool) {
	return s.covers(path, strings.EqualFold)
}

func (s Schema[T]) covers(path []string, eq func(a, b string) bool) (field bool, parent bool) {
	for _, f := range s {
		fp := f.Path()
		switch {
		case hasPrefix(path, fp, eq):
			field = true
		case hasPrefix(fp, path, eq):
			parent = true
		}
	}
	return field, parent
}

func hasPrefix(path, prefix []string, eq func(a, b string) bool) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if !eq(path[i], prefix[i]) {
			return false
		}
	}
	return true
}

// Nest lifts the fields of a sub-record schema into the enclosing type
// through outer. Keys and derived flag names are prefixed with outer's name.
func Nest[T, B any](outer accessor.Accessor[T, B], fields Schema[B]) []Field[T] {
	out := make([]Field[T], 0, len(fields))
	for _, f := range fields {
		out = append(out, nested[T, B]{outer: outer, inner: f})
	}
	return out
}

type nested[T, B any] struct {
	outer accessor.Accessor[T, B]
	inner Field[B]
}

func (n nested[T, B]) Key() string {
	return n.outer.Name() + accessor.Separator + n.inner.Key()
}

func (n nested[T, B]) Path() []string {
	return append(n.outer.Path(), n.inner.Path()...)
}

func (n nested[T, B]) Flag() (FlagSpec, bool) {
	spec, ok := n.inner.Flag()
	if !ok {
		return spec, false
	}
	spec.Name = FlagName(n.outer.Name()) + "-" + spec.Name
	return spec, true
}

func (n nested[T, B]) TypeName() string { return n.inner.TypeName() }
func (n nested[T, B]) IsBool() bool     { return n.inner.IsBool() }
func (n nested[T, B]) Repeatable() bool { return n.inner.Repeatable() }
func (n nested[T, B]) Secret() bool     { return n.inner.Secret() }
func (n nested[T, B]) Value(cfg T) any  { return n.inner.Value(n.outer.Get(cfg)) }

func (n nested[T, B]) Unknown(raw any) []string { return n.inner.Unknown(raw) }

func (n nested[T, B]) Decode(raw any) (update.Updater[T], error) {
	u, err := n.inner.Decode(raw)
	if err != nil {
		return nil, n.rekey(err)
	}
	return n.lift(u), nil
}

func (n nested[T, B]) Parse(text string) (update.Updater[T], error) {
	u, err := n.inner.Parse(text)
	if err != nil {
		return nil, n.rekey(err)
	}
	return n.lift(u), nil
}

func (n nested[T, B]) lift(u update.Updater[B]) update.Updater[T] {
	return update.Modify(n.outer, func(b B) B {
		return u.Apply(b)
	})
}

func (n nested[T, B]) rekey(err error) error {
	ive, ok := err.(InvalidValueError)
	if !ok {
		return err
	}
	ive.Key = n.outer.Name() + accessor.Separator + ive.Key
	return ive
}

// Paths returns the dotted keys of every field, in schema order.
func (s Schema[T]) Paths() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Key()
	}
	return keys
}

// String implements the fmt.Stringer interface.
func (s Schema[T]) String() string {
	return "schema[" + strings.Join(s.Paths(), ",") + "]"
}
