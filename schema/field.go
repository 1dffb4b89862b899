// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/z5labs/strata/accessor"
	"github.com/z5labs/strata/update"
)

// FlagSpec describes the command-line flag bound to a field.
type FlagSpec struct {
	Name      string
	Shorthand string
	Usage     string
}

// Field is a single accessor-backed entry of a [Schema]. It knows how to
// turn a raw document value or a flag's text into a sparse [update.Updater]
// which writes only the field it addresses.
type Field[T any] interface {
	// Key is the dotted path of the field within a configuration document.
	Key() string
	Path() []string

	// Flag reports the command-line flag for this field, if any.
	Flag() (FlagSpec, bool)

	// TypeName is a short human readable name of the field type.
	TypeName() string
	IsBool() bool

	// Repeatable reports whether repeated flag occurrences accumulate.
	Repeatable() bool

	// Secret fields are masked when a configuration is printed.
	Secret() bool

	Decode(raw any) (update.Updater[T], error)
	Parse(text string) (update.Updater[T], error)
	Value(cfg T) any

	// Unknown lists the dotted keys of a raw document value which the
	// field's type has no place for, relative to the field. Only struct
	// typed fields can have unknown keys.
	Unknown(raw any) []string
}

// Option customizes a Field created by [Bind].
type Option func(*fieldOptions)

type fieldOptions struct {
	key       string
	flag      string
	shorthand string
	usage     string
	noFlag    bool
	secret    bool
}

// Key overrides the document key path, which defaults to the accessor name.
func Key(key string) Option {
	return func(fo *fieldOptions) {
		fo.key = key
	}
}

// Flag sets the long flag name. By default it is derived from the key by
// replacing '.' and '_' with '-', and only for flaggable field types.
func Flag(name string) Option {
	return func(fo *fieldOptions) {
		fo.flag = name
	}
}

// Shorthand sets the single letter flag alias.
func Shorthand(s string) Option {
	return func(fo *fieldOptions) {
		fo.shorthand = s
	}
}

// Usage sets the flag help text.
func Usage(s string) Option {
	return func(fo *fieldOptions) {
		fo.usage = s
	}
}

// NoFlag keeps the field out of the command line.
func NoFlag() Option {
	return func(fo *fieldOptions) {
		fo.noFlag = true
	}
}

// Secret marks the field's value as sensitive.
func Secret() Option {
	return func(fo *fieldOptions) {
		fo.secret = true
	}
}

type field[T, A any] struct {
	acc     accessor.Accessor[T, A]
	key     string
	path    []string
	flag    FlagSpec
	hasFlag bool
	secret  bool
	typ     reflect.Type
}

// Bind registers the field addressed by a.
//
// Bind panics if the resulting key is empty.
func Bind[T, A any](a accessor.Accessor[T, A], opts ...Option) Field[T] {
	fo := fieldOptions{key: a.Name()}
	for _, opt := range opts {
		opt(&fo)
	}
	if fo.key == "" {
		panic("schema: field key must not be empty")
	}

	f := &field[T, A]{
		acc:    a,
		key:    fo.key,
		path:   strings.Split(fo.key, accessor.Separator),
		secret: fo.secret,
		typ:    reflect.TypeOf((*A)(nil)).Elem(),
	}

	switch {
	case fo.noFlag:
	case fo.flag != "" || flaggable(f.typ):
		name := fo.flag
		if name == "" {
			name = FlagName(fo.key)
		}
		f.hasFlag = true
		f.flag = FlagSpec{
			Name:      name,
			Shorthand: fo.shorthand,
			Usage:     fo.usage,
		}
	}
	return f
}

// FlagName derives a flag name from a document key.
func FlagName(key string) string {
	return strings.NewReplacer(accessor.Separator, "-", "_", "-").Replace(key)
}

func (f *field[T, A]) Key() string            { return f.key }
func (f *field[T, A]) Path() []string         { return f.path }
func (f *field[T, A]) Flag() (FlagSpec, bool) { return f.flag, f.hasFlag }
func (f *field[T, A]) TypeName() string       { return typeName(f.typ) }
func (f *field[T, A]) IsBool() bool           { return f.typ.Kind() == reflect.Bool }
func (f *field[T, A]) Secret() bool           { return f.secret }
func (f *field[T, A]) Value(cfg T) any        { return f.acc.Get(cfg) }

func (f *field[T, A]) Repeatable() bool {
	return f.typ.Kind() == reflect.Slice && f.typ.Elem().Kind() != reflect.Uint8
}

// InvalidValueError occurs when a value can not be decoded into the
// field it was provided for.
type InvalidValueError struct {
	Key   string
	Cause error
}

// Error implements the error interface.
func (e InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Key, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e InvalidValueError) Unwrap() error {
	return e.Cause
}

// Decode implements the [Field] interface. Struct typed fields are merged
// so a partial sub-document leaves its sibling fields untouched; every
// other type is replaced wholesale.
func (f *field[T, A]) Decode(raw any) (update.Updater[T], error) {
	var zero A
	v, err := decode(raw, zero, false)
	if err != nil {
		return nil, InvalidValueError{Key: f.key, Cause: err}
	}
	if f.typ.Kind() != reflect.Struct || raw == nil {
		return update.Set(f.acc, v), nil
	}

	return func(cfg T) T {
		merged, err := decode(raw, f.acc.Get(cfg), false)
		if err != nil {
			// the same raw value already decoded onto the zero value above
			panic(InvalidValueError{Key: f.key, Cause: err})
		}
		return f.acc.Set(cfg, merged)
	}, nil
}

// Unknown implements the [Field] interface.
func (f *field[T, A]) Unknown(raw any) []string {
	if f.typ.Kind() != reflect.Struct || raw == nil {
		return nil
	}
	var zero A
	unused, err := unusedKeys(raw, zero)
	if err != nil {
		return nil
	}
	return unused
}

// Parse implements the [Field] interface.
func (f *field[T, A]) Parse(text string) (update.Updater[T], error) {
	var zero A
	v, err := decode(text, zero, true)
	if err != nil {
		return nil, InvalidValueError{Key: f.key, Cause: err}
	}
	return update.Set(f.acc, v), nil
}

func flaggable(t reflect.Type) bool {
	if t == durationType || reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice:
		return t.Elem().Kind() != reflect.Slice && flaggable(t.Elem())
	default:
		return false
	}
}

func typeName(t reflect.Type) string {
	switch {
	case t == durationType:
		return "duration"
	case t.Kind() == reflect.Slice:
		return typeName(t.Elem()) + "s"
	case t.Kind() == reflect.Struct && reflect.PointerTo(t).Implements(textUnmarshalerType):
		return strings.ToLower(t.Name())
	default:
		return t.Kind().String()
	}
}
