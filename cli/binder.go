// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package cli binds a program's command line to its configuration.
//
// A [Binder] recognizes a fixed set of built-in flags next to the flags of
// the configuration schema. Binding a command line yields a sparse
// [update.Updater] holding every application flag which was given, the
// ordered list of --config-file sources and the requested [Directives].
package cli

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/z5labs/strata/schema"
	"github.com/z5labs/strata/source"
	"github.com/z5labs/strata/update"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Binding is the result of binding a command line.
type Binding[T any] struct {
	// Update writes every application flag present on the command line.
	Update update.Updater[T]

	// Sources are the --config-file locations in the order given.
	Sources []source.Source

	Directives Directives
}

// Option configures a [Binder].
type Option[T any] func(*Binder[T])

// WithBuildInfo enables the --version, --info, --long-info and --license flags.
func WithBuildInfo[T any](bi BuildInfo) Option[T] {
	return func(b *Binder[T]) {
		b.build = &bi
	}
}

// WithDefaults shows the values of def as flag defaults in the usage text.
func WithDefaults[T any](def T) Option[T] {
	return func(b *Binder[T]) {
		b.defaults = &def
	}
}

// Binder binds command lines for the configuration type T.
type Binder[T any] struct {
	program  string
	schema   schema.Schema[T]
	build    *BuildInfo
	defaults *T
}

// FlagCollisionError occurs when a schema field claims the name or
// shorthand of a built-in flag.
type FlagCollisionError struct {
	Flag string
	Key  string
}

// Error implements the error interface.
func (e FlagCollisionError) Error() string {
	return fmt.Sprintf("flag %s of config field %s collides with a built-in flag", e.Flag, e.Key)
}

// NewBinder returns a Binder for the fields of s.
func NewBinder[T any](program string, s schema.Schema[T], opts ...Option[T]) (*Binder[T], error) {
	b := &Binder[T]{
		program: program,
		schema:  s,
	}
	for _, opt := range opts {
		opt(b)
	}

	reserved := make(map[string]struct{})
	for _, bf := range b.builtins() {
		reserved["--"+bf.name] = struct{}{}
		if bf.shorthand != "" {
			reserved["-"+bf.shorthand] = struct{}{}
		}
	}
	for _, f := range s {
		spec, ok := f.Flag()
		if !ok {
			continue
		}
		if _, exists := reserved["--"+spec.Name]; exists {
			return nil, FlagCollisionError{Flag: "--" + spec.Name, Key: f.Key()}
		}
		if _, exists := reserved["-"+spec.Shorthand]; spec.Shorthand != "" && exists {
			return nil, FlagCollisionError{Flag: "-" + spec.Shorthand, Key: f.Key()}
		}
	}
	return b, nil
}

// Program returns the program name shown in usage and directive messages.
func (b *Binder[T]) Program() string {
	return b.program
}

type builtin struct {
	name      string
	shorthand string
	usage     string
	directive Directive
}

func (b *Binder[T]) builtins() []builtin {
	bs := []builtin{
		{name: "config-file", shorthand: "c", usage: "read configuration from a file or URL, may be repeated"},
		{name: "print-config", shorthand: "p", usage: "print the resolved configuration and exit", directive: PrintConfig},
		{name: "help", shorthand: "h", usage: "show this help and exit", directive: ShowHelp},
	}
	if b.build == nil {
		return bs
	}
	return append(bs,
		builtin{name: "version", shorthand: "v", usage: "show the version and exit", directive: ShowVersion},
		builtin{name: "info", shorthand: "i", usage: "show build information and exit", directive: ShowInfo},
		builtin{name: "long-info", usage: "show detailed build information and exit", directive: ShowLongInfo},
		builtin{name: "license", usage: "show the license and exit", directive: ShowLicense},
	)
}

type flagSet[T any] struct {
	*pflag.FlagSet

	configFiles *[]string
	directives  map[Directive]*bool
	values      []*fieldValue[T]
}

func (b *Binder[T]) flagSet() *flagSet[T] {
	fs := &flagSet[T]{
		FlagSet:    pflag.NewFlagSet(b.program, pflag.ContinueOnError),
		directives: make(map[Directive]*bool),
	}
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	for _, bf := range b.builtins() {
		if bf.directive == 0 {
			fs.configFiles = fs.StringArrayP(bf.name, bf.shorthand, nil, bf.usage)
			continue
		}
		fs.directives[bf.directive] = fs.BoolP(bf.name, bf.shorthand, false, bf.usage)
	}

	for _, f := range b.schema {
		spec, ok := f.Flag()
		if !ok {
			continue
		}

		v := &fieldValue[T]{field: f}
		if b.defaults != nil && !f.Secret() {
			v.def = defaultText(f.Value(*b.defaults))
		}
		fs.values = append(fs.values, v)

		usage := spec.Usage
		if usage == "" {
			usage = "set " + f.Key()
		}
		flag := fs.VarPF(v, spec.Name, spec.Shorthand, usage)
		if f.IsBool() {
			flag.NoOptDefVal = "true"
		}
	}
	return fs
}

// ParseError occurs when a command line can not be bound. Usage holds the
// usage text to report alongside it.
type ParseError struct {
	Cause error
	Usage string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("failed to parse command line: %s", e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e ParseError) Unwrap() error {
	return e.Cause
}

// UnexpectedArgumentsError occurs when positional arguments are given.
type UnexpectedArgumentsError struct {
	Args []string
}

// Error implements the error interface.
func (e UnexpectedArgumentsError) Error() string {
	return fmt.Sprintf("unexpected arguments: %s", strings.Join(e.Args, " "))
}

// Bind parses args, which must not include the program name.
func (b *Binder[T]) Bind(args []string) (Binding[T], error) {
	fs := b.flagSet()
	err := fs.Parse(args)
	if err != nil {
		return Binding[T]{}, ParseError{Cause: err, Usage: b.Usage()}
	}
	if fs.NArg() > 0 {
		return Binding[T]{}, ParseError{
			Cause: UnexpectedArgumentsError{Args: fs.Args()},
			Usage: b.Usage(),
		}
	}

	var binding Binding[T]
	for _, loc := range *fs.configFiles {
		binding.Sources = append(binding.Sources, source.Parse(loc))
	}
	for d, set := range fs.directives {
		if *set {
			binding.Directives = binding.Directives.With(d)
		}
	}

	us := make([]update.Updater[T], 0, len(fs.values))
	for _, v := range fs.values {
		if v.set {
			us = append(us, v.u)
		}
	}
	binding.Update = update.Chain(us...)
	return binding, nil
}

// Usage returns the usage text listing every flag.
func (b *Binder[T]) Usage() string {
	cmd := &cobra.Command{
		Use: b.program,
		Run: func(*cobra.Command, []string) {},
	}
	cmd.Flags().AddFlagSet(b.flagSet().FlagSet)
	return cmd.UsageString()
}

// Message returns the text emitted for the directive d. PrintConfig has
// no message of its own.
func (b *Binder[T]) Message(d Directive) string {
	bi := BuildInfo{}
	if b.build != nil {
		bi = *b.build
	}

	switch d {
	case ShowHelp:
		return b.Usage()
	case ShowVersion:
		return bi.VersionMessage(b.program)
	case ShowInfo:
		return bi.InfoMessage(b.program)
	case ShowLongInfo:
		return bi.LongInfoMessage(b.program)
	case ShowLicense:
		return bi.LicenseMessage(b.program)
	default:
		return ""
	}
}

// fieldValue implements pflag.Value for a schema field. Values are checked
// as they are set so malformed input fails the parse.
type fieldValue[T any] struct {
	field schema.Field[T]
	def   string
	texts []string
	u     update.Updater[T]
	set   bool
}

func (v *fieldValue[T]) String() string {
	if !v.set {
		return v.def
	}
	return strings.Join(v.texts, ",")
}

func (v *fieldValue[T]) Set(s string) error {
	texts := []string{s}
	if v.field.Repeatable() {
		texts = append(slices.Clone(v.texts), s)
	}

	u, err := v.field.Parse(strings.Join(texts, ","))
	if err != nil {
		return err
	}
	v.texts = texts
	v.u = u
	v.set = true
	return nil
}

func (v *fieldValue[T]) Type() string {
	return v.field.TypeName()
}

func defaultText(value any) string {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.IsZero() {
		return ""
	}

	switch x := value.(type) {
	case fmt.Stringer:
		return x.String()
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return ""
		}
		return string(b)
	}

	if rv.Kind() == reflect.Slice {
		parts := make([]string, rv.Len())
		for i := range rv.Len() {
			parts[i] = defaultText(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(value)
}
