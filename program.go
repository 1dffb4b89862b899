// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"fmt"
	"reflect"

	"github.com/z5labs/strata/cli"
	"github.com/z5labs/strata/codec"
	"github.com/z5labs/strata/schema"
	"github.com/z5labs/strata/source"
	"github.com/z5labs/strata/validate"
)

// Binder binds a program's command line.
type Binder[T any] interface {
	Bind(args []string) (cli.Binding[T], error)

	// Message returns the text emitted for a terminal directive.
	Message(d cli.Directive) string
}

// ProgramInfo binds together everything needed to resolve the
// configuration of one program. Build it with [NewProgramInfo].
type ProgramInfo[T any] struct {
	Title   string
	Default T

	Binder  Binder[T]
	Decoder codec.Decoder[T]
	Encoder codec.Encoder[T]

	// Sources are read before any --config-file source.
	Sources []source.Source

	// Validator may be nil, which accepts every configuration.
	Validator validate.Validator[T]
}

// ProgramOption configures the [ProgramInfo] built by [NewProgramInfo].
type ProgramOption func(*programOptions)

type programOptions struct {
	sources      []source.Source
	build        *cli.BuildInfo
	strict       bool
	templates    bool
	templateOpts []codec.TemplateOption
	showSecrets  bool

	binder    any
	decoder   any
	encoder   any
	validator any
}

// Sources sets the built-in source locations, read in order before any
// --config-file source. Locations are classified with [source.Parse].
func Sources(locations ...string) ProgramOption {
	return func(po *programOptions) {
		for _, loc := range locations {
			po.sources = append(po.sources, source.Parse(loc))
		}
	}
}

// Build supplies package and build metadata, enabling the --version,
// --info, --long-info and --license flags.
func Build(bi cli.BuildInfo) ProgramOption {
	return func(po *programOptions) {
		po.build = &bi
	}
}

// Strict rejects documents containing keys which belong to no field.
func Strict() ProgramOption {
	return func(po *programOptions) {
		po.strict = true
	}
}

// Templates renders every document as a text/template before decoding it.
func Templates(opts ...codec.TemplateOption) ProgramOption {
	return func(po *programOptions) {
		po.templates = true
		po.templateOpts = append(po.templateOpts, opts...)
	}
}

// ShowSecrets prints secret fields in clear text for --print-config.
func ShowSecrets() ProgramOption {
	return func(po *programOptions) {
		po.showSecrets = true
	}
}

// Validate sets the validator run on the merged configuration.
func Validate[T any](v validate.Validator[T]) ProgramOption {
	return func(po *programOptions) {
		po.validator = v
	}
}

// WithBinder replaces the command-line binder derived from the schema.
func WithBinder[T any](b Binder[T]) ProgramOption {
	return func(po *programOptions) {
		po.binder = b
	}
}

// WithDecoder replaces the document decoder derived from the schema.
func WithDecoder[T any](d codec.Decoder[T]) ProgramOption {
	return func(po *programOptions) {
		po.decoder = d
	}
}

// WithEncoder replaces the encoder used for --print-config.
func WithEncoder[T any](e codec.Encoder[T]) ProgramOption {
	return func(po *programOptions) {
		po.encoder = e
	}
}

// OptionTypeError occurs when an option supplies a collaborator built
// for a different configuration type.
type OptionTypeError struct {
	Option string
	Want   reflect.Type
	Got    reflect.Type
}

// Error implements the error interface.
func (e OptionTypeError) Error() string {
	return fmt.Sprintf("%s option is for %s, not %s", e.Option, e.Got, e.Want)
}

// NewProgramInfo returns the ProgramInfo of a program titled title whose
// configuration starts out as def. Documents and flags are bound to the
// fields of s unless replaced with [WithDecoder] or [WithBinder].
func NewProgramInfo[T any](title string, def T, s schema.Schema[T], opts ...ProgramOption) (ProgramInfo[T], error) {
	po := &programOptions{}
	for _, opt := range opts {
		opt(po)
	}

	info := ProgramInfo[T]{
		Title:   title,
		Default: def,
		Sources: po.sources,
	}

	var err error
	info.Binder, err = collaborator(po.binder, "binder", func() (Binder[T], error) {
		bopts := []cli.Option[T]{cli.WithDefaults(def)}
		if po.build != nil {
			bopts = append(bopts, cli.WithBuildInfo[T](*po.build))
		}
		return cli.NewBinder(title, s, bopts...)
	})
	if err != nil {
		return info, err
	}

	info.Decoder, err = collaborator(po.decoder, "decoder", func() (codec.Decoder[T], error) {
		var copts []codec.Option
		if po.strict {
			copts = append(copts, codec.Strict())
		}
		return codec.Auto(s, copts...), nil
	})
	if err != nil {
		return info, err
	}
	if po.templates {
		info.Decoder = codec.Template(info.Decoder, po.templateOpts...)
	}

	info.Encoder, err = collaborator(po.encoder, "encoder", func() (codec.Encoder[T], error) {
		var eopts []codec.EncodeOption
		if !po.showSecrets {
			eopts = append(eopts, codec.MaskSecrets())
		}
		return codec.NewYAMLEncoder(s, eopts...), nil
	})
	if err != nil {
		return info, err
	}

	info.Validator, err = collaborator(po.validator, "validator", func() (validate.Validator[T], error) {
		return nil, nil
	})
	return info, err
}

// MustProgramInfo is like [NewProgramInfo] but panics on error.
func MustProgramInfo[T any](title string, def T, s schema.Schema[T], opts ...ProgramOption) ProgramInfo[T] {
	info, err := NewProgramInfo(title, def, s, opts...)
	if err != nil {
		panic(err)
	}
	return info
}

func collaborator[C any](given any, name string, fallback func() (C, error)) (C, error) {
	if given == nil {
		return fallback()
	}
	c, ok := given.(C)
	if !ok {
		var zero C
		return zero, OptionTypeError{
			Option: name,
			Want:   reflect.TypeOf((*C)(nil)).Elem(),
			Got:    reflect.TypeOf(given),
		}
	}
	return c, nil
}
