// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/z5labs/strata/cli"
	"github.com/z5labs/strata/codec"
	"github.com/z5labs/strata/internal/otelslog"
	"github.com/z5labs/strata/internal/try"
	"github.com/z5labs/strata/pkg/slogfield"
	"github.com/z5labs/strata/source"
	"github.com/z5labs/strata/update"
	"github.com/z5labs/strata/validate"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/z5labs/strata"

// Phase is a state of a resolution pass.
type Phase int

const (
	Parsing Phase = iota
	Resolving
	Merging
	Validating
	Dispatching
	Done
	Failed
)

// String implements the fmt.Stringer interface.
func (p Phase) String() string {
	switch p {
	case Parsing:
		return "parsing"
	case Resolving:
		return "resolving"
	case Merging:
		return "merging"
	case Validating:
		return "validating"
	case Dispatching:
		return "dispatching"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a successful resolution pass.
type Result[T any] struct {
	// Config is the merged and validated configuration. When a terminal
	// directive was requested it is the default value, since no source
	// was read.
	Config T

	Directives cli.Directives

	// Sources lists every source applied, in merge order.
	Sources []source.Source
}

type resolver[T any] struct {
	info   ProgramInfo[T]
	reader source.Reader
	log    *slog.Logger
	tracer trace.Tracer
}

func newResolver[T any](info ProgramInfo[T], o *options) *resolver[T] {
	return &resolver[T]{
		info:   info,
		reader: o.reader,
		log:    otelslog.New(o.logHandler),
		tracer: o.tp.Tracer(instrumentationName),
	}
}

// Resolve runs one resolution pass over args, which must not include the
// program name: the command line is bound, every source is read and
// decoded in order, the updates are merged over the default value and
// the result is validated.
//
// When a terminal directive such as --help is requested no source is read
// and the returned Result only carries the directives. Every failure,
// including a panicking collaborator, is reported as a [PhaseError].
func Resolve[T any](ctx context.Context, info ProgramInfo[T], args []string, opts ...Option) (Result[T], error) {
	o := newOptions(opts)
	return newResolver(info, o).resolve(ctx, args)
}

func (r *resolver[T]) resolve(ctx context.Context, args []string) (res Result[T], err error) {
	ctx, span := r.tracer.Start(ctx, "strata.Resolve", trace.WithAttributes(
		attribute.String("strata.program", r.info.Title),
	))
	defer span.End()
	defer func() {
		if err == nil {
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		phase := Failed
		var pe PhaseError
		if errors.As(err, &pe) {
			phase = pe.Phase()
		}
		r.log.ErrorContext(ctx, "failed to resolve configuration", slogfield.Phase(phase.String()), slogfield.Error(err))
	}()

	binding, err := r.bind(ctx, args)
	if err != nil {
		return res, err
	}
	res.Directives = binding.Directives
	res.Config = r.info.Default
	span.SetAttributes(attribute.StringSlice("strata.directives", binding.Directives.Names()))

	if binding.Directives.Terminal() {
		r.log.InfoContext(ctx, "skipping config sources for terminal directives", slogfield.Directives(binding.Directives.Names()))
		return res, nil
	}

	res.Sources = append(slices.Clone(r.info.Sources), binding.Sources...)
	us, err := r.readAll(ctx, res.Sources)
	if err != nil {
		return res, err
	}
	us = append(us, binding.Update)

	cfg, err := r.merge(ctx, us)
	if err != nil {
		return res, err
	}

	cfg, err = r.validate(ctx, cfg)
	if err != nil {
		return res, err
	}
	res.Config = cfg
	return res, nil
}

func (r *resolver[T]) bind(ctx context.Context, args []string) (cli.Binding[T], error) {
	r.log.DebugContext(ctx, "binding command line", slogfield.Phase(Parsing.String()), slogfield.Int("args", len(args)))

	binding, err := guard(func() (cli.Binding[T], error) {
		return r.info.Binder.Bind(args)
	})
	if err == nil {
		return binding, nil
	}

	pe := ParseError{Cause: err}
	var cpe cli.ParseError
	if errors.As(err, &cpe) {
		pe.Cause = cpe.Cause
		pe.Usage = cpe.Usage
	}
	return binding, pe
}

// readAll reads and decodes sources strictly in order and stops at the
// first failure.
func (r *resolver[T]) readAll(ctx context.Context, srcs []source.Source) ([]update.Updater[T], error) {
	us := make([]update.Updater[T], 0, len(srcs)+1)
	for _, src := range srcs {
		u, err := r.readSource(ctx, src)
		if err != nil {
			return nil, err
		}
		us = append(us, u)
	}
	return us, nil
}

func (r *resolver[T]) readSource(ctx context.Context, src source.Source) (_ update.Updater[T], err error) {
	ctx, span := r.tracer.Start(ctx, "strata.ReadSource", trace.WithAttributes(
		attribute.String("strata.source.kind", src.Kind().String()),
		attribute.String("strata.source.location", src.Redacted()),
	))
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	attr := slogfield.Source(src.Kind().String(), src.Redacted())
	r.log.DebugContext(ctx, "reading config source", slogfield.Phase(Resolving.String()), attr)

	b, err := guard(func() ([]byte, error) {
		return r.reader.Read(ctx, src)
	})
	if err != nil {
		return nil, ConfigSourceError{Source: src, Cause: err}
	}

	dec := decoderFor(r.info.Decoder, src)
	u, err := guard(func() (update.Updater[T], error) {
		return dec.Decode(b)
	})
	if err != nil {
		return nil, ConfigDecodeError{Source: src, Cause: err}
	}

	r.log.InfoContext(ctx, "applied config source", attr)
	return u, nil
}

func decoderFor[T any](dec codec.Decoder[T], src source.Source) codec.Decoder[T] {
	sel, ok := dec.(codec.Selector[T])
	if !ok {
		return dec
	}
	return sel.DecoderFor(src.Location())
}

func (r *resolver[T]) merge(ctx context.Context, us []update.Updater[T]) (T, error) {
	r.log.DebugContext(ctx, "merging config", slogfield.Phase(Merging.String()), slogfield.Int("updates", len(us)))

	cfg, err := guard(func() (T, error) {
		return update.Merge(r.info.Default, us...), nil
	})
	if err != nil {
		return cfg, MergeError{Cause: err}
	}
	return cfg, nil
}

func (r *resolver[T]) validate(ctx context.Context, cfg T) (T, error) {
	if r.info.Validator == nil {
		return cfg, nil
	}
	r.log.DebugContext(ctx, "validating config", slogfield.Phase(Validating.String()))

	validated, err := guard(func() (T, error) {
		return r.info.Validator.Validate(ctx, cfg)
	})
	if err != nil {
		return cfg, ValidationError{
			Messages: validate.Messages(err),
			Cause:    err,
		}
	}
	return validated, nil
}

// guard runs f, converting a panic into a [try.PanicError].
func guard[R any](f func() (R, error)) (r R, err error) {
	defer try.Recover(&err)
	return f()
}
