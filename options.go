// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/z5labs/strata/internal/maskslog"
	"github.com/z5labs/strata/source"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a resolution pass.
type Option func(*options)

type options struct {
	reader        source.Reader
	logHandler    slog.Handler
	tp            trace.TracerProvider
	stdout        io.Writer
	stderr        io.Writer
	remoteTimeout time.Duration
}

// WithReader replaces the reader of configuration sources.
func WithReader(r source.Reader) Option {
	return func(o *options) {
		o.reader = r
	}
}

// WithLogHandler sets the handler a resolution pass logs to. Nothing is
// logged by default.
func WithLogHandler(h slog.Handler) Option {
	return func(o *options) {
		o.logHandler = h
	}
}

// WithTracerProvider sets the provider of the resolution spans. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tp = tp
	}
}

// WithOutput sets where directive output and errors are written.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// WithRemoteTimeout bounds each remote fetch made by the default reader.
func WithRemoteTimeout(d time.Duration) Option {
	return func(o *options) {
		o.remoteTimeout = d
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logHandler:    slog.DiscardHandler,
		stdout:        os.Stdout,
		stderr:        os.Stderr,
		remoteTimeout: source.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logHandler = maskslog.NewHandler(
		o.logHandler,
		maskslog.Attr("location", maskslog.String(source.RedactURL)),
		maskslog.Attr("url", maskslog.String(source.RedactURL)),
	)
	if o.tp == nil {
		o.tp = otel.GetTracerProvider()
	}
	if o.reader == nil {
		o.reader = source.NewReader(
			source.WithTimeout(o.remoteTimeout),
			source.WithLogHandler(o.logHandler),
		)
	}
	return o
}
