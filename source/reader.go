// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/z5labs/strata/pkg/slogfield"

	"github.com/spf13/afero"
)

// DefaultTimeout bounds every remote fetch unless overridden with [WithTimeout].
const DefaultTimeout = 30 * time.Second

// Reader returns the raw bytes of the document a [Source] names.
type Reader interface {
	Read(ctx context.Context, src Source) ([]byte, error)
}

// ReaderFunc is a func implementation of the [Reader] interface.
type ReaderFunc func(context.Context, Source) ([]byte, error)

// Read implements the [Reader] interface.
func (f ReaderFunc) Read(ctx context.Context, src Source) ([]byte, error) {
	return f(ctx, src)
}

// Fetcher retrieves a remote document with GET semantics.
type Fetcher interface {
	Fetch(ctx context.Context, address string) ([]byte, error)
}

// FetcherFunc is a func implementation of the [Fetcher] interface.
type FetcherFunc func(context.Context, string) ([]byte, error)

// Fetch implements the [Fetcher] interface.
func (f FetcherFunc) Fetch(ctx context.Context, address string) ([]byte, error) {
	return f(ctx, address)
}

// Option configures the [Router] returned by [NewReader].
type Option func(*readerOptions)

type readerOptions struct {
	fs         afero.Fs
	fetcher    Fetcher
	timeout    time.Duration
	logHandler slog.Handler
}

// WithFs sets the file system local sources are read from.
func WithFs(fsys afero.Fs) Option {
	return func(ro *readerOptions) {
		ro.fs = fsys
	}
}

// WithFetcher replaces the fetcher used for remote sources.
func WithFetcher(f Fetcher) Option {
	return func(ro *readerOptions) {
		ro.fetcher = f
	}
}

// WithTimeout bounds each remote fetch. A non-positive duration disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(ro *readerOptions) {
		ro.timeout = d
	}
}

// WithLogHandler sets the handler reads are logged to.
func WithLogHandler(h slog.Handler) Option {
	return func(ro *readerOptions) {
		ro.logHandler = h
	}
}

// Router is a [Reader] which reads local files itself and delegates
// remote addresses to a [Fetcher].
type Router struct {
	log     *slog.Logger
	files   *Files
	fetcher Fetcher
	timeout time.Duration
}

// NewReader returns a Router. Without options it reads from the OS file
// system and fetches remote documents over HTTP, or fails them with
// [ErrRemoteDisabled] when built with the strata_noremote tag.
func NewReader(opts ...Option) *Router {
	ro := &readerOptions{
		timeout:    DefaultTimeout,
		logHandler: slog.DiscardHandler,
	}
	for _, opt := range opts {
		opt(ro)
	}
	if ro.fetcher == nil {
		ro.fetcher = defaultFetcher(ro.logHandler)
	}

	return &Router{
		log:     slog.New(ro.logHandler),
		files:   NewFiles(ro.fs),
		fetcher: ro.fetcher,
		timeout: ro.timeout,
	}
}

// Read implements the [Reader] interface.
func (r *Router) Read(ctx context.Context, src Source) ([]byte, error) {
	attr := slogfield.Source(src.Kind().String(), src.Redacted())

	var (
		b   []byte
		err error
	)
	switch src.Kind() {
	case LocalFile:
		b, err = r.files.ReadFile(src.Location())
	case RemoteAddress:
		b, err = r.fetch(ctx, src.Location())
	default:
		err = ErrUnknownKind
	}
	if err != nil {
		r.log.ErrorContext(ctx, "failed to read config source", attr, slogfield.Error(err))
		return nil, err
	}

	r.log.DebugContext(ctx, "read config source", attr, slogfield.Int("bytes", len(b)))
	return b, nil
}

func (r *Router) fetch(ctx context.Context, address string) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	b, err := r.fetcher.Fetch(ctx, address)
	if err == nil {
		return b, nil
	}

	var ffe FetchFailedError
	if errors.As(err, &ffe) {
		return nil, err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, FetchFailedError{Address: address, Detail: "timed out", Cause: err}
	}
	return nil, FetchFailedError{Address: address, Detail: "fetch failed", Cause: err}
}
