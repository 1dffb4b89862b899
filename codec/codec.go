// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package codec turns configuration documents into sparse updaters and
// renders configuration values back into documents.
//
// Decoders never produce a whole configuration value. Every field the
// document mentions becomes a write through the field's accessor and every
// field it leaves out is untouched, so documents can be layered on top of
// one another.
package codec

import (
	"github.com/z5labs/strata/update"
)

// Decoder parses a document into a sparse [update.Updater].
type Decoder[T any] interface {
	Decode(b []byte) (update.Updater[T], error)
}

// DecoderFunc is a func implementation of the [Decoder] interface.
type DecoderFunc[T any] func([]byte) (update.Updater[T], error)

// Decode implements the [Decoder] interface.
func (f DecoderFunc[T]) Decode(b []byte) (update.Updater[T], error) {
	return f(b)
}

// Selector picks the [Decoder] for a document based on where it was read from.
type Selector[T any] interface {
	DecoderFor(location string) Decoder[T]
}

// Encoder renders a configuration value as a document.
type Encoder[T any] interface {
	Encode(cfg T) ([]byte, error)
}

// EncoderFunc is a func implementation of the [Encoder] interface.
type EncoderFunc[T any] func(T) ([]byte, error)

// Encode implements the [Encoder] interface.
func (f EncoderFunc[T]) Encode(cfg T) ([]byte, error) {
	return f(cfg)
}

// Option configures the decoders returned by [YAML], [Format] and [Auto].
type Option func(*decodeOptions)

type decodeOptions struct {
	strict bool
}

// Strict rejects documents containing keys no schema field covers.
func Strict() Option {
	return func(do *decodeOptions) {
		do.strict = true
	}
}

func newDecodeOptions(opts []Option) decodeOptions {
	var do decodeOptions
	for _, opt := range opts {
		opt(&do)
	}
	return do
}
