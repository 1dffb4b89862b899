// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package codec

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"github.com/z5labs/strata/schema"
	"github.com/z5labs/strata/update"

	"github.com/spf13/viper"
)

// FormatDecoder decodes documents in any format viper can read.
// Keys are matched case-insensitively since viper folds them to lower case.
type FormatDecoder[T any] struct {
	format string
	tree   tree[T]
}

// Format returns a [Decoder] for documents of the given format, e.g.
// "toml", "hcl", "ini", "properties" or "dotenv".
func Format[T any](s schema.Schema[T], format string, opts ...Option) *FormatDecoder[T] {
	do := newDecodeOptions(opts)
	return &FormatDecoder[T]{
		format: format,
		tree:   tree[T]{schema: s, strict: do.strict, fold: true},
	}
}

// Decode implements the [Decoder] interface.
func (d *FormatDecoder[T]) Decode(b []byte) (update.Updater[T], error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return update.Identity[T](), nil
	}

	v := viper.New()
	v.SetConfigType(d.format)
	err := v.ReadConfig(bytes.NewReader(b))
	if err != nil {
		return nil, MalformedError{Format: d.format, Cause: err}
	}
	return d.tree.updater(v.AllSettings())
}

// Mux selects a [Decoder] by the extension of a document's location.
type Mux[T any] struct {
	fallback Decoder[T]
	byExt    map[string]Decoder[T]
}

// NewMux returns a Mux which uses fallback for unregistered extensions.
func NewMux[T any](fallback Decoder[T]) *Mux[T] {
	return &Mux[T]{
		fallback: fallback,
		byExt:    make(map[string]Decoder[T]),
	}
}

// Handle registers d for locations ending in ext, e.g. ".toml".
func (m *Mux[T]) Handle(ext string, d Decoder[T]) {
	m.byExt[strings.ToLower(ext)] = d
}

// Decode implements the [Decoder] interface using the fallback decoder.
func (m *Mux[T]) Decode(b []byte) (update.Updater[T], error) {
	return m.fallback.Decode(b)
}

// DecoderFor implements the [Selector] interface. Remote addresses are
// matched on their path, ignoring any query.
func (m *Mux[T]) DecoderFor(location string) Decoder[T] {
	p := location
	if u, err := url.Parse(location); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	}
	d, ok := m.byExt[strings.ToLower(path.Ext(p))]
	if !ok {
		return m.fallback
	}
	return d
}

var formatExts = []struct {
	ext    string
	format string
}{
	{ext: ".toml", format: "toml"},
	{ext: ".hcl", format: "hcl"},
	{ext: ".ini", format: "ini"},
	{ext: ".properties", format: "properties"},
	{ext: ".props", format: "properties"},
	{ext: ".env", format: "dotenv"},
}

// Auto returns a [Mux] which decodes TOML, HCL, INI, properties and dotenv
// documents by their extension and everything else, JSON included, as YAML.
func Auto[T any](s schema.Schema[T], opts ...Option) *Mux[T] {
	m := NewMux[T](YAML(s, opts...))
	for _, fe := range formatExts {
		m.Handle(fe.ext, Format(s, fe.format, opts...))
	}
	return m
}
