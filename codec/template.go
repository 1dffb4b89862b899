// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package codec

import (
	"bytes"
	"os"
	"text/template"

	"github.com/z5labs/strata/update"
)

// TemplateOption represents options for configuring the [TemplateDecoder].
type TemplateOption func(*templateOptions)

type templateOptions struct {
	leftDelim  string
	rightDelim string
	funcs      template.FuncMap
}

// TemplateFunc registers the given function, f, for use in the config
// template via the given name.
func TemplateFunc(name string, f any) TemplateOption {
	return func(to *templateOptions) {
		to.funcs[name] = f
	}
}

// TemplateDelims sets the action delimiters to the specified strings.
// An empty delimiter stands for the corresponding default: {{ or }}.
func TemplateDelims(left, right string) TemplateOption {
	return func(to *templateOptions) {
		to.leftDelim = left
		to.rightDelim = right
	}
}

// TemplateDecoder renders a document as a text/template before handing
// it to another [Decoder].
//
// Besides any registered functions, templates may call env, which returns
// the value of an environment variable, and default, which substitutes
// a fallback for an empty value: {{ env "HOST" | default "localhost" }}.
type TemplateDecoder[T any] struct {
	dec  Decoder[T]
	opts templateOptions
}

// Template wraps dec so documents are rendered before being decoded.
func Template[T any](dec Decoder[T], opts ...TemplateOption) *TemplateDecoder[T] {
	to := templateOptions{
		funcs: template.FuncMap{
			"env":     os.Getenv,
			"default": defaultValue,
		},
	}
	for _, opt := range opts {
		opt(&to)
	}
	return &TemplateDecoder[T]{dec: dec, opts: to}
}

func defaultValue(def, v string) string {
	if v == "" {
		return def
	}
	return v
}

// Decode implements the [Decoder] interface.
func (d *TemplateDecoder[T]) Decode(b []byte) (update.Updater[T], error) {
	rendered, err := d.render(b)
	if err != nil {
		return nil, err
	}
	return d.dec.Decode(rendered)
}

// DecoderFor implements the [Selector] interface when the wrapped decoder
// does, keeping template rendering in front of the selected decoder.
func (d *TemplateDecoder[T]) DecoderFor(location string) Decoder[T] {
	sel, ok := d.dec.(Selector[T])
	if !ok {
		return d
	}
	return &TemplateDecoder[T]{dec: sel.DecoderFor(location), opts: d.opts}
}

func (d *TemplateDecoder[T]) render(b []byte) ([]byte, error) {
	tmpl, err := template.New("config").
		Delims(d.opts.leftDelim, d.opts.rightDelim).
		Funcs(d.opts.funcs).
		Parse(string(b))
	if err != nil {
		return nil, TemplateParseError{Cause: err}
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct{}{})
	if err != nil {
		return nil, TemplateExecError{Cause: err}
	}
	return buf.Bytes(), nil
}
