// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package maskslog hides sensitive attribute values before records reach
// another slog.Handler.
package maskslog

import (
	"context"
	"log/slog"
)

// Masker rewrites an attribute whose key it was registered for.
type Masker func(slog.Attr) slog.Attr

// Option helps configure the Handler.
type Option func(map[string]Masker)

// Attr registers m for every attribute keyed key, including attributes
// nested in groups.
func Attr(key string, m Masker) Option {
	return func(ms map[string]Masker) {
		ms[key] = m
	}
}

// String returns a Masker which applies f to string values and leaves
// every other kind of value untouched.
func String(f func(string) string) Masker {
	return func(a slog.Attr) slog.Attr {
		if a.Value.Kind() != slog.KindString {
			return a
		}
		return slog.String(a.Key, f(a.Value.String()))
	}
}

// Handler is an slog.Handler.
type Handler struct {
	base    slog.Handler
	maskers map[string]Masker
}

// NewHandler returns a new Handler.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	ms := make(map[string]Masker)
	for _, opt := range opts {
		opt(ms)
	}
	return &Handler{base: h, maskers: ms}
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.base.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.maskers) == 0 || record.NumAttrs() == 0 {
		return h.base.Handle(ctx, record)
	}

	attrs := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.mask(a))
		return true
	})

	r := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	r.AddAttrs(attrs...)
	return h.base.Handle(ctx, r)
}

func (h *Handler) mask(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]any, len(group))
		for i, ga := range group {
			masked[i] = h.mask(ga)
		}
		return slog.Group(a.Key, masked...)
	}

	m, ok := h.maskers[a.Key]
	if !ok {
		return a
	}
	return m(a)
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return &Handler{base: h.base.WithAttrs(masked), maskers: h.maskers}
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{base: h.base.WithGroup(name), maskers: h.maskers}
}
