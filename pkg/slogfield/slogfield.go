// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package slogfield provides the slog attributes logged while
// configuration is being resolved, so every component names them the same.
package slogfield

import (
	"log/slog"
	"time"
)

// Error returns an slog.Attr for an error.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// String returns an slog.Attr for a string.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Strings returns an slog.Attr for a slice of strings.
func Strings(key string, values []string) slog.Attr {
	return slog.Any(key, values)
}

// Int returns an slog.Attr for an int.
func Int(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Uint32 returns an slog.Attr for a uint32.
func Uint32(key string, n uint32) slog.Attr {
	return slog.Uint64(key, uint64(n))
}

// Duration returns an slog.Attr for a time.Duration.
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// Phase names the resolution phase a record was emitted from.
func Phase(name string) slog.Attr {
	return slog.String("phase", name)
}

// Source groups the kind and location of a configuration source.
func Source(kind, location string) slog.Attr {
	return slog.Group(
		"source",
		slog.String("kind", kind),
		slog.String("location", location),
	)
}

// URL returns an slog.Attr for a request address.
func URL(u string) slog.Attr {
	return slog.String("url", u)
}

// StatusCode returns an slog.Attr for an HTTP response status code.
func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// Directives returns an slog.Attr for requested meta directives.
func Directives(names []string) slog.Attr {
	return slog.Any("directives", names)
}
