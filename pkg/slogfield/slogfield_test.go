// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package slogfield

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSource(t *testing.T) {
	t.Run("will group kind and location", func(t *testing.T) {
		attr := Source("file", "/etc/app.yaml")

		if !assert.Equal(t, "source", attr.Key) {
			return
		}
		if !assert.Equal(t, slog.KindGroup, attr.Value.Kind()) {
			return
		}

		group := attr.Value.Group()
		if !assert.Len(t, group, 2) {
			return
		}
		if !assert.Equal(t, "file", group[0].Value.String()) {
			return
		}
		if !assert.Equal(t, "/etc/app.yaml", group[1].Value.String()) {
			return
		}
	})
}

func TestAttrs(t *testing.T) {
	testCases := []struct {
		name string
		attr slog.Attr
		key  string
		kind slog.Kind
	}{
		{name: "Error", attr: Error(errors.New("x")), key: "error", kind: slog.KindAny},
		{name: "Phase", attr: Phase("parsing"), key: "phase", kind: slog.KindString},
		{name: "URL", attr: URL("https://example.com"), key: "url", kind: slog.KindString},
		{name: "StatusCode", attr: StatusCode(200), key: "status_code", kind: slog.KindInt64},
		{name: "Uint32", attr: Uint32("n", 3), key: "n", kind: slog.KindUint64},
		{name: "Duration", attr: Duration("latency", time.Second), key: "latency", kind: slog.KindDuration},
		{name: "Directives", attr: Directives([]string{"help"}), key: "directives", kind: slog.KindAny},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if !assert.Equal(t, testCase.key, testCase.attr.Key) {
				return
			}
			if !assert.Equal(t, testCase.kind, testCase.attr.Value.Kind()) {
				return
			}
		})
	}
}
