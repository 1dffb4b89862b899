// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package maskslog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	Message string `json:"msg"`
	Secret  string `json:"secret"`
	Source  struct {
		Location string `json:"location"`
	} `json:"source"`
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) record {
	t.Helper()

	var r record
	assert.Nil(t, json.Unmarshal(buf.Bytes(), &r))
	return r
}

func upper(a slog.Attr) slog.Attr {
	return String(strings.ToUpper)(a)
}

func TestHandler_Handle(t *testing.T) {
	t.Run("will not mask attrs", func(t *testing.T) {
		t.Run("if no maskers are registered", func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil)))
			logger.Info("hello world", slog.String("secret", "value"))

			r := decodeRecord(t, &buf)
			if !assert.Equal(t, "hello world", r.Message) {
				return
			}
			if !assert.Equal(t, "value", r.Secret) {
				return
			}
		})

		t.Run("if the attr key does not match a masker", func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil), Attr("random", upper)))
			logger.Info("hello world", slog.String("secret", "value"))

			r := decodeRecord(t, &buf)
			if !assert.Equal(t, "value", r.Secret) {
				return
			}
		})
	})

	t.Run("will mask attrs", func(t *testing.T) {
		t.Run("if the attr key matches a masker", func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil), Attr("secret", upper)))
			logger.Info("hello world", slog.String("secret", "value"))

			r := decodeRecord(t, &buf)
			if !assert.Equal(t, "VALUE", r.Secret) {
				return
			}
		})

		t.Run("if the attr is nested in a group", func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil), Attr("location", upper)))
			logger.Info("hello world", slog.Group("source", slog.String("location", "a.yaml")))

			r := decodeRecord(t, &buf)
			if !assert.Equal(t, "A.YAML", r.Source.Location) {
				return
			}
		})
	})
}

func TestHandler_WithAttrs(t *testing.T) {
	t.Run("will mask attrs", func(t *testing.T) {
		t.Run("if they are attached to the handler", func(t *testing.T) {
			var buf bytes.Buffer
			h := NewHandler(slog.NewJSONHandler(&buf, nil), Attr("secret", upper))
			logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("secret", "value")}))
			logger.Info("hello world")

			r := decodeRecord(t, &buf)
			if !assert.Equal(t, "VALUE", r.Secret) {
				return
			}
		})
	})
}

func TestString(t *testing.T) {
	t.Run("will leave the attr untouched", func(t *testing.T) {
		t.Run("if the value is not a string", func(t *testing.T) {
			a := String(strings.ToUpper)(slog.Int("n", 1))
			if !assert.Equal(t, int64(1), a.Value.Int64()) {
				return
			}
		})
	})
}
