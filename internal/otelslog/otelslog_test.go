// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelslog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type record struct {
	Message string `json:"msg"`
	OTel    struct {
		TraceID string `json:"trace_id"`
		SpanID  string `json:"span_id"`
	} `json:"otel"`
}

func TestHandler_Handle(t *testing.T) {
	t.Run("will not add trace id and span id", func(t *testing.T) {
		t.Run("if there is no span in the context", func(t *testing.T) {
			var buf bytes.Buffer
			log := New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))

			log.InfoContext(context.Background(), "resolved")

			var r record
			err := json.Unmarshal(buf.Bytes(), &r)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "resolved", r.Message) {
				return
			}
			if !assert.Empty(t, r.OTel.TraceID) {
				return
			}
		})
	})

	t.Run("will add trace id and span id", func(t *testing.T) {
		t.Run("if the span context is valid", func(t *testing.T) {
			var buf bytes.Buffer
			log := New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))

			tp := sdktrace.NewTracerProvider()
			ctx, span := tp.Tracer("otelslog").Start(context.Background(), "resolve")
			defer span.End()

			log.InfoContext(ctx, "resolved")

			var r record
			err := json.Unmarshal(buf.Bytes(), &r)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, span.SpanContext().TraceID().String(), r.OTel.TraceID) {
				return
			}
			if !assert.Equal(t, span.SpanContext().SpanID().String(), r.OTel.SpanID) {
				return
			}
		})
	})

	t.Run("will add a span event", func(t *testing.T) {
		t.Run("if the record is a warning or worse", func(t *testing.T) {
			sr := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

			log := New(slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{}))

			ctx, span := tp.Tracer("otelslog").Start(context.Background(), "resolve")
			log.InfoContext(ctx, "read source")
			log.ErrorContext(ctx, "source failed")
			span.End()

			spans := sr.Ended()
			if !assert.Len(t, spans, 1) {
				return
			}

			events := spans[0].Events()
			if !assert.Len(t, events, 1) {
				return
			}
			if !assert.Equal(t, "source failed", events[0].Name) {
				return
			}
		})
	})
}
