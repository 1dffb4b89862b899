// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build strata_noremote

package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter_Read_RemoteDisabled(t *testing.T) {
	t.Run("will return ErrRemoteDisabled", func(t *testing.T) {
		t.Run("if no fetcher is configured", func(t *testing.T) {
			_, err := NewReader().Read(context.Background(), Remote("https://example.com/app.yaml"))
			if !assert.ErrorIs(t, err, ErrRemoteDisabled) {
				return
			}
			if !assert.False(t, RemoteEnabled) {
				return
			}
		})
	})
}
