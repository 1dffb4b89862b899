// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build strata_noremote

package source

import (
	"context"
	"log/slog"
)

// RemoteEnabled reports whether remote sources are fetched over the network.
const RemoteEnabled = false

type disabledFetcher struct{}

func defaultFetcher(slog.Handler) Fetcher {
	return disabledFetcher{}
}

// Fetch implements the [Fetcher] interface.
func (disabledFetcher) Fetch(_ context.Context, address string) ([]byte, error) {
	return nil, FetchFailedError{
		Address: address,
		Detail:  "remote sources disabled",
		Cause:   ErrRemoteDisabled,
	}
}
