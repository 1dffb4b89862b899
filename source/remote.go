// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !strata_noremote

package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/z5labs/strata/http/httpclient"
	"github.com/z5labs/strata/internal/try"
)

// RemoteEnabled reports whether remote sources are fetched over the network.
const RemoteEnabled = true

var errMissingHost = errors.New("address must be an absolute http or https url")

// HTTPFetcher fetches remote documents with a single GET request.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns an HTTPFetcher. By default it uses an
// [httpclient.New] client with tracing enabled, and without retries.
func NewHTTPFetcher(opts ...httpclient.Option) *HTTPFetcher {
	opts = append([]httpclient.Option{
		httpclient.Name("strata"),
		httpclient.Trace(),
	}, opts...)
	return &HTTPFetcher{client: httpclient.New(opts...)}
}

func defaultFetcher(h slog.Handler) Fetcher {
	return NewHTTPFetcher(httpclient.LogHandler(h))
}

// Fetch implements the [Fetcher] interface.
func (f *HTTPFetcher) Fetch(ctx context.Context, address string) (_ []byte, err error) {
	u, err := url.Parse(address)
	if err == nil && (u.Host == "" || (u.Scheme != "http" && u.Scheme != "https")) {
		err = errMissingHost
	}
	if err != nil {
		return nil, FetchFailedError{Address: address, Detail: "malformed address", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, FetchFailedError{Address: address, Detail: "malformed address", Cause: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		detail := "request failed"
		if ctx.Err() != nil {
			detail = "timed out"
		}
		return nil, FetchFailedError{Address: address, Detail: detail, Cause: err}
	}
	defer try.Close(&err, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, FetchFailedError{
			Address: address,
			Detail:  "unsuccessful response",
			Cause: StatusError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
			},
		}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, FetchFailedError{Address: address, Detail: "failed to read response body", Cause: err}
	}
	return b, nil
}
