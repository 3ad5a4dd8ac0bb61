// SPDX-License-Identifier: EPL-2.0

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single download.
const DefaultTimeout = 30 * time.Second

// HTTPFetcher downloads recordings with a plain GET.
type HTTPFetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

// NewHTTPFetcher builds a fetcher whose requests time out after timeout and
// whose bodies may not exceed maxBytes. Zero values pick DefaultTimeout and no limit.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		maxBytes:  maxBytes,
		userAgent: userAgent,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrFetch, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, location, resp.Status)
	}

	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("%w: content length %d", ErrTooLarge, resp.ContentLength)
	}

	data, err := readLimited(resp.Body, f.maxBytes)
	if err != nil {
		return nil, err
	}

	return data, nil
}
