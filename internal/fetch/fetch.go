// SPDX-License-Identifier: EPL-2.0

// Package fetch downloads complete audio recordings over HTTP(S) or from S3.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

var (
	// ErrEmptyURL is a caller error: no location was given.
	ErrEmptyURL = errors.New("fetch: empty audio url")
	// ErrUnsupportedScheme is a caller error: no fetcher handles the url.
	ErrUnsupportedScheme = errors.New("fetch: unsupported url scheme")
	// ErrFetch marks an upstream failure.
	ErrFetch = errors.New("fetch: audio download failed")
	// ErrTooLarge is returned when a recording exceeds the size limit.
	ErrTooLarge = errors.New("fetch: audio exceeds size limit")
)

// Fetcher retrieves the full body behind a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Router dispatches to a Fetcher by url scheme. A nil S3 fetcher rejects
// s3:// urls with ErrUnsupportedScheme.
type Router struct {
	HTTP Fetcher
	S3   Fetcher
}

func (r Router) Fetch(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyURL
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedScheme, err)
	}

	var f Fetcher
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		f = r.HTTP
	case "s3":
		f = r.S3
	}

	if f == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	return f.Fetch(ctx, location)
}

// readLimited reads at most limit bytes from body. A body with more data
// yields ErrTooLarge.
func readLimited(body io.Reader, limit int64) ([]byte, error) {
	if limit > 0 {
		body = io.LimitReader(body, limit+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetch, err)
	}

	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	return data, nil
}
