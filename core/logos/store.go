// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package logos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"codeberg.org/petdor/petdor/core/audit"
	"codeberg.org/petdor/petdor/core/cache/lrucache"
	"codeberg.org/petdor/petdor/core/partners"
)

// ProxyPathPrefix is where the server mounts the logo proxy.
const ProxyPathPrefix = "/proxy/logo/"

const svgMediaType = "image/svg+xml"

var (
	ErrNotRemote      = errors.New("logo is not hosted on a remote origin")
	ErrUpstreamStatus = errors.New("logo upstream returned an unexpected status")
	ErrTooLarge       = errors.New("logo exceeds the size limit")
	ErrNotImage       = errors.New("logo is not an image")
)

// Logo is a fetched logo image.
type Logo struct {
	ContentType string
	Data        []byte
}

// IsSVG reports whether the logo is an SVG document.
func (l Logo) IsSVG() bool {
	return l.ContentType == svgMediaType
}

// Options configures a Store.
type Options struct {
	CacheSize    int
	MaxBytes     int64
	FetchTimeout time.Duration
	// Attempts bounds the tries per fetch; transient failures (network
	// errors, 429 and 5xx answers) are retried with exponential backoff
	// starting at RetryDelay. Zero means a single try.
	Attempts   uint
	RetryDelay time.Duration
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

// UpstreamStatusError reports a non-200 answer from a logo host.
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%v: %d", ErrUpstreamStatus, e.StatusCode)
}

func (e *UpstreamStatusError) Unwrap() error {
	return ErrUpstreamStatus
}

// Store fetches remote logos on demand and keeps them in an LRU cache.
type Store struct {
	opts   Options
	cache  *lrucache.Cache
	flight singleflight.Group
}

// NewStore returns a Store with an empty cache.
func NewStore(opts Options) (*Store, error) {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}

	cache, err := lrucache.New(opts.CacheSize, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create logo cache: %w", err)
	}

	return &Store{opts: opts, cache: cache}, nil
}

// Get returns the logo of p, fetching it when it is not cached.
//
// Concurrent calls for the same logo share one upstream request.
func (s *Store) Get(ctx context.Context, p partners.Partner) (Logo, error) {
	if !p.HasRemoteLogo() {
		return Logo{}, fmt.Errorf("%w: %s", ErrNotRemote, p.Slug)
	}

	if data, contentType, ok := s.cache.Get(p.Logo); ok {
		return Logo{ContentType: contentType, Data: data}, nil
	}

	v, err, _ := s.flight.Do(p.Logo, func() (any, error) {
		logo, err := s.fetchWithRetry(context.WithoutCancel(ctx), p.Logo)
		if err != nil {
			return Logo{}, err
		}

		s.cache.Add(p.Logo, logo.ContentType, logo.Data)

		return logo, nil
	})
	if err != nil {
		return Logo{}, fmt.Errorf("partner %s: %w", p.Slug, err)
	}

	return v.(Logo), nil
}

// Prefetch warms the cache with the remote logos of list, running at most
// concurrency fetches at once. Failures are logged and skipped; the count of
// cached logos is returned. Prefetch stops early when ctx is cancelled.
func (s *Store) Prefetch(ctx context.Context, list []partners.Partner, concurrency int) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	results := make([]bool, len(list))

	for i, p := range list {
		if !p.HasRemoteLogo() {
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			if _, err := s.Get(ctx, p); err != nil {
				log.Warn().
					Err(err).
					Str("partner", p.Slug).
					Str("logo", p.Logo).
					Msg("Failed to prefetch partner logo")

				return nil
			}

			results[i] = true

			return nil
		})
	}

	err := g.Wait()

	fetched := 0

	for _, ok := range results {
		if ok {
			fetched++
		}
	}

	return fetched, err
}

// Stats reports cache usage.
func (s *Store) Stats() lrucache.Stats {
	return s.cache.Stats()
}

func (s *Store) fetchWithRetry(ctx context.Context, rawURL string) (Logo, error) {
	var logo Logo

	err := retry.Do(
		func() error {
			var err error

			logo, err = s.fetch(ctx, rawURL)

			return err
		},
		retry.Attempts(max(s.opts.Attempts, 1)),
		retry.LastErrorOnly(true),
		retry.Delay(s.opts.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isTransient),
		retry.Context(ctx),
	)

	return logo, err
}

// isTransient reports whether a failed fetch is worth another try.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *UpstreamStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= http.StatusInternalServerError
	}

	var urlErr *url.Error

	return errors.As(err, &urlErr)
}

func (s *Store) fetch(ctx context.Context, rawURL string) (logo Logo, err error) {
	if s.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()
	}

	span := audit.Span{
		Destination: audit.ToLogo,
		Method:      http.MethodGet,
		URL:         rawURL,
	}

	ctx = span.Begin(ctx)

	defer func() {
		span.End()
		span.Error = err
		span.BodyLength = len(logo.Data)
		span.Log()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Logo{}, fmt.Errorf("failed to create logo request: %w", err)
	}

	req.Header.Set("Accept", "image/avif,image/webp,image/svg+xml,image/*;q=0.8")

	resp, err := s.opts.Client.Do(req)
	if err != nil {
		return Logo{}, fmt.Errorf("failed to fetch logo: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	if resp.StatusCode != http.StatusOK {
		return Logo{}, &UpstreamStatusError{StatusCode: resp.StatusCode}
	}

	if s.opts.MaxBytes > 0 && resp.ContentLength > s.opts.MaxBytes {
		return Logo{}, fmt.Errorf("%w: %d bytes announced", ErrTooLarge, resp.ContentLength)
	}

	body := io.Reader(resp.Body)
	if s.opts.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, s.opts.MaxBytes+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return Logo{}, fmt.Errorf("failed to read logo: %w", err)
	}

	if s.opts.MaxBytes > 0 && int64(len(data)) > s.opts.MaxBytes {
		return Logo{}, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, s.opts.MaxBytes)
	}

	contentType, err := detectContentType(resp.Header.Get("Content-Type"), rawURL, data)
	if err != nil {
		return Logo{}, err
	}

	if contentType == svgMediaType {
		if err := screenSVG(bytes.NewReader(data)); err != nil {
			return Logo{}, err
		}
	}

	return Logo{ContentType: contentType, Data: data}, nil
}

// detectContentType resolves the image media type from the response header,
// falling back to sniffing. SVG is recognised from its extension when the
// upstream labels it as XML or plain text.
func detectContentType(header, rawURL string, data []byte) (string, error) {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || mediaType == "application/octet-stream" {
		mediaType, _, _ = mime.ParseMediaType(http.DetectContentType(data))
	}

	switch mediaType {
	case "text/xml", "application/xml", "text/plain":
		if u, err := url.Parse(rawURL); err == nil && hasSVGExtension(u.Path) {
			mediaType = svgMediaType
		}
	}

	if !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("%w: %q", ErrNotImage, mediaType)
	}

	return mediaType, nil
}

func hasSVGExtension(p string) bool {
	return strings.EqualFold(path.Ext(p), ".svg")
}

// ProxyPath returns the path under which the server proxies the logo of slug.
func ProxyPath(slug string) string {
	return ProxyPathPrefix + url.PathEscape(slug)
}

// DisplayLogo returns the logo reference the card should render for p:
// the proxy path when proxying is enabled and the logo is remote, else p.Logo.
func DisplayLogo(p partners.Partner, proxy bool) string {
	if proxy && p.HasRemoteLogo() {
		return ProxyPath(p.Slug)
	}

	return p.Logo
}
