// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package logos

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/petdor/petdor/core/partners"
)

// a 1x1 transparent PNG
var pngPixel = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89\x00\x00\x00\rIDATx\x9cc\x00\x01\x00\x00\x05\x00\x01\r\n-\xb4\x00\x00\x00\x00IEND\xaeB`\x82")

const cleanSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="10" height="10" fill="#0a7"/></svg>`

type upstream struct {
	server *httptest.Server
	hits   atomic.Int32
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()

	u := &upstream{}
	mux := http.NewServeMux()

	mux.HandleFunc("/logo.png", func(w http.ResponseWriter, _ *http.Request) {
		u.hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngPixel)
	})
	mux.HandleFunc("/sniffed", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(pngPixel)
	})
	mux.HandleFunc("/logo.svg", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		_, _ = w.Write([]byte(cleanSVG))
	})
	mux.HandleFunc("/script.svg", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(`<svg><script>alert(1)</script></svg>`))
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/huge.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(make([]byte, 4096))
	})
	mux.HandleFunc("/slow.png", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	u.server = httptest.NewServer(mux)
	t.Cleanup(u.server.Close)

	return u
}

func (u *upstream) partner(slug, path string) partners.Partner {
	return partners.Partner{
		Slug: slug,
		Name: slug,
		Logo: u.server.URL + path,
		URL:  "https://" + slug + ".example",
		Tier: partners.TierSilver,
	}
}

func newTestStore(t *testing.T, u *upstream) *Store {
	t.Helper()

	s, err := NewStore(Options{
		CacheSize:    8,
		MaxBytes:     1024,
		FetchTimeout: 200 * time.Millisecond,
		Client:       u.server.Client(),
	})
	require.NoError(t, err)

	return s
}

func TestStoreGet(t *testing.T) {
	t.Parallel()

	u := newUpstream(t)
	s := newTestStore(t, u)

	p := u.partner("acme", "/logo.png")

	logo, err := s.Get(t.Context(), p)
	require.NoError(t, err)
	assert.Equal(t, "image/png", logo.ContentType)
	assert.Equal(t, pngPixel, logo.Data)

	// served from cache the second time
	_, err = s.Get(t.Context(), p)
	require.NoError(t, err)
	assert.EqualValues(t, 1, u.hits.Load())
	assert.EqualValues(t, 1, s.Stats().Hits)
}

func TestStoreGetSharesConcurrentFetches(t *testing.T) {
	t.Parallel()

	u := newUpstream(t)
	s := newTestStore(t, u)
	p := u.partner("acme", "/logo.png")

	var wg sync.WaitGroup

	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := s.Get(context.Background(), p)
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	assert.LessOrEqual(t, u.hits.Load(), int32(16))
	assert.Equal(t, 1, s.Stats().Len)
}

func TestStoreGetErrors(t *testing.T) {
	t.Parallel()

	u := newUpstream(t)
	s := newTestStore(t, u)

	tests := []struct {
		path    string
		wantErr error
	}{
		{path: "/missing.png", wantErr: ErrUpstreamStatus},
		{path: "/page.html", wantErr: ErrNotImage},
		{path: "/huge.png", wantErr: ErrTooLarge},
		{path: "/script.svg", wantErr: ErrUnsafeSVG},
		{path: "/slow.png", wantErr: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			_, err := s.Get(t.Context(), u.partner("bad", tt.path))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	local := partners.Partner{Slug: "local", Logo: "/img/partners/local.svg"}
	_, err := s.Get(t.Context(), local)
	assert.ErrorIs(t, err, ErrNotRemote)
}

func TestStoreContentTypeFallbacks(t *testing.T) {
	t.Parallel()

	u := newUpstream(t)
	s := newTestStore(t, u)

	logo, err := s.Get(t.Context(), u.partner("sniffed", "/sniffed"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", logo.ContentType)

	logo, err = s.Get(t.Context(), u.partner("vector", "/logo.svg"))
	require.NoError(t, err)
	assert.True(t, logo.IsSVG())
}

func TestPrefetch(t *testing.T) {
	t.Parallel()

	u := newUpstream(t)
	s := newTestStore(t, u)

	list := []partners.Partner{
		u.partner("a", "/logo.png"),
		u.partner("b", "/logo.svg"),
		u.partner("c", "/page.html"),
		{Slug: "local", Logo: "/img/partners/local.svg"},
	}

	n, err := s.Prefetch(t.Context(), list, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Stats().Len)
}

func TestPrefetchCancelled(t *testing.T) {
	t.Parallel()

	u := newUpstream(t)
	s := newTestStore(t, u)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	n, err := s.Prefetch(ctx, []partners.Partner{u.partner("a", "/logo.png")}, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestDisplayLogo(t *testing.T) {
	t.Parallel()

	remote := partners.Partner{Slug: "acme", Logo: "https://cdn.example/acme.png"}
	local := partners.Partner{Slug: "local", Logo: "/img/partners/local.svg"}

	assert.Equal(t, "https://cdn.example/acme.png", DisplayLogo(remote, false))
	assert.Equal(t, "/proxy/logo/acme", DisplayLogo(remote, true))
	assert.Equal(t, "/img/partners/local.svg", DisplayLogo(local, true))
}

func TestScreenSVG(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		cleanSVG: true,
		`<svg><linearGradient><stop offset="0"/></linearGradient></svg>`: true,
		`<svg><a href="https://petdor.com"><text>x</text></a></svg>`:      true,
		`<svg><SCRIPT>alert(1)</SCRIPT></svg>`:                            false,
		`<svg><foreignObject><div/></foreignObject></svg>`:                false,
		`<svg onload="alert(1)"></svg>`:                                   false,
		`<svg><rect ONCLICK="x()"/></svg>`:                                false,
		`<svg><a xlink:href=" JavaScript:alert(1)">x</a></svg>`:           false,
	}

	for doc, safe := range tests {
		err := screenSVG(strings.NewReader(doc))
		if safe {
			assert.NoError(t, err, doc)
		} else {
			assert.ErrorIs(t, err, ErrUnsafeSVG, doc)
		}
	}
}

func TestStoreRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/flaky.png", func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngPixel)
	})

	var missing atomic.Int32

	mux.HandleFunc("/gone.png", func(w http.ResponseWriter, _ *http.Request) {
		missing.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	s, err := NewStore(Options{
		CacheSize:  4,
		Attempts:   3,
		RetryDelay: time.Millisecond,
		Client:     server.Client(),
	})
	require.NoError(t, err)

	flaky := partners.Partner{Slug: "flaky", Logo: server.URL + "/flaky.png"}

	logo, err := s.Get(t.Context(), flaky)
	require.NoError(t, err)
	assert.Equal(t, "image/png", logo.ContentType)
	assert.Equal(t, int32(3), calls.Load())

	gone := partners.Partner{Slug: "gone", Logo: server.URL + "/gone.png"}

	_, err = s.Get(t.Context(), gone)

	var statusErr *UpstreamStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, int32(1), missing.Load(), "client errors are not retried")
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	assert.True(t, isTransient(&UpstreamStatusError{StatusCode: http.StatusBadGateway}))
	assert.True(t, isTransient(&UpstreamStatusError{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, isTransient(&UpstreamStatusError{StatusCode: http.StatusForbidden}))
	assert.False(t, isTransient(ErrNotImage))
	assert.False(t, isTransient(context.Canceled))
	assert.True(t, isTransient(&url.Error{Op: "Get", URL: "https://x.example", Err: errors.New("connection refused")}))
}
