// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"codeberg.org/petdor/petdor/config"
	"codeberg.org/petdor/petdor/core/logos"
	"codeberg.org/petdor/petdor/core/partners"
	"codeberg.org/petdor/petdor/i18n"
	"codeberg.org/petdor/petdor/server/assets"
	"codeberg.org/petdor/petdor/server/routes"
)

const testPO = `msgid ""
msgstr ""
"Language: pt-BR\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=(n > 1);\n"

msgid "Partners"
msgstr "Parceiros"
`

var pngLogo = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func TestMain(m *testing.M) {
	config.Global.SetDefaults()
	config.Global.Instance.FileServerCacheID = "test"

	assets.FS = fstest.MapFS{
		"assets/css/petdor.css":  {Data: []byte(".partner-card{transition:transform .2s}")},
		"assets/img/favicon.svg": {Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)},
		"assets/robots.txt":      {Data: []byte("User-agent: *\nDisallow: /proxy/\n")},
		"po/pt-BR.po":            {Data: []byte(testPO)},
	}

	if err := i18n.Setup(assets.FS, false); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// newTestRouter serves a directory with one local and one remote logo. The
// remote logo is proxied when proxy is set.
func newTestRouter(t *testing.T, proxy bool) *Router {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngLogo)
	}))
	t.Cleanup(upstream.Close)

	dir, err := partners.NewDirectory([]partners.Partner{
		{Slug: "acme-wellness", Name: "Acme Wellness", Logo: "/img/partners/acme.svg", URL: "https://acme.example", Tier: partners.TierGold},
		{Slug: "amigo-fiel", Name: "Amigo Fiel", Logo: upstream.URL + "/amigo.png", URL: "https://amigofiel.example"},
	})
	require.NoError(t, err)

	var store *logos.Store

	if proxy {
		store, err = logos.NewStore(logos.Options{
			CacheSize:    4,
			MaxBytes:     1024,
			FetchTimeout: time.Second,
			Client:       upstream.Client(),
		})
		require.NoError(t, err)
	}

	return New(routes.NewSite(dir, store))
}

func get(t *testing.T, h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func TestPartnersPage(t *testing.T) {
	h := newTestRouter(t, false)

	rr := get(t, h, "/partners")
	require.Equal(t, http.StatusOK, rr.Code)

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)

	cards := doc.Find("a.partner-card")
	require.Equal(t, 2, cards.Length())

	first := cards.First()
	href, _ := first.Attr("href")
	target, _ := first.Attr("target")
	rel, _ := first.Attr("rel")
	alt, _ := first.Find("img").Attr("alt")
	src, _ := first.Find("img").Attr("src")

	assert.Equal(t, "https://acme.example", href)
	assert.Equal(t, "_blank", target)
	assert.Equal(t, "noopener noreferrer", rel)
	assert.Equal(t, "Acme Wellness logo", alt)
	assert.Equal(t, "/img/partners/acme.svg", src)
	assert.Equal(t, "Acme Wellness", first.Find("h3").Text())

	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "img-src 'self' data: http://127.0.0.1:")
}

func TestPartnersPageProxiesRemoteLogos(t *testing.T) {
	h := newTestRouter(t, true)

	rr := get(t, h, "/partners?tier=community")
	require.Equal(t, http.StatusOK, rr.Code)

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)

	src, _ := doc.Find("a.partner-card img").Attr("src")
	assert.Equal(t, "/proxy/logo/amigo-fiel", src)
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "img-src 'self' data:;")

	logo := get(t, h, src)
	require.Equal(t, http.StatusOK, logo.Code)
	assert.Equal(t, "image/png", logo.Header().Get("Content-Type"))
	assert.Equal(t, pngLogo, logo.Body.Bytes())

	// Local logos are not proxied.
	local := get(t, h, "/proxy/logo/acme-wellness")
	assert.Equal(t, http.StatusFound, local.Code)
	assert.Equal(t, "/img/partners/acme.svg", local.Header().Get("Location"))
}

func TestLogoProxyDisabled(t *testing.T) {
	h := newTestRouter(t, false)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/proxy/logo/amigo-fiel").Code)
}

func TestPartnersAPI(t *testing.T) {
	h := newTestRouter(t, false)

	rr := get(t, h, "/api/partners?html=1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))

	body := rr.Body.String()

	assert.Equal(t, int64(2), gjson.Get(body, "total").Int())
	assert.Equal(t, "Acme Wellness", gjson.Get(body, "partners.0.name").String())
	assert.Equal(t, "gold", gjson.Get(body, "partners.0.tier").String())
	assert.Equal(t, "community", gjson.Get(body, "partners.1.tier").String())
	assert.Contains(t, gjson.Get(body, "partners.0.html").String(), `rel="noopener noreferrer"`)

	plain := get(t, h, "/api/partners").Body.String()
	assert.False(t, gjson.Get(plain, "partners.0.html").Exists())
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(t, false)

	tests := []struct {
		target   string
		status   int
		location string
	}{
		{target: "/", status: http.StatusFound, location: "/partners"},
		{target: "/partners/", status: http.StatusPermanentRedirect, location: "/partners"},
		{target: "/partners/acme-wellness", status: http.StatusOK},
		{target: "/partners/unknown", status: http.StatusNotFound},
		{target: "/partners?tier=diamond", status: http.StatusNotFound},
		{target: "/about", status: http.StatusOK},
		{target: "/nowhere", status: http.StatusNotFound},
		{target: "/parceiros", status: http.StatusPermanentRedirect, location: "/partners?lang=pt-BR"},
		{target: "/sobre", status: http.StatusPermanentRedirect, location: "/about?lang=pt-BR"},
		{target: "/parceiro.php?id=amigo-fiel", status: http.StatusPermanentRedirect, location: "/partners/amigo-fiel"},
		{target: "/pt-BR/about", status: http.StatusMovedPermanently, location: "/about?lang=pt-BR"},
		{target: "/settings/lang?lang=xx-invalid-!&return=/about", status: http.StatusBadRequest},
		{target: "/settings/lang?lang=pt-BR&return=/about", status: http.StatusSeeOther, location: "/about"},
		{target: "/dev/components", status: http.StatusNotFound},
		{target: "/robots.txt", status: http.StatusOK},
	}

	for _, tt := range tests {
		rr := get(t, h, tt.target)

		assert.Equal(t, tt.status, rr.Code, tt.target)

		if tt.location != "" {
			assert.Equal(t, tt.location, rr.Header().Get("Location"), tt.target)
		}
	}
}

func TestStaticFiles(t *testing.T) {
	h := newTestRouter(t, false)

	rr := get(t, h, "/css/petdor.css")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "max-age=604800", rr.Header().Get("Cache-Control"))
	assert.Equal(t, `"test"`, rr.Header().Get("ETag"))
	assert.Contains(t, rr.Body.String(), ".partner-card")
}

func TestLanguageFromQuery(t *testing.T) {
	h := newTestRouter(t, false)

	rr := get(t, h, "/partners?lang=pt-BR")
	require.Equal(t, http.StatusOK, rr.Code)

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)

	lang, _ := doc.Find("html").Attr("lang")
	assert.Equal(t, "pt-BR", lang)
	assert.Contains(t, doc.Find("nav.site-header__nav").Text(), "Parceiros")
}

func TestCompression(t *testing.T) {
	h := newTestRouter(t, false)

	rr := get(t, h, "/partners", "Accept-Encoding", "gzip")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rr.Body)
	require.NoError(t, err)

	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `class="partner-card"`))
}
