// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"codeberg.org/petdor/petdor/core/partners"
)

func TestPartnersPage(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	require.NoError(t, testSite(t).PartnersPage(rr, newRequest(http.MethodGet, "/partners")))

	assert.Equal(t, "public, max-age=300, stale-while-revalidate=60", rr.Header().Get("Cache-Control"))
	assert.Equal(t,
		`</img/partners/salute-vitae.svg>; rel="preload"; as="image"; fetchpriority="high", `+
			`<https://cdn.acme.example/logo.png>; rel="prefetch"; as="image"; fetchpriority="low", `+
			`</img/partners/amigo-fiel.svg>; rel="prefetch"; as="image"; fetchpriority="low"`,
		rr.Header().Get("Link"))

	doc := parse(t, rr)

	names := doc.Find("a.partner-card h3").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, []string{"Salute Vitae", "Acme Wellness", "Amigo Fiel"}, names)
}

func TestPartnersPageTierFilter(t *testing.T) {
	t.Parallel()

	site := testSite(t)

	rr := httptest.NewRecorder()
	require.NoError(t, site.PartnersPage(rr, newRequest(http.MethodGet, "/partners?tier=community")))

	doc := parse(t, rr)
	assert.Equal(t, 1, doc.Find("a.partner-card").Length())
	assert.Equal(t, "Amigo Fiel logo", doc.Find("a.partner-card img").AttrOr("alt", ""))

	// A valid tier without partners renders the empty state.
	rr = httptest.NewRecorder()
	require.NoError(t, site.PartnersPage(rr, newRequest(http.MethodGet, "/partners?tier=bronze")))
	assert.Equal(t, 0, parse(t, rr).Find("a.partner-card").Length())

	err := site.PartnersPage(httptest.NewRecorder(), newRequest(http.MethodGet, "/partners?tier=diamond"))

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "tier diamond not found", err.Error())
}

func TestPartnerPage(t *testing.T) {
	t.Parallel()

	site := testSite(t)

	r := newRequest(http.MethodGet, "/partners/amigo-fiel")
	r.SetPathValue("slug", "amigo-fiel")

	rr := httptest.NewRecorder()
	require.NoError(t, site.PartnerPage(rr, r))

	doc := parse(t, rr)
	card := doc.Find("a.partner-card")
	require.Equal(t, 1, card.Length())
	assert.Equal(t, "https://amigofiel.example", card.AttrOr("href", ""))
	assert.Contains(t, doc.Text(), "Animal shelter.")

	r = newRequest(http.MethodGet, "/partners/nobody")
	r.SetPathValue("slug", "nobody")

	assert.Equal(t, http.StatusNotFound, StatusForError(site.PartnerPage(httptest.NewRecorder(), r)))
}

func TestFilterTier(t *testing.T) {
	t.Parallel()

	groups := testSite(t).Partners.ByTier()

	got := filterTier(groups, partners.TierSilver)
	require.Len(t, got, 1)
	assert.Equal(t, "acme-wellness", got[0].Partners[0].Slug)

	assert.Empty(t, filterTier(groups, partners.TierBronze))
}

func TestPartnersAPI(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	require.NoError(t, testSite(t).PartnersAPI(rr, newRequest(http.MethodGet, "/api/partners")))

	body := rr.Body.String()

	assert.Equal(t, int64(3), gjson.Get(body, "total").Int())
	assert.Equal(t, []string{"salute-vitae", "acme-wellness", "amigo-fiel"}, stringArray(gjson.Get(body, "partners.#.slug")))
	assert.Equal(t, "https://cdn.acme.example/logo.png", gjson.Get(body, "partners.1.logo").String())
	assert.False(t, gjson.Get(body, "partners.0.html").Exists())
}

func TestPartnersAPIWithProxyAndHTML(t *testing.T) {
	t.Parallel()

	site := testSite(t)
	site.Logos = newTestStore(t, nil)

	rr := httptest.NewRecorder()
	require.NoError(t, site.PartnersAPI(rr, newRequest(http.MethodGet, "/api/partners?html=1")))

	body := rr.Body.String()

	assert.Equal(t, "/proxy/logo/acme-wellness", gjson.Get(body, "partners.1.logo").String())
	assert.Equal(t, "/img/partners/salute-vitae.svg", gjson.Get(body, "partners.0.logo").String())

	html := gjson.Get(body, "partners.1.html").String()
	assert.Contains(t, html, `src="/proxy/logo/acme-wellness"`)
	assert.Contains(t, html, `alt="Acme Wellness logo"`)
	assert.Contains(t, html, `target="_blank"`)
}

func stringArray(r gjson.Result) []string {
	var out []string
	for _, v := range r.Array() {
		out = append(out, v.String())
	}

	return out
}
