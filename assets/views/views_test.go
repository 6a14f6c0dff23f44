// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/petdor/petdor/assets/views"
	"codeberg.org/petdor/petdor/core/partners"
	"codeberg.org/petdor/petdor/server/request_context"
)

func renderPage(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()

	r := httptest.NewRequest("GET", "/partners", nil)
	ctx := request_context.WithRequestContext(context.Background(), r)

	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(buf.String()))
	require.NoError(t, err)

	return doc
}

func TestPartnersGroupsByTier(t *testing.T) {
	t.Parallel()

	doc := renderPage(t, views.Partners(views.PartnersData{
		Title: "Partners",
		Total: 3,
		Sections: []views.PartnerSection{
			{
				Tier: partners.TierGold,
				Entries: []views.PartnerEntry{
					{Slug: "acme", Card: partners.CardInput{Name: "Acme", Logo: "/img/acme.svg", URL: "https://acme.example"}},
				},
			},
			{
				Tier: partners.TierCommunity,
				Entries: []views.PartnerEntry{
					{Slug: "beta", Card: partners.CardInput{Name: "Beta", Logo: "/img/beta.svg", URL: "https://beta.example"}},
					{Slug: "gamma", Card: partners.CardInput{Name: "Gamma", Logo: "/img/gamma.svg", URL: "https://gamma.example"}},
				},
			},
		},
	}))

	assert.Equal(t, "Partners · PETDor", doc.Find("title").Text())
	assert.Equal(t, 0, doc.Find(".partners__empty").Length())

	sections := doc.Find("section.partners__tier")
	require.Equal(t, 2, sections.Length())
	assert.Equal(t, "gold", sections.Eq(0).AttrOr("data-tier", ""))
	assert.Equal(t, "tier-community", sections.Eq(1).AttrOr("id", ""))
	assert.Equal(t, "Gold partners", strings.TrimSpace(sections.Eq(0).Find("h2").Text()))

	cards := sections.Eq(1).Find("a.partner-card")
	require.Equal(t, 2, cards.Length())
	assert.Equal(t, "https://gamma.example", cards.Eq(1).AttrOr("href", ""))
	assert.Equal(t, 1, doc.Find("li#partner-beta").Length())
}

func TestPartnersEmptyState(t *testing.T) {
	t.Parallel()

	doc := renderPage(t, views.Partners(views.PartnersData{Title: "Partners"}))

	assert.Equal(t, "No partners yet.", doc.Find(".partners__empty").Text())
	assert.Equal(t, 0, doc.Find("a.partner-card").Length())
}

func TestPartnerPage(t *testing.T) {
	t.Parallel()

	doc := renderPage(t, views.Partner(views.PartnerData{
		Title:       "Acme",
		Slug:        "acme",
		Tier:        partners.TierSilver,
		Description: "Veterinary clinic.",
		Card:        partners.CardInput{Name: "Acme", Logo: "/img/acme.svg", URL: "https://acme.example"},
	}))

	assert.Equal(t, "Silver partners", doc.Find(".partner__tier").Text())
	assert.Equal(t, "Veterinary clinic.", doc.Find(".partner__description").Text())
	assert.Equal(t, "Acme logo", doc.Find(".partner__card img").AttrOr("alt", ""))
	assert.Equal(t, "/partners", doc.Find("a.partner__back").AttrOr("href", ""))
}

func TestLayout(t *testing.T) {
	t.Parallel()

	doc := renderPage(t, views.About(views.AboutData{Title: "About"}))

	assert.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))
	assert.True(t, strings.HasPrefix(doc.Find(`link[rel="stylesheet"]`).AttrOr("href", ""), "/css/petdor.css?v="))
	assert.Equal(t, 2, doc.Find(".site-header__nav a").Length())
	assert.Equal(t, 1, doc.Find("main.site-main section.about").Length())
	// a single language means no switcher
	assert.Equal(t, 0, doc.Find("nav.lang-switcher").Length())
}

func TestAbout(t *testing.T) {
	t.Parallel()

	doc := renderPage(t, views.About(views.AboutData{
		Title:        "About",
		ContactEmail: "suporte@petdor.com",
		WebsiteURL:   "https://petdor.com",
		RepoURL:      "https://codeberg.org/petdor/petdor",
		PartnerCount: 4,
	}))

	assert.Contains(t, doc.Find(".about").Text(), "PETDor is supported by 4 partners.")

	links := doc.Find(".about__contact a")
	require.Equal(t, 3, links.Length())
	assert.Equal(t, "mailto:suporte@petdor.com", links.Eq(0).AttrOr("href", ""))
	assert.Equal(t, "https://petdor.com", links.Eq(1).AttrOr("href", ""))
	assert.Equal(t, "Source code", links.Eq(2).Text())
}

func TestAboutSingularPartner(t *testing.T) {
	t.Parallel()

	doc := renderPage(t, views.About(views.AboutData{Title: "About", PartnerCount: 1}))

	assert.Contains(t, doc.Find(".about").Text(), "PETDor is supported by 1 partner.")
	assert.Equal(t, 0, doc.Find(".about__contact a").Length())
}

func TestErrorPage(t *testing.T) {
	t.Parallel()

	doc := renderPage(t, views.Error(views.ErrorData{
		Title:      "Not found",
		StatusCode: 404,
		Message:    "partner <x> not found",
		RequestID:  "abc123",
	}))

	assert.Equal(t, "404", doc.Find(".error-page__status").Text())
	assert.Equal(t, "partner <x> not found", doc.Find(".error-page__message").Text())
	assert.Equal(t, "Request ID: abc123", doc.Find(".error-page__request-id").Text())
}

func TestComponentsGallery(t *testing.T) {
	t.Parallel()

	doc := renderPage(t, views.Components(views.ComponentsData{
		Title: "Components",
		Samples: []views.ComponentSample{
			{Label: "Local logo", Card: partners.CardInput{Name: "A", Logo: "/img/a.svg", URL: "https://a.example"}},
			{Label: "Long name", Card: partners.CardInput{Name: "A very long partner name", Logo: "/img/b.svg", URL: "https://b.example"}},
		},
	}))

	assert.Equal(t, 2, doc.Find(".components__label").Length())
	assert.Equal(t, 2, doc.Find("a.partner-card").Length())
}
