// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/petdor/petdor/assets/views"
	"codeberg.org/petdor/petdor/core/partners"
	"codeberg.org/petdor/petdor/i18n"
)

// PartnersPage is the handler for the /partners page.
//
// The optional ?tier= query parameter limits the listing to one tier.
func (s *Site) PartnersPage(w http.ResponseWriter, r *http.Request) error {
	groups := s.Partners.ByTier()

	if raw := r.URL.Query().Get("tier"); raw != "" {
		tier := partners.Tier(raw)
		if !tier.Valid() {
			return &NotFoundError{What: "tier " + raw}
		}

		groups = filterTier(groups, tier)
	}

	data := views.PartnersData{
		Title:    i18n.Tr(r.Context(), "Partners"),
		Sections: make([]views.PartnerSection, 0, len(groups)),
	}

	for _, group := range groups {
		section := views.PartnerSection{
			Tier:    group.Tier,
			Entries: make([]views.PartnerEntry, 0, len(group.Partners)),
		}

		for _, p := range group.Partners {
			section.Entries = append(section.Entries, views.PartnerEntry{Slug: p.Slug, Card: s.card(p)})
		}

		data.Total += len(section.Entries)
		data.Sections = append(data.Sections, section)
	}

	setPublicCacheControl(w)
	preloadLogos(w, groups, s.card)

	return views.Partners(data).Render(r.Context(), w)
}

// PartnerPage is the handler for the /partners/{slug} page.
func (s *Site) PartnerPage(w http.ResponseWriter, r *http.Request) error {
	slug := r.PathValue("slug")

	p, ok := s.Partners.Get(slug)
	if !ok {
		return &NotFoundError{What: "partner " + slug}
	}

	setPublicCacheControl(w)

	return views.Partner(views.PartnerData{
		Title:       p.Name,
		Slug:        p.Slug,
		Tier:        p.Tier,
		Description: p.Description,
		Card:        s.card(p),
	}).Render(r.Context(), w)
}

func filterTier(groups []partners.TierGroup, tier partners.Tier) []partners.TierGroup {
	for _, group := range groups {
		if group.Tier == tier {
			return []partners.TierGroup{group}
		}
	}

	return nil
}
