// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"net/http"

	"codeberg.org/petdor/petdor/assets/components/partials"
	"codeberg.org/petdor/petdor/core/partners"
	"codeberg.org/petdor/petdor/server/template"
)

// apiPartner is one entry of the /api/partners response.
type apiPartner struct {
	partners.CardInput

	Slug string        `json:"slug"`
	Tier partners.Tier `json:"tier"`
	// HTML is the rendered card, for clients that embed it directly.
	HTML string `json:"html,omitempty"`
}

type apiPartnersResponse struct {
	Partners []apiPartner `json:"partners"`
	Total    int          `json:"total"`
}

// PartnersAPI is the handler for /api/partners.
//
// ?html=1 includes the rendered card markup of each partner.
func (s *Site) PartnersAPI(w http.ResponseWriter, r *http.Request) error {
	withHTML := r.URL.Query().Get("html") == "1"

	all := s.Partners.All()
	resp := apiPartnersResponse{
		Partners: make([]apiPartner, 0, len(all)),
		Total:    len(all),
	}

	for _, p := range all {
		entry := apiPartner{CardInput: s.card(p), Slug: p.Slug, Tier: p.Tier}
		if withHTML {
			entry.HTML = template.RenderToString(r.Context(), partials.PartnerCard(entry.CardInput))
		}

		resp.Partners = append(resp.Partners, entry)
	}

	setPublicCacheControl(w)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	return json.NewEncoder(w).Encode(resp)
}
