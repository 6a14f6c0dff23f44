// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/petdor/petdor/assets/views"
	"codeberg.org/petdor/petdor/config"
	"codeberg.org/petdor/petdor/i18n"
)

// AboutPage is the handler for the /about page.
func (s *Site) AboutPage(w http.ResponseWriter, r *http.Request) error {
	setPublicCacheControl(w)

	pageData := views.AboutData{
		Title:        i18n.Tr(r.Context(), "About"),
		ContactEmail: config.Global.Instance.ContactEmail,
		WebsiteURL:   config.Global.Instance.WebsiteURL,
		RepoURL:      config.Global.Instance.RepoURL,
		PartnerCount: s.Partners.Len(),
	}

	return views.About(pageData).Render(r.Context(), w)
}
