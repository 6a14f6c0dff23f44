// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/petdor/petdor/core/cookie"
	"codeberg.org/petdor/petdor/core/untrusted"
	"codeberg.org/petdor/petdor/i18n"
	"codeberg.org/petdor/petdor/server/utils"
)

// SetLanguage is the handler for /settings/lang.
//
// It stores the ?lang= preference in the language cookie and redirects to
// the sanitized ?return= path. "auto" clears the preference so the
// Accept-Language header decides again.
func SetLanguage(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Cache-Control", "no-store")

	raw := strings.TrimSpace(utils.GetQueryParam(r, i18n.LangParam))

	switch {
	case raw == "" || strings.EqualFold(raw, "auto"):
		untrusted.ClearCookie(w, r, cookie.LangCookie)
	default:
		if _, err := language.Parse(raw); err != nil {
			return i18n.NewUserError(r.Context(), "Unknown language: {{.Lang}}", "Lang", raw)
		}

		untrusted.SetCookie(w, r, cookie.LangCookie, raw)
	}

	returnPath := utils.SanitizeReturnPath(utils.GetQueryParam(r, "return"))
	if returnPath == "" {
		returnPath = "/partners"
	}

	http.Redirect(w, r, returnPath, http.StatusSeeOther)

	return nil
}
