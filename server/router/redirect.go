// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

// The code in this file redirects URLs of the previous PETDor site to ours.
//
// Add more redirects in (*Router).DefineRoutes

package router

import (
	"net/http"
	"net/url"

	"codeberg.org/petdor/petdor/server/utils"
)

// redirectWithQueryParam is a helper function to redirect requests to
// a target path while preserving the specified query parameter.
//
// Example:   /parceiro.php?id=<slug>   ->   /partners/<slug>
func redirectWithQueryParam(targetPath, preservedParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, targetPath+url.PathEscape(utils.GetQueryParam(r, preservedParam)), http.StatusPermanentRedirect)
	}
}

// redirectLocalized redirects a translated path to targetPath, selecting lang
// as the interface language. Other query parameters are kept.
//
// Example:   /parceiros?tier=gold   ->   /partners?lang=pt-BR&tier=gold
func redirectLocalized(targetPath, lang string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		q.Set("lang", lang)

		http.Redirect(w, r, targetPath+"?"+q.Encode(), http.StatusPermanentRedirect)
	}
}
