// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/petdor/petdor/i18n"
)

// NormalizeURL is a middleware that handles URL normalization by:
//  1. Turning a leading supported-locale segment ("/pt-BR/partners") into
//     the lang query parameter ("/partners?lang=pt-BR").
//  2. Removing trailing slashes from URLs (except root).
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if tag, rest, ok := localePrefix(r.URL.Path); ok {
		removeLocalePrefix(w, r, tag, rest)

		return
	}

	if hasTrailingSlash(r) {
		removeTrailingSlash(w, r)

		return
	}

	next.ServeHTTP(w, r)
}

// hasTrailingSlash checks if a request path has a trailing slash (except root).
// Prefix routes for static files keep theirs.
func hasTrailingSlash(r *http.Request) bool {
	p := r.URL.Path

	return p != "/" && strings.HasSuffix(p, "/") && p != "/css/" && p != "/img/"
}

// removeTrailingSlash removes trailing slashes and redirects.
func removeTrailingSlash(w http.ResponseWriter, r *http.Request) {
	target := *r.URL
	target.Path = strings.TrimRight(target.Path, "/")
	target.RawPath = ""

	if target.Path == "" {
		target.Path = "/"
	}

	// Only the path and query are kept, so this can't redirect off-site.
	http.Redirect(w, r, target.RequestURI(), http.StatusPermanentRedirect)
}

// localePrefix reports whether path starts with a segment naming a supported
// locale, followed by more path. It returns the locale and the remaining path.
func localePrefix(path string) (language.Tag, string, bool) {
	segment, rest, found := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if !found || rest == "" || len(segment) < 2 {
		return language.Und, "", false
	}

	tag, err := language.Parse(segment)
	if err != nil || !slices.Contains(i18n.Supported(), tag) {
		return language.Und, "", false
	}

	return tag, "/" + rest, true
}

// removeLocalePrefix redirects to rest with the locale as the lang parameter.
func removeLocalePrefix(w http.ResponseWriter, r *http.Request, tag language.Tag, rest string) {
	target := *r.URL
	target.Path = rest
	target.RawPath = ""

	q := target.Query()
	q.Set(i18n.LangParam, tag.String())
	target.RawQuery = q.Encode()

	http.Redirect(w, r, target.RequestURI(), http.StatusMovedPermanently)
}
