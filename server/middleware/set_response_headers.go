// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync/atomic"

	"codeberg.org/petdor/petdor/config"
	"codeberg.org/petdor/petdor/core/partners"
	"codeberg.org/petdor/petdor/server/utils"
)

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// PETDor-Version and PETDor-Revision are added dynamically in SetResponseHeaders.
	baseHeaders = http.Header{
		// Partner sites are opened with rel="noopener noreferrer" as well.
		"Referrer-Policy":        {"no-referrer"},
		"X-Frame-Options":        {"DENY"},
		"X-Content-Type-Options": {"nosniff"},
		"Permissions-Policy":     {strings.Join(defaultPermissionsPolicy, ", ")},
	}

	// baseCSP defines static CSP directives that don't change.
	baseCSP = []string{
		"base-uri 'self'",
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self'",
		"font-src 'self'",
		"connect-src 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}

	defaultPermissionsPolicy = []string{
		"accelerometer=()",
		"camera=()",
		"display-capture=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"payment=()",
		"usb=()",
	}
)

// imgSrc is the img-src directive, precomputed by SetLogoOrigins.
var imgSrc atomic.Pointer[string]

// SetLogoOrigins computes the img-src directive for dir. With proxy set the
// browser only loads logos from this origin; otherwise every remote logo
// origin in dir is allowed.
func SetLogoOrigins(dir *partners.Directory, proxy bool) {
	directive := buildImgSrc(dir, proxy)
	imgSrc.Store(&directive)
}

func buildImgSrc(dir *partners.Directory, proxy bool) string {
	directive := "img-src 'self' data:"
	if proxy || dir == nil {
		return directive
	}

	var origins []string

	for _, p := range dir.RemoteLogos() {
		if origin := utils.GetOriginFromURL(p.Logo); origin != "" {
			origins = append(origins, origin)
		}
	}

	slices.Sort(origins)
	origins = slices.Compact(origins)

	if len(origins) > 0 {
		directive += " " + strings.Join(origins, " ")
	}

	return directive
}

func buildCSP() string {
	directive := "img-src 'self' data:"
	if p := imgSrc.Load(); p != nil {
		directive = *p
	}

	return strings.Join(append(slices.Clone(baseCSP), directive), "; ") + ";"
}

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	setCacheControl(headers, r.URL.Path)

	headers.Set("PETDor-Version", config.BuildVersion)
	headers.Set("PETDor-Revision", config.Global.Build.Revision())
	headers.Set("Content-Security-Policy", buildCSP())

	next.ServeHTTP(w, r)
}

var firstDevResponse atomic.Bool

// invalidateCacheInDevelopment clears the browser cache on the first response
// after a restart in development.
func invalidateCacheInDevelopment(headers http.Header) {
	if firstDevResponse.CompareAndSwap(false, true) {
		headers.Set("Clear-Site-Data", `"cache"`)
	}
}

// setCacheControl sets the default cache policy for path. Handlers may override it.
func setCacheControl(headers http.Header, path string) {
	// Default to only storing in the browser cache and forcing revalidation
	cacheDuration := "private, no-cache"

	switch {
	// CSS is cache-busted by the ?v= instance ID (1 week)
	case strings.HasPrefix(path, "/css/"):
		cacheDuration = "max-age=604800"
	// Images can be cached for 2 weeks
	case strings.HasPrefix(path, "/img/"):
		cacheDuration = "max-age=1209600"
	// robots.txt (1 day)
	case strings.HasSuffix(path, ".txt"):
		cacheDuration = "max-age=86400"
	}

	headers.Set("Cache-Control", cacheDuration)
}
