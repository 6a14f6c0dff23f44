// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"fmt"
	"net/http"
	"strings"

	"codeberg.org/petdor/petdor/config"
	"codeberg.org/petdor/petdor/core/partners"
)

// maxPreloadedLogos caps the Link header size.
const maxPreloadedLogos = 6

// setPublicCacheControl marks the response as cacheable for the configured duration.
func setPublicCacheControl(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d",
		int(config.Global.HTTPCache.MaxAge.Seconds()),
		int(config.Global.HTTPCache.StaleWhileRevalidate.Seconds())))
}

// makePreloadImageLink returns a Link header fragment to preload an image with high priority.
func makePreloadImageLink(url string) string {
	return fmt.Sprintf("<%s>; rel=\"preload\"; as=\"image\"; fetchpriority=\"high\"", url)
}

// makePrefetchImageLink returns a Link header fragment to prefetch an image with low priority.
func makePrefetchImageLink(url string) string {
	return fmt.Sprintf("<%s>; rel=\"prefetch\"; as=\"image\"; fetchpriority=\"low\"", url)
}

// preloadLogos writes one Link header that preloads the logos of the first
// tier and prefetches the rest, up to maxPreloadedLogos in total.
func preloadLogos(w http.ResponseWriter, groups []partners.TierGroup, card func(partners.Partner) partners.CardInput) {
	var linkValues []string

	for i, group := range groups {
		for _, p := range group.Partners {
			if len(linkValues) == maxPreloadedLogos {
				break
			}

			logo := card(p).Logo
			if logo == "" {
				continue
			}

			if i == 0 {
				linkValues = append(linkValues, makePreloadImageLink(logo))
			} else {
				linkValues = append(linkValues, makePrefetchImageLink(logo))
			}
		}
	}

	// Only write a single Link header, joined by commas (RFC 8288 friendly).
	if len(linkValues) > 0 {
		w.Header().Add("Link", strings.Join(linkValues, ", "))
	}
}
