// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/petdor/petdor/config"
	"codeberg.org/petdor/petdor/server/middleware"
	"codeberg.org/petdor/petdor/server/middleware/limiter"
	"codeberg.org/petdor/petdor/server/middleware/set_request_context"
	"codeberg.org/petdor/petdor/server/routes"
)

func (router *Router) RegisterMiddleware(site *routes.Site) {
	middleware.SetLogoOrigins(site.Partners, site.Logos != nil)

	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.Compress)
	router.Use(middleware.NormalizeURL)                // trailing slashes and /pt-BR/ prefixes
	router.Use(set_request_context.WithRequestContext) // needed for everything else
	router.Use(middleware.SetResponseHeaders)          // all pages need this

	if config.Global.Limiter.Enabled {
		limiter.Init()

		router.Use(limiter.Evaluate)
	}
}
