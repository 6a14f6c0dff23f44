// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/petdor/petdor/config"
	"codeberg.org/petdor/petdor/core/logos"
	"codeberg.org/petdor/petdor/server/assets"
	"codeberg.org/petdor/petdor/server/middleware"
	"codeberg.org/petdor/petdor/server/routes"
)

// DefineRoutes registers every route served from site.
//
// Middleware is registered separately by RegisterMiddleware.
func (router *Router) DefineRoutes(site *routes.Site) {
	fileServerHandler := fileServer()

	// Serve specific files from the root of the 'assets' subdirectory.
	router.Handle("GET /robots.txt", fileServerHandler)

	// Patterns ending in "/" are prefix matches.
	router.Handle("GET /img/", fileServerHandler)
	router.Handle("GET /css/", fileServerHandler)

	// Partner routes
	router.HandleFunc("GET /partners", middleware.CatchError(site.PartnersPage))
	router.HandleFunc("GET /partners/{slug}", middleware.CatchError(site.PartnerPage))

	// REST API routes
	router.HandleFunc("GET /api/partners", middleware.CatchError(site.PartnersAPI))

	// Logo proxy
	if site.Logos != nil {
		router.HandleFunc("GET "+logos.ProxyPathPrefix+"{slug}", middleware.CatchError(site.LogoProxy))
	}

	// About routes
	router.HandleFunc("GET /about", middleware.CatchError(site.AboutPage))

	// Settings routes
	router.HandleFunc("GET /settings/lang", middleware.CatchError(routes.SetLanguage))

	// Redirects from the previous site
	router.HandleFunc("GET /parceiros", redirectLocalized("/partners", "pt-BR"))
	router.HandleFunc("GET /sobre", redirectLocalized("/about", "pt-BR"))
	router.HandleFunc("GET /parceiro.php", redirectWithQueryParam("/partners/", "id"))

	if config.Global.Development.InDevelopment {
		router.HandleFunc("GET /dev/components", middleware.CatchError(site.ComponentsPage))
		registerDebugRoutes(router)
	}

	// Index page routes
	// /{$} matches only the root path
	router.Handle("GET /{$}", http.RedirectHandler("/partners", http.StatusFound))

	// Everything else renders the error page.
	router.HandleFunc("/", middleware.CatchError(notFound))
}

func notFound(w http.ResponseWriter, r *http.Request) error {
	return &routes.NotFoundError{What: r.URL.Path}
}

// Serve static files from embedded assets.
func fileServer() http.HandlerFunc {
	staticContentFS, err := fs.Sub(assets.FS, "assets")
	if err != nil {
		panic(fmt.Errorf("failed to create sub-filesystem for embedded 'assets' directory: %w", err))
	}

	fileServer := http.FileServer(http.FS(staticContentFS))
	fileServerHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Using a strong ETag for static files embedded via go:embed
		// ref: https://www.rfc-editor.org/rfc/rfc9110#weak.and.strong.validators
		//
		// Since go:embed requires rebuilding when files change, we use a per-instance
		// cache ID to ensure browsers fetch fresh content after any deployment.
		w.Header().Set("ETag", `"`+config.Global.Instance.FileServerCacheID+`"`)
		fileServer.ServeHTTP(w, r)
	})

	return fileServerHandler
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	if !flightRecorder.Enabled() {
		if err := flightRecorder.Start(); err != nil {
			panic(err)
		}
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, r *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
