// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
PETDor serves the partner directory of the PETDor veterinary platform.
*/
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/petdor/petdor/config"
	"codeberg.org/petdor/petdor/core/audit"
	"codeberg.org/petdor/petdor/core/logos"
	"codeberg.org/petdor/petdor/core/partners"
	"codeberg.org/petdor/petdor/i18n"
	"codeberg.org/petdor/petdor/server/assets"
	"codeberg.org/petdor/petdor/server/middleware/limiter"
	"codeberg.org/petdor/petdor/server/router"
	"codeberg.org/petdor/petdor/server/routes"
	"codeberg.org/petdor/petdor/server/utils"
)

const (
	// Values for http.Server timeouts.
	// ref: gosec: G112
	readHeaderTimeout time.Duration = 15 * time.Second
	readTimeout       time.Duration = 15 * time.Second
	writeTimeout      time.Duration = 10 * time.Second
	idleTimeout       time.Duration = 30 * time.Second

	serverShutdownDeadline time.Duration = 5 * time.Second

	prefetchConcurrency = 4
	logoRetryDelay      = 250 * time.Millisecond
)

// embeddedContent holds the static files and gettext catalogues.
//
//go:embed assets/css assets/img assets/robots.txt
//go:embed all:po
var embeddedContent embed.FS

//nolint:gochecknoinits
func init() {
	assets.FS = embeddedContent
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("PETDor stopped")
	}
}

// run loads configuration, builds the site and serves it until SIGINT or SIGTERM.
func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := i18n.Setup(assets.FS, config.Global.Internationalization.StrictMissingKeys); err != nil {
		return fmt.Errorf("failed to initialize i18n engine: %w", err)
	}

	site, err := newSite()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer limiter.Fini()

	return serve(ctx, router.New(site))
}

// serve runs an http.Server for handler until ctx is cancelled, then shuts it
// down within serverShutdownDeadline.
func serve(ctx context.Context, handler http.Handler) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	ln, err := listen(ctx)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	served := make(chan error, 1)

	go func() { served <- server.Serve(ln) }()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownDeadline)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("forced shutdown: %w", err)
		}

		log.Info().Msg("Server exited gracefully")

		return nil
	}
}

// newSite loads the partner directory and, when enabled, the logo proxy.
func newSite() (*routes.Site, error) {
	cfg := config.Global.Partners

	var (
		dir *partners.Directory
		err error
	)

	if cfg.File != "" {
		dir, err = partners.LoadFile(cfg.File)
	} else {
		dir, err = partners.Default()
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load partner directory: %w", err)
	}

	log.Info().
		Int("partners", dir.Len()).
		Str("file", cfg.File).
		Msg("Loaded partner directory")

	if !cfg.ProxyLogos {
		return routes.NewSite(dir, nil), nil
	}

	store, err := logos.NewStore(logos.Options{
		CacheSize:    cfg.LogoCacheSize,
		MaxBytes:     int64(cfg.LogoMaxBytes),
		FetchTimeout: cfg.LogoFetchTimeout,
		Attempts:     uint(cfg.LogoFetchAttempts), // #nosec G115 -- validated positive
		RetryDelay:   logoRetryDelay,
		Client:       utils.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	if cfg.PrefetchLogos {
		go func() {
			remote := dir.RemoteLogos()

			fetched, err := store.Prefetch(context.Background(), remote, prefetchConcurrency)
			if err != nil {
				log.Warn().Err(err).Msg("Logo prefetch stopped")
			}

			log.Info().
				Int("fetched", fetched).
				Int("remote", len(remote)).
				Msg("Prefetched partner logos")
		}()
	}

	return routes.NewSite(dir, store), nil
}
