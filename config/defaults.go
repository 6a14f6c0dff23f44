// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default HTTP cache max age in seconds.
	defaultHTTPCacheMaxAgeSeconds = 300
	// Default HTTP cache stale while revalidate in seconds.
	defaultHTTPCacheStaleWhileRevalidateSeconds = 600

	defaultLogoCacheSize = 64
	// 512 KiB is plenty for a partner logo.
	defaultLogoMaxBytes      = 512 * 1024
	defaultLogoFetchTimeoutS = 10
	defaultLogoFetchAttempts = 3
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8383"

	cfg.Partners.File = ""
	cfg.Partners.ProxyLogos = false
	cfg.Partners.PrefetchLogos = false
	cfg.Partners.LogoCacheSize = defaultLogoCacheSize
	cfg.Partners.LogoMaxBytes = defaultLogoMaxBytes
	cfg.Partners.LogoFetchTimeout = defaultLogoFetchTimeoutS * time.Second
	cfg.Partners.LogoFetchAttempts = defaultLogoFetchAttempts

	cfg.HTTPCache.MaxAge = defaultHTTPCacheMaxAgeSeconds * time.Second
	cfg.HTTPCache.StaleWhileRevalidate = defaultHTTPCacheStaleWhileRevalidateSeconds * time.Second

	cfg.Instance.RepoURL = "https://codeberg.org/petdor/petdor"
	cfg.Instance.ContactEmail = "suporte@petdor.com"
	cfg.Instance.WebsiteURL = "https://petdor.com"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Limiter.Enabled = false
	cfg.Limiter.IPv4Prefix = 24
	cfg.Limiter.IPv6Prefix = 48
	cfg.Limiter.Rate = 5
	cfg.Limiter.Burst = 60

	cfg.Internationalization.StrictMissingKeys = false
}
