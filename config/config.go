// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	_ "codeberg.org/petdor/petdor/core/audit" // setup better logging format
	"codeberg.org/petdor/petdor/core/idgen"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"PETDOR_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"PETDOR_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"PETDOR_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"PETDOR_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"PETDOR_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"PETDOR_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
	} `yaml:"basic"`

	Partners struct {
		// File is a YAML partner directory. The built-in directory is used when empty.
		File             string        `env:"PETDOR_PARTNERS_FILE,overwrite" yaml:"file"`
		ProxyLogos       bool          `env:"PETDOR_PROXY_LOGOS,overwrite" yaml:"proxyLogos"`
		PrefetchLogos    bool          `env:"PETDOR_PREFETCH_LOGOS,overwrite" yaml:"prefetchLogos"`
		LogoCacheSize    int           `env:"PETDOR_LOGO_CACHE_SIZE,overwrite" yaml:"logoCacheSize"`
		LogoMaxBytes     int           `env:"PETDOR_LOGO_MAX_BYTES,overwrite" yaml:"logoMaxBytes"`
		LogoFetchTimeout time.Duration `env:"PETDOR_LOGO_FETCH_TIMEOUT,overwrite" yaml:"logoFetchTimeout"`
		// LogoFetchAttempts bounds tries per logo; 429/5xx and network errors are retried.
		LogoFetchAttempts int `env:"PETDOR_LOGO_FETCH_ATTEMPTS,overwrite" yaml:"logoFetchAttempts"`
	} `yaml:"partners"`

	HTTPCache struct {
		MaxAge               time.Duration `env:"PETDOR_CACHE_CONTROL_MAX_AGE,overwrite" yaml:"cacheControlMaxAge"`
		StaleWhileRevalidate time.Duration `env:"PETDOR_CACHE_CONTROL_STALE_WHILE_REVALIDATE,overwrite" yaml:"cacheControlStaleWhileRevalidate"`
	} `yaml:"httpCache"`

	Instance struct {
		StartingTime      string `yaml:"-"`
		FileServerCacheID string `yaml:"-"`
		RepoURL           string `env:"PETDOR_REPO_URL,overwrite" yaml:"repoUrl"`
		ContactEmail      string `env:"PETDOR_CONTACT_EMAIL,overwrite" yaml:"contactEmail"`
		WebsiteURL        string `env:"PETDOR_WEBSITE_URL,overwrite" yaml:"websiteUrl"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment bool `env:"PETDOR_DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"PETDOR_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"PETDOR_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"PETDOR_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Limiter struct {
		Enabled    bool     `env:"PETDOR_LIMITER,overwrite" yaml:"enabled"`
		PassIPs    []string `env:"PETDOR_LIMITER_PASS_IPS,overwrite" yaml:"passList"`
		BlockIPs   []string `env:"PETDOR_LIMITER_BLOCK_IPS,overwrite" yaml:"blockList"`
		IPv4Prefix int      `env:"PETDOR_LIMITER_IPV4_PREFIX,overwrite" yaml:"ipv4Prefix"`
		IPv6Prefix int      `env:"PETDOR_LIMITER_IPV6_PREFIX,overwrite" yaml:"ipv6Prefix"`
		// Rate is the sustained number of requests per second allowed per network.
		Rate  int `env:"PETDOR_LIMITER_RATE,overwrite" yaml:"rate"`
		Burst int `env:"PETDOR_LIMITER_BURST,overwrite" yaml:"burst"`
	} `yaml:"limiter"`

	Internationalization struct {
		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged (deduplicated per locale+key) and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"PETDOR_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// LoadConfig fills cfg from defaults, the YAML file, a .env file and the
// environment, in that order, then validates the result.
func (cfg *ServerConfig) LoadConfig() error {
	path := configFilePath()

	cfg.SetDefaults()
	cfg.Build.load()

	cfg.Instance.FileServerCacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(path); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()
	cfg.print()

	if isContainerized() && !isWildcardHost(cfg.Basic.Host) {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Host is not a wildcard address inside a container; PETDor may be unreachable from outside")
	}

	return nil
}

var (
	quietPathPrefixes    = []string{"/img/", "/css/"}
	devQuietPathPrefixes = []string{logoProxyPathPrefix}
)

// logoProxyPathPrefix mirrors logos.ProxyPathPrefix; config cannot import logos.
const logoProxyPathPrefix = "/proxy/logo/"

// ShouldSkipServerLogging reports whether requests for path are left out of
// the request log. Static assets always are; proxied logos only in development.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	hasPrefix := func(prefix string) bool { return strings.HasPrefix(path, prefix) }

	if slices.ContainsFunc(quietPathPrefixes, hasPrefix) {
		return true
	}

	return cfg.Development.InDevelopment && slices.ContainsFunc(devQuietPathPrefixes, hasPrefix)
}

func isWildcardHost(host string) bool {
	return host == "0.0.0.0" || host == "::"
}

// containerMarkers are substrings of /proc/self/cgroup seen under common runtimes.
var containerMarkers = []string{"docker", "kubepods", "containerd", "lxc", "crio"}

// isContainerized guesses whether the process runs inside a container.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	if fileExists("/.dockerenv") || fileExists("/.containerenv") {
		return true
	}

	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}

	return slices.ContainsFunc(containerMarkers, func(marker string) bool {
		return strings.Contains(string(cgroup), marker)
	})
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
