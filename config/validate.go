// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"os/user"
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/petdor/petdor/server/utils"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errInvalidLogLevel              = errors.New("invalid Log.Level value")
	errInvalidLogFormat             = errors.New("invalid Log.Format value")
	errInvalidLogoCacheSize         = errors.New("Partners.LogoCacheSize must be positive")
	errInvalidLogoMaxBytes          = errors.New("Partners.LogoMaxBytes must be positive")
	errInvalidLogoFetchTimeout      = errors.New("Partners.LogoFetchTimeout must be positive")
	errInvalidLogoFetchAttempts     = errors.New("Partners.LogoFetchAttempts must be positive")
	errInvalidContactEmail          = errors.New("invalid Instance.ContactEmail")
	errInvalidIPv4Prefix            = errors.New("IPv4 prefix must be between 0 and 32")
	errInvalidIPv6Prefix            = errors.New("IPv6 prefix must be between 0 and 128")
	errInvalidLimiterRate           = errors.New("Limiter.Rate and Limiter.Burst must be positive")
)

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
)

// validateAndSet validates the server configuration and populates derived fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	repoURL, err := utils.ParseURL(cfg.Instance.RepoURL, "Repo")
	if err != nil {
		return fmt.Errorf("invalid repo URL: %w", err)
	}

	cfg.Instance.RepoURL = repoURL.String()

	websiteURL, err := utils.ParseURL(cfg.Instance.WebsiteURL, "Website")
	if err != nil {
		return fmt.Errorf("invalid website URL: %w", err)
	}

	cfg.Instance.WebsiteURL = websiteURL.String()

	if cfg.Instance.ContactEmail != "" {
		if _, err := mail.ParseAddress(cfg.Instance.ContactEmail); err != nil {
			return fmt.Errorf("%w: %w", errInvalidContactEmail, err)
		}
	}

	if cfg.Partners.LogoCacheSize <= 0 {
		return errInvalidLogoCacheSize
	}

	if cfg.Partners.LogoMaxBytes <= 0 {
		return errInvalidLogoMaxBytes
	}

	if cfg.Partners.LogoFetchTimeout <= 0 {
		return errInvalidLogoFetchTimeout
	}

	if cfg.Partners.LogoFetchAttempts <= 0 {
		return errInvalidLogoFetchAttempts
	}

	// Skip validating Limiter configuration if it's not enabled
	if !cfg.Limiter.Enabled {
		return nil
	}

	if cfg.Limiter.IPv4Prefix < 0 || cfg.Limiter.IPv4Prefix > 32 {
		return errInvalidIPv4Prefix
	}

	if cfg.Limiter.IPv6Prefix < 0 || cfg.Limiter.IPv6Prefix > 128 {
		return errInvalidIPv6Prefix
	}

	if cfg.Limiter.Rate <= 0 || cfg.Limiter.Burst <= 0 {
		return errInvalidLimiterRate
	}

	return nil
}

// validateListener checks the TCP or unix socket listener settings.
func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8383"
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("Using default port")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	mode, err := parseFileMode(cfg.Basic.RawUnixSocketPermissions)
	if err != nil {
		return err
	}

	cfg.Basic.UnixSocketPermissions = mode

	if name := cfg.Basic.UnixSocketUser; name != "" {
		lookup := user.Lookup
		if digitsRegexp.MatchString(name) {
			lookup = user.LookupId
		}

		if _, err := lookup(name); err != nil {
			return errUnixSocketUserDoesNotExist
		}
	}

	if name := cfg.Basic.UnixSocketGroup; name != "" {
		lookup := user.LookupGroup
		if digitsRegexp.MatchString(name) {
			lookup = user.LookupGroupId
		}

		if _, err := lookup(name); err != nil {
			return errUnixSocketGroupDoesNotExist
		}
	}

	return nil
}

// parseFileMode accepts octal ("660", "0660") or symbolic ("rw-rw----") permissions.
// An empty value means 0o666.
func parseFileMode(raw string) (os.FileMode, error) {
	switch {
	case raw == "":
		return 0o666, nil

	case fileModeOctalRegexp.MatchString(raw):
		n, _ := strconv.ParseUint(raw, 8, 32)

		return os.FileMode(n), nil

	case fileModeStringRegexp.MatchString(raw):
		var mode os.FileMode

		for i, c := range raw {
			if c != '-' {
				mode |= 1 << (8 - i)
			}
		}

		return mode, nil

	default:
		return 0, errUnixSocketInvalidPermissions
	}
}
