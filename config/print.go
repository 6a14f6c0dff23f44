// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// listenAddress describes where the server listens, for logging.
func (cfg *ServerConfig) listenAddress() string {
	if cfg.Basic.UnixSocket != "" {
		return "unix:" + cfg.Basic.UnixSocket
	}

	return cfg.Basic.Host + ":" + cfg.Basic.Port
}

// print logs a startup summary. The full configuration is logged at debug level.
func (cfg *ServerConfig) print() {
	partnersFile := cfg.Partners.File
	if partnersFile == "" {
		partnersFile = "(built-in)"
	}

	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("cacheid", cfg.Instance.FileServerCacheID).
		Str("listen", cfg.listenAddress()).
		Str("partners", partnersFile).
		Bool("proxy_logos", cfg.Partners.ProxyLogos).
		Bool("limiter", cfg.Limiter.Enabled).
		Bool("development", cfg.Development.InDevelopment).
		Msg("Starting PETDor")

	if !log.Debug().Enabled() {
		return
	}

	configYAML, err := yaml.MarshalWithOptions(*cfg, GetDurationEncoderOption())
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Debug().
		Str("config", string(configYAML)).
		Msg("Application configuration")
}
