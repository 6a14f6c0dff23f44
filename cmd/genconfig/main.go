// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Command genconfig writes example configuration files from the defaults:

	deploy/.env.example          environment variables
	deploy/config.yaml.example   YAML configuration file
	deploy/partners.yaml.example partner directory (the built-in one)

Run it from the repository root with go run ./cmd/genconfig.
*/
package main

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"codeberg.org/petdor/petdor/config"
	"codeberg.org/petdor/petdor/core/audit"
)

const (
	outputDir = "deploy"
	filePerm  = 0o644
)

func main() {
	audit.SetDefaultLogger()

	cfg := &config.ServerConfig{}
	cfg.SetDefaults()

	outputs := []struct {
		name     string
		generate func(*bytes.Buffer) error
	}{
		{".env.example", func(b *bytes.Buffer) error { writeEnv(b, cfg); return nil }},
		{"config.yaml.example", func(b *bytes.Buffer) error { return writeYAML(b, cfg) }},
		{"partners.yaml.example", writePartners},
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("path", outputDir).Msg("Failed to create output directory")
	}

	for _, out := range outputs {
		path := filepath.Join(outputDir, out.name)

		var buf bytes.Buffer
		if err := out.generate(&buf); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to generate file")
		}

		if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil { // #nosec G306
			log.Fatal().Err(err).Str("path", path).Msg("Failed to write file")
		}

		log.Info().Str("path", path).Msg("Generated example")
	}
}
