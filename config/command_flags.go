// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"os"
)

const (
	configFlag        = "config"
	configFileEnv     = "PETDOR_CONFIGFILE"
	defaultConfigYAML = "./config.yaml"
	fallbackConfigYML = "./config.yml"
)

// configFilePath picks the YAML file to read. An explicit -config flag wins,
// then PETDOR_CONFIGFILE, then ./config.yaml with ./config.yml as a fallback.
func configFilePath() string {
	if flag.Lookup(configFlag) == nil {
		flag.String(configFlag, defaultConfigYAML, "Path to a PETDor configuration file in YAML format.")
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	explicit := false

	flag.Visit(func(f *flag.Flag) {
		explicit = explicit || f.Name == configFlag
	})

	if explicit {
		return flag.Lookup(configFlag).Value.String()
	}

	if path := os.Getenv(configFileEnv); path != "" {
		return path
	}

	if fileExists(defaultConfigYAML) || !fileExists(fallbackConfigYML) {
		return defaultConfigYAML
	}

	return fallbackConfigYML
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
