// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"

	"codeberg.org/petdor/petdor/config"
	"codeberg.org/petdor/petdor/core/partners"
)

const (
	envHeader = `# PETDor configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	yamlHeader = `# PETDor configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	partnersHeader = `# PETDor partner directory
#
# Point partners.file (PETDOR_PARTNERS_FILE) at a copy of this file.
# tier is one of gold, silver, bronze or community (the default).
# logo is a root-relative path under /img or an absolute http(s) URL.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	proxyEnvComment = `## Network proxy for logo fetches
## ref: https://pkg.go.dev/net/http#ProxyFromEnvironment
# HTTPS_PROXY=
# HTTP_PROXY=
`
)

// enabledEnvVars are written uncommented in the .env example.
var enabledEnvVars = map[string]bool{
	"PETDOR_HOST": true,
	"PETDOR_PORT": true,
}

// yamlComments are written above the matching YAML key.
var yamlComments = map[string]string{
	"file":       "# -- A YAML partner directory. The built-in directory is used when unset.",
	"proxyLogos": "# -- Serve remote partner logos from /proxy/logo/ so visitors never contact logo hosts.",
}

// envField is one configuration field bound to an environment variable.
type envField struct {
	section string
	name    string
	value   reflect.Value
}

// envFields lists the env-bound fields of cfg, grouped by top-level section.
func envFields(cfg *config.ServerConfig) []envField {
	var out []envField

	val := reflect.ValueOf(cfg).Elem()

	for i := range val.NumField() {
		section := val.Type().Field(i)
		sectionVal := val.Field(i)

		if sectionVal.Kind() != reflect.Struct || section.Tag.Get("yaml") == "-" {
			continue
		}

		for j := range sectionVal.NumField() {
			tag, ok := sectionVal.Type().Field(j).Tag.Lookup("env")
			if !ok {
				continue
			}

			name, _, _ := strings.Cut(tag, ",")
			out = append(out, envField{section: section.Name, name: name, value: sectionVal.Field(j)})
		}
	}

	return out
}

func writeEnv(w io.Writer, cfg *config.ServerConfig) {
	fmt.Fprint(w, envHeader+"\n")

	section := ""

	for _, f := range envFields(cfg) {
		if f.section != section {
			if section != "" {
				fmt.Fprintln(w)
			}

			section = f.section
			fmt.Fprintf(w, "## %s\n", section)
		}

		value := fmt.Sprint(f.value.Interface())
		if f.value.Kind() == reflect.Slice {
			value = ""
		}

		switch {
		case enabledEnvVars[f.name]:
			fmt.Fprintf(w, "%s=%q\n", f.name, value)
		case value == "":
			fmt.Fprintf(w, "# %s=\n", f.name)
		default:
			fmt.Fprintf(w, "# %s=%s\n", f.name, value)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, proxyEnvComment)
}

// writeYAML writes cfg as YAML with every value commented out.
func writeYAML(w io.Writer, cfg *config.ServerConfig) error {
	var raw bytes.Buffer
	if err := yaml.NewEncoder(&raw, config.GetDurationEncoderOption(), yaml.Indent(2)).Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Fprint(w, yamlHeader)

	for line := range strings.SplitSeq(raw.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Top-level keys are section headers.
		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(w, "\n%s\n", line)

			continue
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " "))]

		key, _, _ := strings.Cut(trimmed, ":")
		if comment, ok := yamlComments[key]; ok {
			fmt.Fprintf(w, "%s%s\n", indent, comment)
		}

		fmt.Fprintf(w, "%s# %s\n", indent, trimmed)
	}

	return nil
}

// writePartners writes the built-in partner directory.
func writePartners(w *bytes.Buffer) error {
	dir, err := partners.Default()
	if err != nil {
		return err
	}

	out, err := yaml.MarshalWithOptions(map[string][]partners.Partner{"partners": dir.All()}, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return fmt.Errorf("failed to marshal partners: %w", err)
	}

	w.WriteString(partnersHeader)
	w.WriteString("\n")
	w.Write(out)

	return nil
}
