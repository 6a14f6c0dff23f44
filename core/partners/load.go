// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package partners

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

//go:embed data/default.yaml
var defaultDirectory []byte

// file is the on-disk layout of a partner directory.
type file struct {
	Partners []Partner `yaml:"partners"`
}

// Load parses a YAML partner directory from r.
func Load(r io.Reader) (*Directory, error) {
	var f file

	if err := yaml.NewDecoder(r, yaml.DisallowUnknownField()).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode partner directory: %w", err)
	}

	dir, err := NewDirectory(f.Partners)
	if err != nil {
		return nil, fmt.Errorf("invalid partner directory: %w", err)
	}

	return dir, nil
}

// LoadFile parses the YAML partner directory at path.
func LoadFile(path string) (*Directory, error) {
	fh, err := os.Open(path) // #nosec G304 -- path comes from the server configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open partner directory: %w", err)
	}
	defer fh.Close()

	dir, err := Load(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return dir, nil
}

// Default returns the built-in partner directory.
func Default() (*Directory, error) {
	return Load(bytes.NewReader(defaultDirectory))
}
