// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestLoadConfig focuses on verifying main functionality (precedence and
rejection of invalid input), and *shouldn't* need exhaustive scenarios.

These tests use t.Setenv and therefore cannot run in parallel.
*/

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name: "Valid configuration",
			env: map[string]string{
				"PETDOR_HOST": "localhost",
				"PETDOR_PORT": "9090",
			},
		},
		{
			name: "Invalid log level",
			env: map[string]string{
				"PETDOR_LOG_LEVEL": "verbose",
			},
			wantErr: true,
		},
		{
			name: "Invalid website URL",
			env: map[string]string{
				"PETDOR_WEBSITE_URL": "petdor.com",
			},
			wantErr: true,
		},
		{
			name: "Invalid contact email",
			env: map[string]string{
				"PETDOR_CONTACT_EMAIL": "not-an-email",
			},
			wantErr: true,
		},
		{
			name: "Invalid logo cache size",
			env: map[string]string{
				"PETDOR_LOGO_CACHE_SIZE": "0",
			},
			wantErr: true,
		},
		{
			name: "Limiter with out of range prefix",
			env: map[string]string{
				"PETDOR_LIMITER":             "true",
				"PETDOR_LIMITER_IPV4_PREFIX": "33",
			},
			wantErr: true,
		},
		{
			name: "Zero logo fetch attempts",
			env: map[string]string{
				"PETDOR_LOGO_FETCH_ATTEMPTS": "0",
			},
			wantErr: true,
		},
		{
			name: "Unparseable duration",
			env: map[string]string{
				"PETDOR_LOGO_FETCH_TIMEOUT": "ten seconds",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PETDOR_CONFIGFILE", filepath.Join(t.TempDir(), "missing.yaml"))

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &ServerConfig{}

			err := cfg.LoadConfig()
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.env["PETDOR_HOST"], cfg.Basic.Host)
			assert.Equal(t, tt.env["PETDOR_PORT"], cfg.Basic.Port)
			assert.NotEmpty(t, cfg.Instance.FileServerCacheID)
		})
	}
}

func TestLoadConfigYAMLAndEnvPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
basic:
  host: 0.0.0.0
  port: "8000"
partners:
  file: ./partners.yaml
  proxyLogos: true
  logoFetchTimeout: 3s
limiter:
  enabled: true
  passList:
    - 10.0.0.0/8
`)

	t.Setenv("PETDOR_CONFIGFILE", path)
	// overwrite-tagged variables win over the file.
	t.Setenv("PETDOR_PORT", "8001")

	cfg := &ServerConfig{}
	require.NoError(t, cfg.LoadConfig())

	assert.Equal(t, "0.0.0.0", cfg.Basic.Host)
	assert.Equal(t, "8001", cfg.Basic.Port)
	assert.Equal(t, "./partners.yaml", cfg.Partners.File)
	assert.True(t, cfg.Partners.ProxyLogos)
	assert.Equal(t, 3*time.Second, cfg.Partners.LogoFetchTimeout)
	assert.True(t, cfg.Limiter.Enabled)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Limiter.PassIPs)
	// defaults survive when the file does not mention them
	assert.Equal(t, 24, cfg.Limiter.IPv4Prefix)
}

func TestLoadConfigRejectsUnknownYAMLKeys(t *testing.T) {
	path := writeConfigFile(t, "basic:\n  hots: localhost\n")

	t.Setenv("PETDOR_CONFIGFILE", path)

	cfg := &ServerConfig{}
	assert.Error(t, cfg.LoadConfig())
}

func TestParseFileMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    os.FileMode
		wantErr bool
	}{
		{raw: "", want: 0o666},
		{raw: "660", want: 0o660},
		{raw: "0600", want: 0o600},
		{raw: "rw-rw----", want: 0o660},
		{raw: "rwxr-xr-x", want: 0o755},
		{raw: "999", wantErr: true},
		{raw: "rw-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			got, err := parseFileMode(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, errUnixSocketInvalidPermissions)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShouldSkipServerLogging(t *testing.T) {
	t.Parallel()

	cfg := &ServerConfig{}

	assert.True(t, cfg.ShouldSkipServerLogging("/css/petdor.css"))
	assert.False(t, cfg.ShouldSkipServerLogging("/partners"))
	assert.False(t, cfg.ShouldSkipServerLogging("/proxy/logo/acme"))

	cfg.Development.InDevelopment = true
	assert.True(t, cfg.ShouldSkipServerLogging("/proxy/logo/acme"))
}

func TestBuildInfoRevision(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unknown", (&buildInfo{}).Revision())

	b := buildInfo{VcsRevision: "0123456789abcdef", VcsTime: "2025-06-01T10:00:00Z", VcsModified: true}
	assert.Equal(t, "2025-06-01-01234567+dirty", b.Revision())
}
