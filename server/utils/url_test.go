// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils_test

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/petdor/petdor/server/utils"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		expected string
	}{
		{"Valid URL", "https://petdor.com", false, "https://petdor.com"},
		{"Valid URL with path", "https://petdor.com/sobre", false, "https://petdor.com/sobre"},
		{"Missing scheme", "petdor.com", true, ""},
		{"Missing host", "https://", true, ""},
		{"Trailing slash", "https://petdor.com/", false, "https://petdor.com"},
		{"Empty URL", "", true, ""},
		{"URL with query params", "https://petdor.com/path?q=test", false, "https://petdor.com/path?q=test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := utils.ParseURL(tt.urlStr, "Test")
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestGetOriginFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "http://petdor.test/partners", nil)
	assert.Equal(t, "http://petdor.test", utils.GetOriginFromRequest(r))

	r.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://petdor.test", utils.GetOriginFromRequest(r))

	r.TLS = nil
	r.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://petdor.test", utils.GetOriginFromRequest(r))
}

func TestGetOriginFromURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://cdn.example.com", utils.GetOriginFromURL("https://cdn.example.com/logos/a.png"))
	assert.Empty(t, utils.GetOriginFromURL("/img/partners/a.svg"))
	assert.Empty(t, utils.GetOriginFromURL("::"))
}

func TestSanitizeReturnPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/partners":             "/partners",
		"  /about?lang=pt-BR  ": "/about?lang=pt-BR",
		"":                      "",
		"partners":              "",
		"//evil.example":        "",
		"https://evil.example":  "",
		`/\evil.example`:        "",
	}

	for in, want := range tests {
		assert.Equal(t, want, utils.SanitizeReturnPath(in), "input %q", in)
	}
}

func TestIsConnectionSecure(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.2:4000"
	assert.False(t, utils.IsConnectionSecure(r))

	r.Header.Set("X-Forwarded-Proto", "https")
	assert.True(t, utils.IsConnectionSecure(r))

	r.RemoteAddr = "203.0.113.9:4000"
	assert.False(t, utils.IsConnectionSecure(r), "public peers cannot claim https")

	r.TLS = &tls.ConnectionState{}
	assert.True(t, utils.IsConnectionSecure(r))
}
