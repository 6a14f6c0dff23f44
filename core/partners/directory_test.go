// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package partners

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPartner(slug string) Partner {
	return Partner{
		Slug: slug,
		Name: strings.ToUpper(slug),
		Logo: "https://cdn.example.com/" + slug + ".png",
		URL:  "https://" + slug + ".example.com",
		Tier: TierSilver,
	}
}

func TestCardInput(t *testing.T) {
	t.Parallel()

	p := Partner{
		Slug: "acme",
		Name: "Acme Wellness",
		Logo: "https://acme.example/logo.png",
		URL:  "https://acme.example",
		Tier: TierGold,
	}

	assert.Equal(t, CardInput{
		Name: "Acme Wellness",
		Logo: "https://acme.example/logo.png",
		URL:  "https://acme.example",
	}, p.CardInput())
}

func TestNewDirectoryValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Partner)
		wantErr error
	}{
		{name: "missing slug", mutate: func(p *Partner) { p.Slug = "" }, wantErr: ErrMissingSlug},
		{name: "upper-case slug", mutate: func(p *Partner) { p.Slug = "Acme" }, wantErr: ErrInvalidSlug},
		{name: "trailing hyphen", mutate: func(p *Partner) { p.Slug = "acme-" }, wantErr: ErrInvalidSlug},
		{name: "missing name", mutate: func(p *Partner) { p.Name = "" }, wantErr: ErrMissingName},
		{name: "relative url", mutate: func(p *Partner) { p.URL = "acme.example" }, wantErr: ErrInvalidURL},
		{name: "javascript url", mutate: func(p *Partner) { p.URL = "javascript:alert(1)" }, wantErr: ErrInvalidURL},
		{name: "scheme-relative logo", mutate: func(p *Partner) { p.Logo = "//cdn.example/x.png" }, wantErr: ErrInvalidLogo},
		{name: "bare logo", mutate: func(p *Partner) { p.Logo = "logo.png" }, wantErr: ErrInvalidLogo},
		{name: "unknown tier", mutate: func(p *Partner) { p.Tier = "platinum" }, wantErr: ErrUnknownTier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := validPartner("acme")
			tt.mutate(&p)

			_, err := NewDirectory([]Partner{p})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewDirectoryReportsEveryProblem(t *testing.T) {
	t.Parallel()

	bad := validPartner("bad")
	bad.Name = ""

	_, err := NewDirectory([]Partner{validPartner("a"), validPartner("a"), bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateSlug)
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestNewDirectoryDefaultsTier(t *testing.T) {
	t.Parallel()

	p := validPartner("plain")
	p.Tier = ""

	dir, err := NewDirectory([]Partner{p})
	require.NoError(t, err)

	got, ok := dir.Get("plain")
	require.True(t, ok)
	assert.Equal(t, TierCommunity, got.Tier)
}

func TestDirectoryOrdering(t *testing.T) {
	t.Parallel()

	zeta := validPartner("zeta")
	zeta.Name = "Zeta"

	alpha := validPartner("alpha")
	alpha.Name = "Alpha"

	first := validPartner("first")
	first.Name = "Omega"
	first.Order = -1

	gold := validPartner("gold")
	gold.Tier = TierGold

	community := validPartner("community")
	community.Tier = TierCommunity

	dir, err := NewDirectory([]Partner{community, zeta, alpha, gold, first})
	require.NoError(t, err)

	slugs := make([]string, 0, dir.Len())
	for _, p := range dir.All() {
		slugs = append(slugs, p.Slug)
	}

	assert.Equal(t, []string{"gold", "first", "alpha", "zeta", "community"}, slugs)

	groups := dir.ByTier()
	require.Len(t, groups, 3)
	assert.Equal(t, TierGold, groups[0].Tier)
	assert.Equal(t, TierSilver, groups[1].Tier)
	assert.Len(t, groups[1].Partners, 3)
	assert.Equal(t, TierCommunity, groups[2].Tier)
}

func TestDirectoryAllReturnsCopy(t *testing.T) {
	t.Parallel()

	dir, err := NewDirectory([]Partner{validPartner("acme")})
	require.NoError(t, err)

	all := dir.All()
	all[0].Name = "changed"

	got, _ := dir.Get("acme")
	assert.Equal(t, "ACME", got.Name)

	_, ok := dir.Get("missing")
	assert.False(t, ok)
}

func TestRemoteLogos(t *testing.T) {
	t.Parallel()

	local := validPartner("local")
	local.Logo = "/img/partners/local.svg"

	dir, err := NewDirectory([]Partner{local, validPartner("remote")})
	require.NoError(t, err)

	remote := dir.RemoteLogos()
	require.Len(t, remote, 1)
	assert.Equal(t, "remote", remote[0].Slug)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir, err := Load(strings.NewReader(`
partners:
  - slug: acme
    name: Acme Wellness
    logo: https://acme.example/logo.png
    url: https://acme.example
    tier: gold
    description: Example partner
`))
	require.NoError(t, err)
	require.Equal(t, 1, dir.Len())

	p, ok := dir.Get("acme")
	require.True(t, ok)
	assert.Equal(t, "Example partner", p.Description)
	assert.Equal(t, TierGold, p.Tier)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := Load(strings.NewReader("partners:\n  - slug: acme\n    nmae: typo\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partners.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
partners:
  - slug: acme
    name: Acme
    logo: /img/acme.svg
    url: http://acme.example
`), 0o600))

	dir, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, dir.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	dir, err := Default()
	require.NoError(t, err)
	assert.Positive(t, dir.Len())

	acme, ok := dir.Get("acme-wellness")
	require.True(t, ok)
	assert.Equal(t, "Acme Wellness", acme.Name)
}
