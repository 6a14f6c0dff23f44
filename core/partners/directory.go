// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package partners

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Validation errors returned (joined) by NewDirectory.
var (
	ErrMissingSlug   = errors.New("partner slug is required")
	ErrInvalidSlug   = errors.New("partner slug must be lower-case letters, digits and hyphens")
	ErrDuplicateSlug = errors.New("duplicate partner slug")
	ErrMissingName   = errors.New("partner name is required")
	ErrInvalidURL    = errors.New("partner url must be an absolute http(s) URL")
	ErrInvalidLogo   = errors.New("partner logo must be an absolute http(s) URL or a root-relative path")
	ErrUnknownTier   = errors.New("unknown partner tier")
)

// Directory is a validated, ordered, read-only set of partners.
type Directory struct {
	partners []Partner
	bySlug   map[string]int
}

// TierGroup is the partners of one tier, in display order.
type TierGroup struct {
	Tier     Tier
	Partners []Partner
}

// NewDirectory validates partners and returns them as a Directory.
//
// An empty tier defaults to community. Every invalid entry is reported; the
// returned error wraps the sentinel errors of this package.
func NewDirectory(partners []Partner) (*Directory, error) {
	dir := &Directory{
		partners: make([]Partner, 0, len(partners)),
		bySlug:   make(map[string]int, len(partners)),
	}

	var errs []error

	seen := make(map[string]bool, len(partners))

	for i, p := range partners {
		if p.Tier == "" {
			p.Tier = TierCommunity
		}

		if err := validatePartner(p); err != nil {
			errs = append(errs, fmt.Errorf("partner #%d (%q): %w", i+1, p.Slug, err))

			continue
		}

		if seen[p.Slug] {
			errs = append(errs, fmt.Errorf("partner #%d: %w: %s", i+1, ErrDuplicateSlug, p.Slug))

			continue
		}

		seen[p.Slug] = true
		dir.partners = append(dir.partners, p)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	slices.SortStableFunc(dir.partners, func(a, b Partner) int {
		return cmp.Or(
			cmp.Compare(a.Tier.rank(), b.Tier.rank()),
			cmp.Compare(a.Order, b.Order),
			cmp.Compare(a.Name, b.Name),
		)
	})

	for i, p := range dir.partners {
		dir.bySlug[p.Slug] = i
	}

	return dir, nil
}

// Len returns the number of partners.
func (d *Directory) Len() int {
	return len(d.partners)
}

// All returns every partner in display order. The slice is a copy.
func (d *Directory) All() []Partner {
	return slices.Clone(d.partners)
}

// Get returns the partner with the given slug.
func (d *Directory) Get(slug string) (Partner, bool) {
	i, ok := d.bySlug[slug]
	if !ok {
		return Partner{}, false
	}

	return d.partners[i], true
}

// ByTier groups partners by tier, in tier display order. Empty tiers are omitted.
func (d *Directory) ByTier() []TierGroup {
	groups := make([]TierGroup, 0, len(Tiers))

	for _, p := range d.partners {
		if n := len(groups); n > 0 && groups[n-1].Tier == p.Tier {
			groups[n-1].Partners = append(groups[n-1].Partners, p)

			continue
		}

		groups = append(groups, TierGroup{Tier: p.Tier, Partners: []Partner{p}})
	}

	return groups
}

// RemoteLogos returns the partners whose logo lives on another origin.
func (d *Directory) RemoteLogos() []Partner {
	var out []Partner

	for _, p := range d.partners {
		if p.HasRemoteLogo() {
			out = append(out, p)
		}
	}

	return out
}
