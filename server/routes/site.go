// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"codeberg.org/petdor/petdor/core/logos"
	"codeberg.org/petdor/petdor/core/partners"
)

// Site holds the state the handlers serve from.
type Site struct {
	Partners *partners.Directory

	// Logos proxies remote partner logos. Nil disables the proxy and cards
	// link to the logos directly.
	Logos *logos.Store
}

// NewSite returns a Site serving dir, proxying remote logos through store
// when it is non-nil.
func NewSite(dir *partners.Directory, store *logos.Store) *Site {
	return &Site{Partners: dir, Logos: store}
}

// proxying reports whether remote logos are served through the proxy.
func (s *Site) proxying() bool {
	return s.Logos != nil
}

// card returns the card input of p with the logo reference the browser should load.
func (s *Site) card(p partners.Partner) partners.CardInput {
	in := p.CardInput()
	in.Logo = logos.DisplayLogo(p, s.proxying())

	return in
}
