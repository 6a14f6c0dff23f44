// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package partners

import (
	"net/url"
	"strings"
)

// CardInput is everything the partner card needs to render.
//
// Values are used verbatim: the card does not validate or transform them.
type CardInput struct {
	// Name is the display label, also used for the logo's alternative text.
	Name string `json:"name"`
	// Logo locates the image resource (absolute URL or root-relative path).
	Logo string `json:"logo"`
	// URL is the outbound destination, opened in a new browsing context.
	URL string `json:"url"`
}

// Tier groups partners on the partners page.
type Tier string

// Known tiers, in display order.
const (
	TierGold      Tier = "gold"
	TierSilver    Tier = "silver"
	TierBronze    Tier = "bronze"
	TierCommunity Tier = "community"
)

// Tiers lists every tier in display order.
var Tiers = []Tier{TierGold, TierSilver, TierBronze, TierCommunity}

// rank returns the display position of t, or -1 for an unknown tier.
func (t Tier) rank() int {
	for i, known := range Tiers {
		if t == known {
			return i
		}
	}

	return -1
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t.rank() >= 0
}

// Partner is one entry of the partner directory.
type Partner struct {
	Slug        string `json:"slug"                  validate:"required,slug" yaml:"slug"`
	Name        string `json:"name"                  validate:"required"      yaml:"name"`
	Logo        string `json:"logo"                  validate:"logoref"       yaml:"logo"`
	URL         string `json:"url"                   validate:"weburl"        yaml:"url"`
	Tier        Tier   `json:"tier"                  validate:"tier"          yaml:"tier"`
	Description string `json:"description,omitempty" yaml:"description"`
	// Order sorts partners within a tier; lower comes first.
	Order int `json:"order,omitempty" yaml:"order"`
}

// CardInput projects the partner to the values the card renders.
func (p Partner) CardInput() CardInput {
	return CardInput{
		Name: p.Name,
		Logo: p.Logo,
		URL:  p.URL,
	}
}

// HasRemoteLogo reports whether the logo is hosted on another origin.
func (p Partner) HasRemoteLogo() bool {
	return isAbsoluteHTTPURL(p.Logo)
}

// isAbsoluteHTTPURL reports whether s is an http or https URL with a host.
func isAbsoluteHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isRootRelativePath reports whether s is a path on this origin, such as "/img/x.svg".
func isRootRelativePath(s string) bool {
	return strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//")
}
