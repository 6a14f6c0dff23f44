// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views holds the full-page templ components and the data they render.
*/
package views

import (
	"context"

	"codeberg.org/petdor/petdor/core/partners"
	"codeberg.org/petdor/petdor/i18n"
)

// PartnerEntry is one card on a listing page.
type PartnerEntry struct {
	Slug string
	Card partners.CardInput
}

// PartnerSection is the cards of one tier.
type PartnerSection struct {
	Tier    partners.Tier
	Entries []PartnerEntry
}

type PartnersData struct {
	Title    string
	Sections []PartnerSection
	Total    int
}

type PartnerData struct {
	Title       string
	Slug        string
	Tier        partners.Tier
	Description string
	Card        partners.CardInput
}

type AboutData struct {
	Title        string
	ContactEmail string
	WebsiteURL   string
	RepoURL      string
	PartnerCount int
}

type ErrorData struct {
	Title      string
	StatusCode int
	Message    string
	RequestID  string
}

// ComponentSample is one rendering of a component in the development gallery.
type ComponentSample struct {
	Label string
	Card  partners.CardInput
}

type ComponentsData struct {
	Title   string
	Samples []ComponentSample
}

// TierLabel returns the translated heading of a tier section.
func TierLabel(ctx context.Context, tier partners.Tier) string {
	switch tier {
	case partners.TierGold:
		return i18n.TrC(ctx, "tier", "Gold partners")
	case partners.TierSilver:
		return i18n.TrC(ctx, "tier", "Silver partners")
	case partners.TierBronze:
		return i18n.TrC(ctx, "tier", "Bronze partners")
	default:
		return i18n.TrC(ctx, "tier", "Community partners")
	}
}
