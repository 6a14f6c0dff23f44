// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// logMissingOnce logs a missing translation once per (locale, msgid) pair.
func (c *Catalog) logMissingOnce(locale, key string) {
	id := locale + "\x00" + key
	if _, loaded := c.missing.LoadOrStore(id, struct{}{}); !loaded {
		c.logger.Warn().
			Str("locale", locale).
			Str("key", key).
			Msg("Missing i18n translation")
	}
}

// strippedTagString removes variants and extensions, keeping base, script and region.
func strippedTagString(tag language.Tag) string {
	b, s, r := tag.Raw()
	stripped, _ := language.Compose(b, s, r)

	return stripped.String()
}

// buildLogKey composes "ctx<EOT>msgid" like gettext when a context is present.
func buildLogKey(ctxKey, id string) string {
	if ctxKey != "" {
		return ctxKey + gotext.EotSeparator + id
	}

	return id
}
