// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n provides internationalisation utilities backed by GNU gettext
.po catalogues. It translates source message IDs (msgids) across locales and
supports both context and plural forms.

# Quick start

Use the original English UI text as the msgid; do not invent keys.

	i18n.Tr(ctx, "Our partners")
	i18n.TrC(ctx, "tier", "Gold")
	i18n.TrN(ctx, "{{.Count}} partner", "{{.Count}} partners", n, "Count", n)

Translations can be used directly in templ templates:

	{ i18n.Tr(ctx, "About") }

or as components:

	@i18n.MsgKey("About")

Partner names are never translated: they are rendered verbatim.

# Missing translations

By default, missing translations return the msgid unchanged. In strict mode
missing lookups are logged once per locale and key, and the returned text is
visibly wrapped as "⟦...⟧".

# Formatting

Placeholders use text/template syntax. Provide substitutions as alternating
key-value pairs:

	i18n.Tr(ctx, "Write to us at {{.Email}}", "Email", email)
*/
package i18n
