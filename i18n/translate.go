// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"text/template"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// noFormatArgs is passed to gotext lookups so msgids are never treated as
// printf formats.
var noFormatArgs []any

// templateCache caches compiled templates per unique template text.
var templateCache sync.Map // text -> *template.Template

// Vars holds named placeholder values.
type Vars map[string]any

// UserError is an error whose message is translated and safe to show to visitors.
type UserError struct {
	msg string
}

// NewUserError translates msgid for the locale in ctx.
func NewUserError(ctx context.Context, msgid string, kv ...any) *UserError {
	return &UserError{msg: Tr(ctx, msgid, kv...)}
}

func (e *UserError) Error() string {
	return e.msg
}

// Tr translates msgid for the locale in ctx, formatting named placeholders
// from the key-value pairs kv.
//
// Missing translations return the msgid unchanged, or visibly wrapped in strict mode.
func Tr(ctx context.Context, msgid string, kv ...any) string {
	return current().translate(TagFrom(ctx), "", msgid, "", 0, false, vars(kv...))
}

// TrC translates msgid under a disambiguating context, like gettext's pgettext.
func TrC(ctx context.Context, contextKey, msgid string, kv ...any) string {
	return current().translate(TagFrom(ctx), contextKey, msgid, "", 0, false, vars(kv...))
}

// TrN translates a singular or plural message depending on n. Without a
// translation, singular is chosen when n == 1.
func TrN(ctx context.Context, singular, plural string, n int, kv ...any) string {
	return current().translate(TagFrom(ctx), "", singular, plural, n, true, vars(kv...))
}

// TrNC is TrN under a disambiguating context.
func TrNC(ctx context.Context, contextKey, singular, plural string, n int, kv ...any) string {
	return current().translate(TagFrom(ctx), contextKey, singular, plural, n, true, vars(kv...))
}

// Tr translates msgid for tag using this catalogue.
func (c *Catalog) Tr(tag language.Tag, msgid string, kv ...any) string {
	return c.translate(tag, "", msgid, "", 0, false, vars(kv...))
}

// translate performs the lookup and formatting. A nil catalogue returns the
// msgid untranslated.
func (c *Catalog) translate(
	tag language.Tag,
	contextKey, singular, plural string,
	n int,
	pluralMode bool,
	data Vars,
) string {
	base := singular
	if pluralMode && n != 1 {
		base = plural
	}

	if c == nil {
		return render(baseTag, base, data, false)
	}

	matched := c.Match(tag.String())
	loc := c.locales[matched.String()]

	text, found := base, false

	if loc != nil {
		switch {
		case pluralMode && contextKey != "":
			if found = loc.IsTranslatedNDC(poDomain, singular, n, contextKey); found {
				text = loc.GetNDC(poDomain, singular, plural, n, contextKey)
			}
		case pluralMode:
			if found = loc.IsTranslatedND(poDomain, singular, n); found {
				text = loc.GetND(poDomain, singular, plural, n)
			}
		case contextKey != "":
			if found = loc.IsTranslatedDC(poDomain, singular, contextKey); found {
				text = loc.GetDC(poDomain, singular, contextKey)
			}
		default:
			if found = loc.IsTranslatedD(poDomain, singular); found {
				text = loc.GetD(poDomain, singular, noFormatArgs...)
			}
		}
	}

	// msgids are English, so the base locale never counts as missing.
	if !found && c.strict && matched != baseTag {
		c.logMissingOnce(strippedTagString(matched), buildLogKey(contextKey, singular))

		text = "⟦" + base + "⟧"
	}

	return render(matched, text, data, c.strict)
}

// render formats s as a text/template using data.
func render(locale language.Tag, s string, data Vars, strict bool) string {
	if !strings.Contains(s, "{{") {
		return s
	}

	var tmpl *template.Template

	if t, ok := templateCache.Load(s); ok {
		tmpl = t.(*template.Template)
	} else {
		var err error

		tmpl, err = template.New("msg").Option("missingkey=error").Parse(s)
		if err != nil {
			return renderFailed(locale, s, err, strict)
		}

		templateCache.Store(s, tmpl)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(data)); err != nil {
		return renderFailed(locale, s, err, strict)
	}

	return buf.String()
}

func renderFailed(locale language.Tag, s string, err error, strict bool) string {
	log.Warn().
		Err(err).
		Str("sys", "i18n").
		Str("locale", locale.String()).
		Str("text", s).
		Msg("Failed to format translation")

	if strict {
		return "⟦" + s + "⟧"
	}

	return s
}

// vars builds Vars from alternating key, value pairs.
// Panics on programmer error.
func vars(kv ...any) Vars {
	if len(kv)%2 != 0 {
		panic("i18n: odd number of arguments, want key, value pairs")
	}

	m := make(Vars, len(kv)/2)

	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("i18n: placeholder key must be a string")
		}

		m[k] = kv[i+1]
	}

	return m
}
