// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/petdor/petdor/core/cookie"
	"codeberg.org/petdor/petdor/core/untrusted"
)

type contextKeyType struct{}

var tagKey = contextKeyType{}

// LangParam is the query parameter carrying a preferred language. The cookie
// counterpart is [cookie.LangCookie].
const LangParam = "lang"

// WithTag returns a derived context carrying t.
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagKey, t)
}

// TagFrom returns the language tag stored in ctx, or the tag for [BaseLocale].
// It never returns the zero value of [language.Tag].
func TagFrom(ctx context.Context) language.Tag {
	if ctx != nil {
		if t, _ := ctx.Value(tagKey).(language.Tag); t != (language.Tag{}) {
			return t
		}
	}

	return baseTag
}

// FromRequest returns the best supported language for r, looking in order at
// the [LangParam] query parameter, the [cookie.LangCookie] cookie and the
// Accept-Language header.
//
// A query value of "auto" (any case) ignores the cookie. Before Setup, or for
// a nil request, the base locale is returned.
func FromRequest(r *http.Request) language.Tag {
	c := current()
	if r == nil || c == nil {
		return baseTag
	}

	q := r.URL.Query().Get(LangParam)
	auto := strings.EqualFold(q, "auto")

	preferred := make([]string, 0, 3)
	if q != "" && !auto {
		preferred = append(preferred, q)
	}

	if !auto {
		if v := untrusted.GetCookie(r, cookie.LangCookie); v != "" {
			preferred = append(preferred, v)
		}
	}

	if al := r.Header.Get("Accept-Language"); al != "" {
		preferred = append(preferred, al)
	}

	return c.Match(preferred...)
}

// WithRequest is shorthand for WithTag(ctx, FromRequest(r)).
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return WithTag(ctx, FromRequest(r))
}
