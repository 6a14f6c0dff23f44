// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// BaseLocale is the locale msgids are written in.
const BaseLocale = "en"

var baseTag = language.Make(BaseLocale)

// Languages returns the supported language tags of the active catalogue.
//
// Setup must be called successfully before using Languages; otherwise it panics.
func Languages() []language.Tag {
	c := current()
	if c == nil {
		panic(errNotInitialised)
	}

	return c.Languages()
}

// Supported is like Languages but returns nil before Setup.
func Supported() []language.Tag {
	if c := current(); c != nil {
		return c.Languages()
	}

	return nil
}

// LanguageName returns the name of t in its own language, e.g. "português (Brasil)".
func LanguageName(t language.Tag) string {
	if name := display.Self.Name(t); name != "" {
		return name
	}

	return t.String()
}
