// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// poDomain is the gettext domain loaded for each locale, and the name of the template file.
const poDomain = "petdor"

// poDir is the directory holding the catalogues inside the asset file system.
const poDir = "po"

var errNotInitialised = errors.New("i18n: Setup must be called first")

// Catalog is a set of loaded locales and the matcher choosing between them.
// It is immutable after Load and safe for concurrent use.
type Catalog struct {
	locales map[string]*gotext.Locale // canonical BCP 47 tag -> locale
	tags    []language.Tag            // index-aligned with the matcher; base locale first
	matcher language.Matcher
	strict  bool

	// missing deduplicates strict-mode warnings, keyed by locale+"\x00"+msgid.
	missing sync.Map
	logger  zerolog.Logger
}

// active is the catalogue used by the package-level helpers.
var active atomic.Pointer[Catalog]

// Setup loads the catalogues in fsys and makes them the active catalogue.
//
// Calling Setup again replaces the previously active catalogue.
func Setup(fsys fs.FS, strict bool) error {
	c, err := Load(fsys, strict)
	if err != nil {
		return err
	}

	active.Store(c)

	return nil
}

// Load reads every po/<locale>.po file in fsys.
//
// The <locale> part may use hyphens or underscores ("pt-BR.po", "pt_BR.po")
// and is normalised to a canonical BCP 47 tag. The template file po/petdor.pot
// is ignored. [BaseLocale] is always supported and acts as the fallback.
func Load(fsys fs.FS, strict bool) (*Catalog, error) {
	c := &Catalog{
		locales: make(map[string]*gotext.Locale),
		strict:  strict,
		logger:  log.With().Str("sys", "i18n").Logger(),
	}

	entries, err := fs.ReadDir(fsys, poDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read po directory: %w", err)
	}

	var loaded []language.Tag

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".po" {
			continue
		}

		tag, err := language.Parse(strings.ReplaceAll(strings.TrimSuffix(name, ".po"), "_", "-"))
		if err != nil {
			c.logger.Warn().Err(err).Str("file", name).Msg("Skipping invalid locale file")

			continue
		}

		canonical := tag.String()

		po := gotext.NewPoFS(fsys)
		po.ParseFile(path.Join(poDir, name))

		// gotext reports no message as translated without a plural rule.
		if po.GetDomain().PluralForms == "" {
			c.logger.Warn().
				Str("locale", canonical).
				Str("file", name).
				Msg("Catalogue has no Plural-Forms header; its translations will be ignored")
		}

		loc := gotext.NewLocale("", canonical)
		loc.AddTranslator(poDomain, po)

		c.locales[canonical] = loc

		if tag != baseTag {
			loaded = append(loaded, tag)
		}

		c.logger.Info().
			Str("locale", canonical).
			Str("domain", poDomain).
			Msg("Loaded locale")
	}

	slices.SortFunc(loaded, func(a, b language.Tag) int { return strings.Compare(a.String(), b.String()) })

	c.tags = append([]language.Tag{baseTag}, loaded...)
	c.matcher = language.NewMatcher(c.tags)

	return c, nil
}

// Match returns the supported tag best matching the given preferences, in
// priority order. Each preference may be a single tag or an Accept-Language
// value. The base locale is returned when nothing matches.
func (c *Catalog) Match(preferences ...string) language.Tag {
	var desired []language.Tag

	for _, pref := range preferences {
		tags, _, err := language.ParseAcceptLanguage(pref)
		if err != nil {
			continue
		}

		desired = append(desired, tags...)
	}

	if len(desired) == 0 {
		return baseTag
	}

	_, index, confidence := c.matcher.Match(desired...)
	if confidence == language.No {
		return baseTag
	}

	return c.tags[index]
}

// Languages returns the supported tags sorted by tag string.
func (c *Catalog) Languages() []language.Tag {
	out := slices.Clone(c.tags)
	slices.SortFunc(out, func(a, b language.Tag) int { return strings.Compare(a.String(), b.String()) })

	return out
}

// current returns the active catalogue, or nil before Setup.
func current() *Catalog {
	return active.Load()
}
