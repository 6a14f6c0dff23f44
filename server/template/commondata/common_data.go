// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package commondata holds the values every page template can rely on.
*/
package commondata

import (
	"net/http"

	"golang.org/x/text/language"

	"codeberg.org/petdor/petdor/config"
	"codeberg.org/petdor/petdor/i18n"
	"codeberg.org/petdor/petdor/server/utils"
)

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag     string
	Name    string
	Current bool
}

// PageCommonData holds common variables accessible in templates and handlers.
//
// It is populated for each request and attached to the request context.
type PageCommonData struct {
	// BaseURL is the origin (scheme + host) of the current request.
	BaseURL string

	// CurrentPath is the URL path of the request, e.g. "/partners".
	CurrentPath string

	// CurrentPathWithParams is the request URI including the query string.
	CurrentPathWithParams string

	// Queries holds the first value of each query parameter.
	Queries map[string]string

	// Lang is the negotiated interface language.
	Lang string

	// Languages lists the switchable interface languages.
	Languages []LanguageOption

	// CacheID busts browser caches for static assets after a restart.
	CacheID string

	Version       string
	Revision      string
	RepoURL       string
	ContactEmail  string
	WebsiteURL    string
	InDevelopment bool
}

// PopulatePageCommonData fills data from r and the global configuration.
//
// tag is the language already negotiated for r.
func PopulatePageCommonData(r *http.Request, tag language.Tag, data *PageCommonData) {
	data.BaseURL = utils.GetOriginFromRequest(r)
	data.CurrentPath = r.URL.Path
	data.CurrentPathWithParams = r.URL.RequestURI()

	data.Queries = make(map[string]string)

	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			data.Queries[k] = v[0]
		}
	}

	data.Lang = tag.String()
	data.Languages = languageOptions(tag)

	data.CacheID = config.Global.Instance.FileServerCacheID
	data.Version = config.BuildVersion
	data.Revision = config.Global.Build.Revision()
	data.RepoURL = config.Global.Instance.RepoURL
	data.ContactEmail = config.Global.Instance.ContactEmail
	data.WebsiteURL = config.Global.Instance.WebsiteURL
	data.InDevelopment = config.Global.Development.InDevelopment
}

func languageOptions(current language.Tag) []LanguageOption {
	tags := i18n.Supported()
	options := make([]LanguageOption, 0, len(tags))

	for _, t := range tags {
		options = append(options, LanguageOption{
			Tag:     t.String(),
			Name:    i18n.LanguageName(t),
			Current: t == current,
		})
	}

	return options
}
