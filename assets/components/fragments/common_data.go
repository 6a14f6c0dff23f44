// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package fragments holds components shared between pages.
*/
package fragments

import (
	"context"
	"net/url"

	"codeberg.org/petdor/petdor/i18n"
	"codeberg.org/petdor/petdor/server/request_context"
	"codeberg.org/petdor/petdor/server/template/commondata"
)

// CommonData returns the common page data of the request in ctx.
func CommonData(ctx context.Context) commondata.PageCommonData {
	return request_context.FromContext(ctx).CommonData
}

// LanguageSwitchURL returns the link that stores tag as the preferred
// language and then returns to returnPath.
func LanguageSwitchURL(tag, returnPath string) string {
	q := url.Values{}
	q.Set(i18n.LangParam, tag)

	if returnPath != "" {
		q.Set("return", returnPath)
	}

	return "/settings/lang?" + q.Encode()
}
