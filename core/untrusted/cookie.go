// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"
	"net/url"
	"time"

	"codeberg.org/petdor/petdor/core/cookie"
	"codeberg.org/petdor/petdor/server/utils"
)

// CookieSameSite keeps cookies on top-level navigations from partner sites.
const CookieSameSite = http.SameSiteLaxMode

const cookieMaxAge = 365 * 24 * time.Hour

// Clear a cookie by setting its expiration date to this.
var cookieExpireDelete = time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)

func newCookie(name cookie.CookieName, value string, expires time.Time, isSecure bool) *http.Cookie {
	return &http.Cookie{
		Name:     string(name),
		Value:    value,
		Path:     "/",
		Expires:  expires,
		Secure:   isSecure,
		HttpOnly: cookie.IsHttpOnly(name),
		SameSite: CookieSameSite,
	}
}

// GetCookie returns the unescaped value of the named cookie, or "".
func GetCookie(r *http.Request, name cookie.CookieName) string {
	c, err := r.Cookie(string(name))
	if err != nil {
		return ""
	}

	value, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}

	return value
}

// SetCookie stores value under name; an empty value clears the cookie.
func SetCookie(w http.ResponseWriter, r *http.Request, name cookie.CookieName, value string) {
	if value == "" {
		ClearCookie(w, r, name)

		return
	}

	http.SetCookie(w, newCookie(name, url.QueryEscape(value), time.Now().Add(cookieMaxAge), utils.IsConnectionSecure(r)))
}

// ClearCookie expires the named cookie.
func ClearCookie(w http.ResponseWriter, r *http.Request, name cookie.CookieName) {
	http.SetCookie(w, newCookie(name, "", cookieExpireDelete, utils.IsConnectionSecure(r)))
}
