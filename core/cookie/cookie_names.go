// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package cookie defines the cookie names used by PETDor.
*/
package cookie

type CookieName string

const (
	// LangCookie stores the visitor's chosen interface language as a BCP 47 tag.
	LangCookie CookieName = "Lang"
)

// IsHttpOnly reports whether name should be hidden from page scripts.
func IsHttpOnly(name CookieName) bool {
	return name == LangCookie
}
