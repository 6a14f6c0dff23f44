// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package routes holds the HTTP handlers.

Page handlers have the fallible signature
func(http.ResponseWriter, *http.Request) error and are wrapped by
middleware.CatchError, which renders the error page for returned errors.
*/
package routes
