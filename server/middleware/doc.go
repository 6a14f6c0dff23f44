// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware chain.

A Middleware receives the next handler explicitly; Wrap adapts one to a
plain http.Handler. CatchError adapts fallible handlers.
*/
package middleware
