// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package partials holds components that would otherwise be included under fragments/,
but are called directly by backend code.
*/
package partials
