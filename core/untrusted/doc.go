// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package untrusted reads and writes public state in a request.

Public state (HTTP cookies) is received from the user agent and can be
anything. The user controls all of it, so callers must validate every value.
*/
package untrusted
