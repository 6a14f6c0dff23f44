// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package partners holds the directory of organisations PETDor advertises on
its partners page.

A directory is loaded from YAML, validated once, and is read-only afterwards,
so a *Directory is safe for concurrent use. Each partner projects to a
CardInput, the three strings the partner card component renders.
*/
package partners
