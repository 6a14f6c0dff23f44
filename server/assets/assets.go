// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's static assets
(stylesheets, images, robots.txt and translation catalogues).

The main package assigns its embedded file system to FS at start-up; tests
may install an [testing/fstest.MapFS] instead.
*/
package assets

import (
	"io/fs"
)

// FS provides access to the static asset file system, rooted so that paths
// read "assets/css/petdor.css" and "po/pt-BR.po".
var FS fs.FS
