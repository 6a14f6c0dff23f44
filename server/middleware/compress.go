// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// compressWrapper gzips responses of compressible content types when the
// client accepts it. Logos are mostly already compressed images, but SVG,
// HTML, CSS and JSON benefit.
var compressWrapper = mustGzipWrapper()

func mustGzipWrapper() func(http.Handler) http.HandlerFunc {
	wrapper, err := gzhttp.NewWrapper(gzhttp.MinSize(512))
	if err != nil {
		panic(err)
	}

	return wrapper
}

// Compress is a middleware that gzips response bodies.
func Compress(w http.ResponseWriter, r *http.Request, next http.Handler) {
	compressWrapper(next).ServeHTTP(w, r)
}
