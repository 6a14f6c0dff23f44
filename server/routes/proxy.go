// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"
	"strconv"

	"codeberg.org/petdor/petdor/core/logos"
)

// LogoProxy is the handler for /proxy/logo/{slug}.
//
// It serves the cached remote logo of a partner from this origin.
func (s *Site) LogoProxy(w http.ResponseWriter, r *http.Request) error {
	slug := r.PathValue("slug")

	p, ok := s.Partners.Get(slug)
	if !ok || s.Logos == nil {
		return &NotFoundError{What: "logo " + slug}
	}

	logo, err := s.Logos.Get(r.Context(), p)
	if errors.Is(err, logos.ErrNotRemote) {
		// Local logos are served by the file server.
		http.Redirect(w, r, p.Logo, http.StatusFound)

		return nil
	}

	if err != nil {
		return &UpstreamError{Err: err}
	}

	w.Header().Set("Content-Type", logo.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(logo.Data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if logo.IsSVG() {
		// An SVG opened directly must not run anything.
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	}

	_, err = w.Write(logo.Data)

	return err
}
