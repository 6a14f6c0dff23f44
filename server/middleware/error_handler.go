// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/petdor/petdor/config"
	"codeberg.org/petdor/petdor/core/audit"
	"codeberg.org/petdor/petdor/server/request_context"
	"codeberg.org/petdor/petdor/server/routes"
)

// CatchError adapts a fallible handler to http.HandlerFunc.
//
// The handler writes into a buffer. When it fails without having written an
// error status, or when it answered 404, the buffer is dropped and the themed
// error page is served instead; otherwise the buffer is copied to w. Every
// request is then logged through an audit span.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)

		span := audit.Span{
			Destination: audit.ToUser,
			RequestID:   ctx.RequestID,
			Method:      r.Method,
			URL:         r.URL.String(),
		}

		_ = span.Begin(r.Context())
		defer span.End()

		buf := httptest.NewRecorder()
		ctx.RequestError = handler(buf, r)

		if status, replace := errorPageStatus(ctx.RequestError, buf.Code); replace {
			ctx.StatusCode = status

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(status)
			routes.ErrorPage(w, r)
		} else {
			ctx.StatusCode = buf.Code
			span.BodyLength = buf.Body.Len()

			maps.Copy(w.Header(), buf.Header())
			w.WriteHeader(buf.Code)

			if _, err := buf.Body.WriteTo(w); err != nil {
				log.Err(err).Msg("Failed to write response body")
			}
		}

		span.End()
		span.StatusCode = ctx.StatusCode
		span.Error = ctx.RequestError

		if !config.Global.ShouldSkipServerLogging(r.URL.Path) {
			span.Log()
		}
	}
}

// errorPageStatus decides whether a buffered response is replaced by the error
// page, and with which status.
func errorPageStatus(err error, written int) (int, bool) {
	switch {
	case err != nil && written < http.StatusBadRequest:
		return routes.StatusForError(err), true
	case written == http.StatusNotFound:
		return http.StatusNotFound, true
	default:
		return written, false
	}
}
