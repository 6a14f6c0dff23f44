// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/petdor/petdor/assets/views"
	"codeberg.org/petdor/petdor/i18n"
	"codeberg.org/petdor/petdor/server/request_context"
)

// NotFoundError marks a request for something that does not exist.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return e.What + " not found"
}

// UpstreamError marks a failure of a remote origin the handler depends on.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "upstream: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StatusForError returns the HTTP status a handler error maps to.
func StatusForError(err error) int {
	var (
		notFound *NotFoundError
		upstream *UpstreamError
		userErr  *i18n.UserError
	)

	switch {
	case errors.As(err, &userErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorPage renders the error page for the RequestError and StatusCode of
// the request context. The caller has already written the status line.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc := request_context.FromRequest(r)

	w.Header().Set("Cache-Control", "no-store")

	data := views.ErrorData{
		Title:      i18n.Tr(ctx, "Error"),
		StatusCode: rc.StatusCode,
		Message:    errorMessage(r, rc),
		RequestID:  rc.RequestID,
	}

	if rc.StatusCode == http.StatusNotFound {
		data.Title = i18n.Tr(ctx, "Not found")
	}

	if err := views.Error(data).Render(ctx, w); err != nil {
		log.Err(err).
			Str("request_id", rc.RequestID).
			Msg("Failed to render the error page")
	}
}

// errorMessage returns the visitor-facing message. Internal error text is
// never shown, except for errors that are translated for display.
func errorMessage(r *http.Request, rc *request_context.RequestContext) string {
	ctx := r.Context()

	var userErr *i18n.UserError
	if errors.As(rc.RequestError, &userErr) {
		return userErr.Error()
	}

	switch rc.StatusCode {
	case http.StatusNotFound:
		return i18n.Tr(ctx, "The page you are looking for does not exist.")
	case http.StatusBadGateway:
		return i18n.Tr(ctx, "A partner site did not respond correctly. Please try again later.")
	default:
		return i18n.Tr(ctx, "Something went wrong. Please try again later.")
	}
}
