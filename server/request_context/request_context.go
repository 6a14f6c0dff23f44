// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package request_context provides per-request state for HTTP handlers.

This package is separate because Go disallows a cyclic import graph.
*/
package request_context

import (
	"context"
	"net/http"

	"golang.org/x/text/language"

	"codeberg.org/petdor/petdor/core/idgen"
	"codeberg.org/petdor/petdor/i18n"
	"codeberg.org/petdor/petdor/server/template/commondata"
)

// RequestContext carries request-scoped data through the middleware chain.
type RequestContext struct {
	// RequestID is an identifier for tracing requests.
	RequestID string

	// RequestError is the error returned by the handler, if any.
	//
	// Set by middleware.CatchError, which renders an error page instead of
	// the handler's output.
	RequestError error

	// StatusCode is the HTTP status sent in the response. Defaults to 200 OK.
	StatusCode int

	CommonData commondata.PageCommonData

	T language.Tag
}

type requestContextKeyType struct{}

var requestContextKey = requestContextKeyType{}

// WithRequestContext negotiates the interface language for r and attaches a
// new RequestContext to ctx.
func WithRequestContext(ctx context.Context, r *http.Request) context.Context {
	ctx = i18n.WithRequest(ctx, r)

	rc := RequestContext{
		RequestID:  idgen.Make(),
		StatusCode: http.StatusOK,
		T:          i18n.TagFrom(ctx),
	}
	commondata.PopulatePageCommonData(r, rc.T, &rc.CommonData)

	return context.WithValue(ctx, requestContextKey, &rc)
}

// FromContext returns the RequestContext in ctx, or a zero-value instance.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestContextKey).(*RequestContext); ok {
		return rc
	}

	return &RequestContext{}
}

// FromRequest is shorthand for FromContext(r.Context()).
func FromRequest(r *http.Request) *RequestContext {
	return FromContext(r.Context())
}
