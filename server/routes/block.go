// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"codeberg.org/petdor/petdor/assets/views"
	"codeberg.org/petdor/petdor/i18n"
	"codeberg.org/petdor/petdor/server/request_context"
)

type BlockData struct {
	Reason string `json:"reason"`
}

// BlockPage answers a request the limiter refused with statusCode.
//
// API and proxy requests get a JSON body, pages get the themed error page.
func BlockPage(w http.ResponseWriter, r *http.Request, statusCode int, reason i18n.MsgKey) {
	ctx := r.Context()
	message := reason.Tr(ctx)

	w.Header().Set("Cache-Control", "no-store")

	if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/proxy/") {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(statusCode)

		_ = json.NewEncoder(w).Encode(BlockData{Reason: message})

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)

	_ = views.Error(views.ErrorData{
		Title:      i18n.Tr(ctx, "Error"),
		StatusCode: statusCode,
		Message:    message,
		RequestID:  request_context.FromRequest(r).RequestID,
	}).Render(ctx, w)
}
