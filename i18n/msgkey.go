// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Translatable is a value that can translate itself using a context.
type Translatable interface {
	Tr(ctx context.Context) string
}

// MsgKey is a source message id (msgid): the original English UI text.
//
// It implements [templ.Component], rendering its HTML-escaped translation.
type MsgKey string

// Tr translates this msgid for the locale in ctx.
func (s MsgKey) Tr(ctx context.Context) string {
	return Tr(ctx, string(s))
}

func (s MsgKey) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, templ.EscapeString(s.Tr(ctx)))

	return err
}

var _ templ.Component = MsgKey("")
