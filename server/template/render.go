// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package template holds helpers for rendering templ components outside of a
page response.
*/
package template

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"
)

// RenderToString converts a templ.Component to its string representation.
//
// Handling errors in templates is awkward, so if an error occurs during rendering,
// it is formatted into a string and returned.
func RenderToString(ctx context.Context, c templ.Component) string {
	var buffer bytes.Buffer

	if err := c.Render(ctx, &buffer); err != nil {
		return fmt.Errorf("templ: failed to render component: %w", err).Error()
	}

	return buffer.String()
}
