// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package logos

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrUnsafeSVG is returned for SVG documents that could run script.
var ErrUnsafeSVG = errors.New("logo SVG contains active content")

var forbiddenSVGElements = map[string]bool{
	"script":        true,
	"foreignobject": true,
	"iframe":        true,
	"embed":         true,
	"object":        true,
}

// screenSVG rejects SVG documents carrying scripts, foreign content, event
// handler attributes or javascript: links.
//
// The HTML tokenizer lower-cases element and attribute names, which is the
// case-insensitive matching wanted here.
func screenSVG(r io.Reader) error {
	z := html.NewTokenizer(r)

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return fmt.Errorf("failed to parse SVG: %w", err)
			}

			return nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()

			if forbiddenSVGElements[tok.Data] {
				return fmt.Errorf("%w: <%s>", ErrUnsafeSVG, tok.Data)
			}

			for _, attr := range tok.Attr {
				if strings.HasPrefix(attr.Key, "on") {
					return fmt.Errorf("%w: %s attribute", ErrUnsafeSVG, attr.Key)
				}

				if (attr.Key == "href" || strings.HasSuffix(attr.Key, ":href")) &&
					strings.HasPrefix(strings.ToLower(strings.TrimSpace(attr.Val)), "javascript:") {
					return fmt.Errorf("%w: javascript link", ErrUnsafeSVG)
				}
			}
		}
	}
}
