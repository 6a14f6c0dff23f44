// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"codeberg.org/petdor/petdor/config"
)

// entry is one message of the template with its deduplicated source locations.
type entry struct {
	msgKey

	locations []location
}

// entries returns the collected messages sorted by context, msgid and plural.
func (c *collector) entries() []entry {
	out := make([]entry, 0, len(c.refs))

	for k, locs := range c.refs {
		locs = slices.Clone(locs)
		slices.SortFunc(locs, func(a, b location) int {
			return cmp.Or(strings.Compare(a.file, b.file), cmp.Compare(a.line, b.line))
		})

		out = append(out, entry{msgKey: k, locations: slices.Compact(locs)})
	}

	slices.SortFunc(out, func(a, b entry) int {
		return cmp.Or(
			strings.Compare(a.ctx, b.ctx),
			strings.Compare(a.id, b.id),
			strings.Compare(a.plural, b.plural),
		)
	})

	return out
}

const potHeader = `msgid ""
msgstr ""
"Project-Id-Version: PETDor %s\n"
"POT-Creation-Date: %s\n"
"Language: en\n"
"Report-Msgid-Bugs-To: https://codeberg.org/petdor/petdor/issues\n"
"MIME-Version: 1.0\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Content-Transfer-Encoding: 8bit\n"
"Plural-Forms: nplurals=2; plural=(n != 1);\n"
`

// writePOT writes a gettext template holding entries.
func writePOT(w io.Writer, version string, entries []entry) {
	fmt.Fprintf(w, potHeader, version, time.Now().UTC().Format("2006-01-02 15:04+0000"))

	for _, e := range entries {
		fmt.Fprint(w, "\n#:")

		for _, l := range e.locations {
			fmt.Fprintf(w, " %s:%d", l.file, l.line)
		}

		fmt.Fprintln(w)

		if e.ctx != "" {
			fmt.Fprintf(w, "msgctxt %q\n", e.ctx)
		}

		fmt.Fprintf(w, "msgid %q\n", e.id)

		if e.plural != "" {
			fmt.Fprintf(w, "msgid_plural %q\nmsgstr[0] \"\"\nmsgstr[1] \"\"\n", e.plural)
		} else {
			fmt.Fprint(w, "msgstr \"\"\n")
		}
	}
}

// sameEntries compares two templates, ignoring the creation date and
// source locations.
func sameEntries(a, b []byte) bool {
	return bytes.Equal(stripVolatile(a), stripVolatile(b))
}

func stripVolatile(pot []byte) []byte {
	var out bytes.Buffer

	for line := range bytes.Lines(pot) {
		if bytes.HasPrefix(line, []byte("#:")) ||
			bytes.HasPrefix(line, []byte(`"POT-Creation-Date:`)) ||
			bytes.HasPrefix(line, []byte(`"Project-Id-Version:`)) {
			continue
		}

		out.Write(line)
	}

	return out.Bytes()
}

// version describes the checkout with git, falling back to the release version.
func version() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return config.BuildVersion
	}

	return strings.TrimSpace(string(out))
}

// projectRoot returns the nearest directory above wd holding go.mod, or wd.
func projectRoot(wd string) string {
	for dir := filepath.Clean(wd); ; {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return wd
		}

		dir = parent
	}
}
