// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Command i18n_extract writes the gettext template (po/petdor.pot) for every
message passed to the i18n package: Tr, TrC, TrN, TrNC, NewUserError and
constant strings used as i18n.MsgKey values.

Run it from the repository root after regenerating templ files:

	go run ./cmd/i18n_extract

With -check, the template is not written; the command fails when the file on
disk is out of date.
*/
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/tools/go/packages"

	"codeberg.org/petdor/petdor/core/audit"
)

var errOutdated = errors.New("translation template is out of date")

func main() {
	audit.SetDefaultLogger()

	outPath := flag.String("o", "po/petdor.pot", "output file")
	check := flag.Bool("check", false, "fail if the output file is out of date instead of writing it")
	flag.Parse()

	if err := run(*outPath, *check); err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("Extraction failed")
	}
}

func run(outPath string, check bool) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	// templ-generated files must exist on disk before this runs.
	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax}, "./...")
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}

	if packages.PrintErrors(pkgs) > 0 {
		return errors.New("failed to load packages due to errors")
	}

	c := newCollector(projectRoot(wd), i18nPackages(pkgs))

	for _, p := range pkgs {
		c.collect(p)
	}

	var buf bytes.Buffer
	writePOT(&buf, version(), c.entries())

	if check {
		current, err := os.ReadFile(outPath)
		if err != nil {
			return err
		}

		if !sameEntries(current, buf.Bytes()) {
			return errOutdated
		}

		log.Info().Str("path", outPath).Int("messages", len(c.refs)).Msg("Translation template is up to date")

		return nil
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil { // #nosec G306
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	log.Info().Str("path", outPath).Int("messages", len(c.refs)).Msg("Wrote translation template")

	return nil
}
