// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"os"
	"testing"
	"testing/fstest"

	"codeberg.org/petdor/petdor/i18n"
)

const testPO = `msgid ""
msgstr ""
"Language: pt-BR\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=(n > 1);\n"

msgid "Partners"
msgstr "Parceiros"
`

func TestMain(m *testing.M) {
	if err := i18n.Setup(fstest.MapFS{"po/pt_BR.po": {Data: []byte(testPO)}}, false); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}
