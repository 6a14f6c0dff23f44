// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const testPO = `msgid ""
msgstr ""
"Language: pt-BR\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=(n > 1);\n"

msgid "Our partners"
msgstr "Nossos parceiros"

msgctxt "tier"
msgid "Gold"
msgstr "Ouro"

msgid "{{.Count}} partner"
msgid_plural "{{.Count}} partners"
msgstr[0] "{{.Count}} parceiro"
msgstr[1] "{{.Count}} parceiros"

msgid "Write to us at {{.Email}}"
msgstr "Escreva para {{.Email}}"

msgid "100% local"
msgstr "100% nacional"
`

var testFS = fstest.MapFS{
	"po/pt_BR.po":   {Data: []byte(testPO)},
	"po/petdor.pot": {Data: []byte(`msgid ""` + "\n" + `msgstr ""` + "\n")},
	"po/bad!.po":    {Data: []byte("")},
	"po/README.md":  {Data: []byte("ignored")},
}

var ptBR = language.MustParse("pt-BR")

func TestMain(m *testing.M) {
	if err := Setup(testFS, false); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func TestLoadDiscoversLocales(t *testing.T) {
	t.Parallel()

	c, err := Load(testFS, false)
	require.NoError(t, err)

	assert.Equal(t, []language.Tag{language.English, ptBR}, c.Languages())

	_, err = Load(fstest.MapFS{}, false)
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	t.Parallel()

	c := current()

	assert.Equal(t, ptBR, c.Match("pt"))
	assert.Equal(t, ptBR, c.Match("pt-BR,pt;q=0.9,en;q=0.5"))
	assert.Equal(t, language.English, c.Match("fr"))
	assert.Equal(t, language.English, c.Match("!!"))
	assert.Equal(t, language.English, c.Match())
	// earlier preferences win
	assert.Equal(t, language.English, c.Match("en", "pt-BR"))
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	pt := WithTag(context.Background(), ptBR)
	en := context.Background()

	assert.Equal(t, "Nossos parceiros", Tr(pt, "Our partners"))
	assert.Equal(t, "Our partners", Tr(en, "Our partners"))
	assert.Equal(t, "Ouro", TrC(pt, "tier", "Gold"))
	assert.Equal(t, "Gold", TrC(en, "tier", "Gold"))

	assert.Equal(t, "1 parceiro", TrN(pt, "{{.Count}} partner", "{{.Count}} partners", 1, "Count", 1))
	assert.Equal(t, "3 parceiros", TrN(pt, "{{.Count}} partner", "{{.Count}} partners", 3, "Count", 3))
	assert.Equal(t, "3 partners", TrN(en, "{{.Count}} partner", "{{.Count}} partners", 3, "Count", 3))

	assert.Equal(t, "Escreva para suporte@petdor.com",
		Tr(pt, "Write to us at {{.Email}}", "Email", "suporte@petdor.com"))

	// msgids are not printf formats
	assert.Equal(t, "100% nacional", Tr(pt, "100% local"))

	// untranslated strings fall back to the msgid
	assert.Equal(t, "Not in catalogue", Tr(pt, "Not in catalogue"))
}

func TestStrictMissingKeys(t *testing.T) {
	t.Parallel()

	c, err := Load(testFS, true)
	require.NoError(t, err)

	assert.Equal(t, "⟦Not in catalogue⟧", c.Tr(ptBR, "Not in catalogue"))
	assert.Equal(t, "Nossos parceiros", c.Tr(ptBR, "Our partners"))
	// the base locale is the msgid language
	assert.Equal(t, "Not in catalogue", c.Tr(language.English, "Not in catalogue"))
	// a placeholder without a value
	assert.Equal(t, "⟦Write to us at {{.Email}}⟧", c.Tr(language.English, "Write to us at {{.Email}}"))
}

func TestVarsPanicsOnOddArguments(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { Tr(context.Background(), "x", "only-key") })
}

func TestFromRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		cookie string
		accept string
		want   language.Tag
	}{
		{name: "default", target: "/partners", want: language.English},
		{name: "accept-language", target: "/partners", accept: "pt-BR,pt;q=0.8", want: ptBR},
		{name: "cookie beats header", target: "/partners", cookie: "en", accept: "pt-BR", want: language.English},
		{name: "query beats cookie", target: "/partners?lang=pt-BR", cookie: "en", want: ptBR},
		{name: "auto ignores cookie", target: "/partners?lang=auto", cookie: "pt-BR", accept: "en", want: language.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "Lang", Value: tt.cookie})
			}

			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}

			assert.Equal(t, tt.want, FromRequest(r))
			assert.Equal(t, tt.want, TagFrom(WithRequest(context.Background(), r)))
		})
	}

	assert.Equal(t, language.English, FromRequest(nil))
}

func TestTagFromDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, language.English, TagFrom(context.Background()))
	assert.Equal(t, language.English, TagFrom(nil)) //nolint:staticcheck // nil context is handled
}

func TestMsgKeyRendersEscapedTranslation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, MsgKey("Our partners").Render(WithTag(context.Background(), ptBR), &buf))
	assert.Equal(t, "Nossos parceiros", buf.String())

	buf.Reset()
	require.NoError(t, MsgKey("<b>raw</b>").Render(context.Background(), &buf))
	assert.Equal(t, "&lt;b&gt;raw&lt;/b&gt;", buf.String())
}

func TestLanguageName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "English", LanguageName(language.English))
	assert.Contains(t, LanguageName(ptBR), "português")
}

// Not parallel: swaps the global logger.
func TestLoadWarnsWithoutPluralForms(t *testing.T) {
	var buf bytes.Buffer

	orig := log.Logger
	log.Logger = zerolog.New(&buf)

	t.Cleanup(func() { log.Logger = orig })

	noPlurals := `msgid ""
msgstr ""
"Language: pt-BR\n"

msgid "Our partners"
msgstr "Nossos parceiros"
`

	_, err := Load(fstest.MapFS{"po/pt-BR.po": {Data: []byte(noPlurals)}}, false)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no Plural-Forms header")

	buf.Reset()

	_, err = Load(testFS, false)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "no Plural-Forms header")
}
