// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/petdor/petdor/assets/views"
	"codeberg.org/petdor/petdor/core/partners"
)

// componentSamples exercise the card with awkward inputs.
var componentSamples = []views.ComponentSample{
	{
		Label: "Remote logo",
		Card:  partners.CardInput{Name: "Acme Wellness", Logo: "https://acme.example/logo.png", URL: "https://acme.example"},
	},
	{
		Label: "Long name",
		Card: partners.CardInput{
			Name: "Associação Brasileira de Clínicas Veterinárias de Pequenos Animais",
			Logo: "/img/partners/quatro-patas.svg",
			URL:  "https://clinicas.example",
		},
	},
	{
		Label: "Markup in name",
		Card:  partners.CardInput{Name: `<b>Bold & "quoted"</b>`, Logo: "/img/partners/amigo-fiel.svg", URL: "https://bold.example"},
	},
	{
		Label: "Missing logo",
		Card:  partners.CardInput{Name: "No Logo Ltd", URL: "https://nologo.example"},
	},
}

// ComponentsPage is the handler for the /dev/components page.
//
// The first samples are the live directory entries, followed by edge cases.
func (s *Site) ComponentsPage(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Cache-Control", "no-store")

	samples := make([]views.ComponentSample, 0, s.Partners.Len()+len(componentSamples))

	for _, p := range s.Partners.All() {
		samples = append(samples, views.ComponentSample{Label: p.Slug, Card: s.card(p)})
	}

	samples = append(samples, componentSamples...)

	return views.Components(views.ComponentsData{Title: "Components", Samples: samples}).Render(r.Context(), w)
}
