// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/theme"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

func plain(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRender_Empty(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, "", r.Render("", theme.Dark, 60))
	assert.Equal(t, "", r.Render("  \n ", theme.Dark, 60))
}

func TestRender_ContainsText(t *testing.T) {
	r := NewRenderer()
	out := plain(r.Render("**Article 12** : le contrat de travail", theme.Light, 60))

	require.NotEmpty(t, out)
	assert.Contains(t, out, "Article 12")
	assert.NotContains(t, out, "**", "emphasis markers should be consumed")
}

func TestRender_StripsHTML(t *testing.T) {
	r := NewRenderer()
	out := plain(r.Render("Bonjour <script>alert(1)</script><b>monde</b>", theme.Dark, 60))

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "monde")
}

func TestRender_CachesPerThemeAndWidth(t *testing.T) {
	r := NewRenderer()
	r.Render("a", theme.Dark, 40)
	r.Render("b", theme.Dark, 40)
	r.Render("c", theme.Light, 40)
	r.Render("d", theme.Light, 50)

	assert.Len(t, r.renderers, 3)
}

func TestPrepare_HardBreaks(t *testing.T) {
	r := NewRenderer()
	got := r.Prepare("ligne un\nligne deux\n\nparagraphe")
	assert.Equal(t, "ligne un  \nligne deux\n\nparagraphe", got)
}

func TestPrepare_KeepsApostrophesAndQuotes(t *testing.T) {
	r := NewRenderer()
	got := r.Prepare(`L'article "12" & suivants > 3`)
	assert.Equal(t, `L'article "12" & suivants > 3`, got)
}

func TestPrepare_LeavesCodeFencesAlone(t *testing.T) {
	r := NewRenderer()
	in := "Exemple :\n```html\n<div>ok</div>\n```"
	got := r.Prepare(in)

	assert.Contains(t, got, "<div>ok</div>")
	assert.True(t, strings.HasPrefix(got, "Exemple :  \n"))
}

func TestRenderCurrent_UsesSetTheme(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, theme.Light, r.Theme())

	r.SetTheme(theme.Dark)
	assert.Equal(t, theme.Dark, r.Theme())

	r.SetTheme(theme.Theme("bogus"))
	assert.Equal(t, theme.Dark, r.Theme())

	assert.Contains(t, plain(r.RenderCurrent("Réponse", 0)), "Réponse")
}

func TestPrepare_KeepsCodeSpans(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"html in code spans", "Utilisez la balise `<br>` ou `<div>`.", "Utilisez la balise `<br>` ou `<div>`."},
		{"double backticks", "Écrire ``<a href=`x`>`` tel quel", "Écrire ``<a href=`x`>`` tel quel"},
		{"prose still sanitized", "<b>gras</b> et `<i>`", "gras et `<i>`"},
		{"unmatched backtick", "un ` seul <b>x</b>", "un ` seul x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Prepare(tt.in))
		})
	}
}

func TestPrepare_KeepsIndentedCode(t *testing.T) {
	r := NewRenderer()
	in := "Exemple :\n\n    <div>contenu</div>\n    <br>\n\nFin <b>ici</b>"
	got := r.Prepare(in)

	assert.Contains(t, got, "    <div>contenu</div>\n    <br>\n")
	assert.True(t, strings.HasSuffix(got, "Fin ici"), got)
}

func TestRender_ShowsHTMLInCodeSpan(t *testing.T) {
	r := NewRenderer()
	out := plain(r.Render("Utilisez la balise `<br>`.", theme.Light, 60))
	assert.Contains(t, out, "<br>")
}
