// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanHTMLUnwrapsHTMLFence(t *testing.T) {
	got := CleanHTML("```html\n<h2>Bölüm</h2><p>Metin.</p>\n```")
	assert.Equal(t, "<h2>Bölüm</h2><p>Metin.</p>", got)
}

func TestCleanHTMLConvertsMarkdownHeadings(t *testing.T) {
	got := CleanHTML("# Başlık\n## Alt Başlık\n### Detay")

	assert.Contains(t, got, "<h1>Başlık</h1>")
	assert.Contains(t, got, "<h2>Alt Başlık</h2>")
	assert.Contains(t, got, "<h3>Detay</h3>")
}

func TestCleanHTMLConvertsMarkdownLists(t *testing.T) {
	got := CleanHTML("# Konular\n* birinci\n* ikinci\n1. üçüncü")

	assert.Contains(t, got, "<ul>")
	assert.Contains(t, got, "<li>birinci</li>")
	assert.Contains(t, got, "<li>ikinci</li>")
	assert.Contains(t, got, "<li>üçüncü</li>")
}

func TestCleanHTMLWrapsBareParagraphs(t *testing.T) {
	got := CleanHTML("# T\nDüz bir satır.")
	assert.Contains(t, got, "<p>Düz bir satır.</p>")
}

func TestCleanHTMLStripsDisallowedTags(t *testing.T) {
	got := CleanHTML(`<p onclick="x()">Metin</p><script>alert(1)</script><iframe src="x"></iframe>`)

	assert.Contains(t, got, "<p>Metin</p>")
	assert.NotContains(t, got, "script")
	assert.NotContains(t, got, "iframe")
	assert.NotContains(t, got, "onclick")
}

func TestCleanHTMLKeepsClassOnDivAndSpan(t *testing.T) {
	got := CleanHTML(`<div class="box" id="x"><span class="hl">a</span></div>`)

	assert.Contains(t, got, `<div class="box">`)
	assert.Contains(t, got, `<span class="hl">a</span>`)
	assert.NotContains(t, got, "id=")
}

func TestCleanHTMLRemovesEmptyParagraphs(t *testing.T) {
	got := CleanHTML("<p>a</p><p>  </p><p></p>")
	assert.Equal(t, "<p>a</p>", got)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON(`{"a":1}`))
}

func TestExtractJSONLD(t *testing.T) {
	assert.Equal(t, `{"@type":"Article"}`,
		extractJSONLD(`<script type="application/ld+json">{"@type":"Article"}</script>`))
	assert.Equal(t, `{"@type":"Article"}`,
		extractJSONLD("```json\n{\"@type\":\"Article\"}\n```"))
	assert.Equal(t, `{"@type":"Article"}`, extractJSONLD(`{"@type":"Article"}`))
}
