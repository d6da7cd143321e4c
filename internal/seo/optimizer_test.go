// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package seo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

func allEnabled() types.SEOConfig {
	return types.SEOConfig{
		SEOOptimization:             true,
		FeaturedSnippetOptimization: true,
		FAQGeneration:               true,
	}
}

func sampleContent() types.ComposedContent {
	return types.ComposedContent{
		Title:           "Folic Acid Supplementation",
		Content:         `<div class="pubmed-article-abstract"><p>Folate matters.</p></div>`,
		Excerpt:         "Folate needs rise during gestation.",
		Authors:         []string{"Yilmaz Ayse", "Demir Berk"},
		PublicationDate: "2024-03-05",
		Journal:         "Journal of Maternal Health",
		MeSHTerms:       []string{"Pregnancy", "Folic Acid"},
		Categories:      []string{"Hamilelik"},
		Tags:            []string{"Pregnancy", "Folic Acid"},
	}
}

func TestOptimizeRequiresTitle(t *testing.T) {
	o := New(allEnabled())

	_, err := o.Optimize(types.ComposedContent{})
	assert.ErrorIs(t, err, types.ErrInvalidContent)
}

func TestSEOTitleSuffixForShortTitles(t *testing.T) {
	o := New(allEnabled())

	got, err := o.Optimize(sampleContent())
	require.NoError(t, err)
	assert.Equal(t, "Folic Acid Supplementation - Hamilelik Rehberi", got.SEOTitle)
}

func TestSEOTitleLongTitleUnchanged(t *testing.T) {
	o := New(allEnabled())

	cc := sampleContent()
	cc.Title = "Folic Acid Supplementation and Neural Tube Defect Prevention in Early Pregnancy"
	got, err := o.Optimize(cc)
	require.NoError(t, err)
	assert.Equal(t, cc.Title, got.SEOTitle)
}

func TestSEOTitleNoCategories(t *testing.T) {
	o := New(allEnabled())

	cc := sampleContent()
	cc.Categories = nil
	got, err := o.Optimize(cc)
	require.NoError(t, err)
	assert.Equal(t, cc.Title, got.SEOTitle)
}

func TestSEODescription(t *testing.T) {
	o := New(allEnabled())

	got, err := o.Optimize(sampleContent())
	require.NoError(t, err)
	assert.Equal(t,
		"Folate needs rise during gestation. Bu rehber, Hamilelik hakkında önemli bilgiler içermektedir.",
		got.SEODescription)

	// A long excerpt passes through untouched.
	cc := sampleContent()
	cc.Excerpt = strings.Repeat("Folate intake during early gestation matters. ", 5)
	got, err = o.Optimize(cc)
	require.NoError(t, err)
	assert.Equal(t, cc.Excerpt, got.SEODescription)
}

func TestOptimizeStructureAddsH1AndHeadings(t *testing.T) {
	o := New(allEnabled())

	got, err := o.Optimize(sampleContent())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got.Content, "<h1>Folic Acid Supplementation</h1>"))
	assert.Contains(t, got.Content, `<div class="pubmed-article-abstract"><h2>Özet</h2>`)
}

func TestOptimizeStructureKeepsExistingHeadings(t *testing.T) {
	o := New(allEnabled())

	cc := sampleContent()
	cc.Content = "<h1>x</h1><h2>a</h2><h2>b</h2><h3>c</h3><h3>d</h3>" +
		`<div class="pubmed-article-abstract"><p>t</p></div>`
	got, err := o.Optimize(cc)
	require.NoError(t, err)

	// No second H1 and no injected section headings.
	assert.Equal(t, 1, strings.Count(got.Content, "<h1>"))
	assert.NotContains(t, got.Content, "<h2>Özet</h2>")
}

func TestImageAltBackfill(t *testing.T) {
	o := New(allEnabled())

	cc := sampleContent()
	cc.Content = `<img src="a.png"><img alt="kept" src="b.png">`
	got, err := o.Optimize(cc)
	require.NoError(t, err)

	assert.Contains(t, got.Content, `<img alt="Folic Acid Supplementation" src="a.png">`)
	assert.Contains(t, got.Content, `<img alt="kept" src="b.png">`)
}

func TestTitleToQuestion(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Demir eksikliği nedir", "Demir eksikliği nedir?"},
		{"Bebek bakımı nasıl yapılır", "Bebek bakımı nasıl yapılır?"},
		{"Hamilelikte beslenme önerileri var mı?", "Hamilelikte beslenme önerileri var mı?"},
		{"Folik Asit", "Folik Asit nedir?"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, titleToQuestion(tc.in), tc.in)
	}
}

func TestFAQEntries(t *testing.T) {
	o := New(allEnabled())

	got, err := o.Optimize(sampleContent())
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(got.FAQ), 4)
	assert.Equal(t, "Folic Acid Supplementation nedir?", got.FAQ[0].Question)
	assert.Equal(t, "Folate needs rise during gestation.", got.FAQ[0].Answer)
	assert.Equal(t, "Bu makale hangi konuları içeriyor?", got.FAQ[1].Question)
	assert.Equal(t, "Bu makale, Pregnancy, Folic Acid konularını içermektedir.", got.FAQ[1].Answer)
	assert.Equal(t, "Hamilelik döneminde nelere dikkat edilmelidir?", got.FAQ[2].Question)
	assert.Equal(t, "Hamilelikte hangi besinler tüketilmelidir?", got.FAQ[3].Question)
}

func TestFAQCategoryPairs(t *testing.T) {
	o := New(allEnabled())

	cc := sampleContent()
	cc.MeSHTerms = []string{"Women's Health", "Infant Health"}
	got, err := o.Optimize(cc)
	require.NoError(t, err)

	var questions []string
	for _, f := range got.FAQ {
		questions = append(questions, f.Question)
	}
	assert.Contains(t, questions, "Bebeklerde sağlıklı gelişim nasıl desteklenir?")
	assert.Contains(t, questions, "Kadınlar için düzenli sağlık kontrolleri nelerdir?")
	assert.NotContains(t, questions, "Hamilelik döneminde nelere dikkat edilmelidir?")
}

func TestFAQDisabled(t *testing.T) {
	cfg := allEnabled()
	cfg.FAQGeneration = false
	o := New(cfg)

	got, err := o.Optimize(sampleContent())
	require.NoError(t, err)
	assert.Empty(t, got.FAQ)
}

func TestSEODisabledPassesContentThrough(t *testing.T) {
	cfg := allEnabled()
	cfg.SEOOptimization = false
	o := New(cfg)

	cc := sampleContent()
	got, err := o.Optimize(cc)
	require.NoError(t, err)

	assert.Equal(t, cc.Title, got.SEOTitle)
	assert.Equal(t, cc.Excerpt, got.SEODescription)
	assert.Equal(t, cc.Content, got.Content)
	assert.Empty(t, got.SchemaMarkup)
}

func TestSchemaMarkup(t *testing.T) {
	o := New(allEnabled())

	got, err := o.Optimize(sampleContent())
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(got.SchemaMarkup), &doc))
	require.Contains(t, doc, "MedicalWebPage")
	require.Contains(t, doc, "Article")
	require.Contains(t, doc, "FAQPage")

	var article struct {
		Type     string `json:"@type"`
		Headline string `json:"headline"`
		Author   []struct {
			Type string `json:"@type"`
			Name string `json:"name"`
		} `json:"author"`
		IsPartOf struct {
			Type string `json:"@type"`
			Name string `json:"name"`
		} `json:"isPartOf"`
	}
	require.NoError(t, json.Unmarshal(doc["Article"], &article))
	assert.Equal(t, "MedicalScholarlyArticle", article.Type)
	assert.Equal(t, "Folic Acid Supplementation", article.Headline)
	require.Len(t, article.Author, 2)
	assert.Equal(t, "Person", article.Author[0].Type)
	assert.Equal(t, "Periodical", article.IsPartOf.Type)
	assert.Equal(t, "Journal of Maternal Health", article.IsPartOf.Name)
}

func TestSchemaMarkupOmitsFAQPageWhenEmpty(t *testing.T) {
	cfg := allEnabled()
	cfg.FAQGeneration = false
	o := New(cfg)

	got, err := o.Optimize(sampleContent())
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(got.SchemaMarkup), &doc))
	assert.NotContains(t, doc, "FAQPage")
}
