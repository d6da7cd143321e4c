// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package seo enriches composed content for search visibility: SEO title and
// description, heading structure, FAQ derivation, featured-snippet
// candidates and schema.org markup. Every pass is gated by configuration and
// deterministic for a given input.
package seo

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// seoTitleMinLength is the title length below which a category suffix is
// appended.
const seoTitleMinLength = 40

// seoDescriptionMinLength is the description length below which a category
// sentence is appended.
const seoDescriptionMinLength = 150

// Optimizer applies the SEO passes enabled in cfg.
type Optimizer struct {
	cfg types.SEOConfig
}

// New returns an optimizer gated by cfg.
func New(cfg types.SEOConfig) *Optimizer {
	return &Optimizer{cfg: cfg}
}

// Optimize runs all enabled passes over cc. The input must carry a title.
func (o *Optimizer) Optimize(cc types.ComposedContent) (types.OptimizedContent, error) {
	if cc.Title == "" {
		return types.OptimizedContent{}, fmt.Errorf("%w: missing title", types.ErrInvalidContent)
	}

	out := types.OptimizedContent{ComposedContent: cc}
	out.SEOTitle = o.seoTitle(cc.Title, cc.Categories)
	out.SEODescription = o.seoDescription(cc.Excerpt, cc.Categories)
	out.Content = o.optimizeStructure(cc.Content, cc.Title)
	out.FAQ = o.generateFAQ(cc.Title, cc.Content, cc.Excerpt, cc.MeSHTerms)
	out.FeaturedSnippet = o.featuredSnippet(cc.Title, cc.Excerpt, cc.MeSHTerms)

	markup, err := o.schemaMarkup(out)
	if err != nil {
		return types.OptimizedContent{}, err
	}
	out.SchemaMarkup = markup

	return out, nil
}

// seoTitle appends a category guide suffix to short titles.
func (o *Optimizer) seoTitle(title string, categories []string) string {
	if !o.cfg.SEOOptimization || len(title) > seoTitleMinLength || len(categories) == 0 {
		return title
	}
	return title + " - " + categories[0] + " Rehberi"
}

// seoDescription appends a category sentence to short descriptions.
func (o *Optimizer) seoDescription(excerpt string, categories []string) string {
	if !o.cfg.SEOOptimization || excerpt == "" ||
		len(excerpt) > seoDescriptionMinLength || len(categories) == 0 {
		return excerpt
	}
	return excerpt + " Bu rehber, " + categories[0] + " hakkında önemli bilgiler içermektedir."
}

// optimizeStructure wraps the title as an H1 when missing, fills in heading
// structure and backfills image alt attributes.
func (o *Optimizer) optimizeStructure(content, title string) string {
	if !o.cfg.SEOOptimization {
		return content
	}
	if !strings.Contains(content, "<h1>") {
		content = "<h1>" + html.EscapeString(title) + "</h1>" + content
	}
	content = addHeadingStructure(content)
	content = addInternalLinks(content)
	content = addImageAltTags(content, title)
	return content
}

// sectionHeadings maps section wrappers to the heading injected when the
// document is heading-poor.
var sectionHeadings = []struct{ div, heading string }{
	{`<div class="pubmed-article-abstract">`, "<h2>Özet</h2>"},
	{`<div class="pubmed-article-content">`, "<h2>Detaylı Bilgi</h2>"},
	{`<div class="pubmed-article-keywords">`, "<h3>Anahtar Kelimeler</h3>"},
	{`<div class="pubmed-article-source-info">`, "<h3>Kaynak</h3>"},
}

// addHeadingStructure injects section headings unless the document already
// has at least two H2 and two H3 headings.
func addHeadingStructure(content string) string {
	if strings.Count(content, "<h2>") >= 2 && strings.Count(content, "<h3>") >= 2 {
		return content
	}
	for _, s := range sectionHeadings {
		content = strings.ReplaceAll(content, s.div, s.div+s.heading)
	}
	return content
}

// addInternalLinks is an extension point; it currently returns the content
// unchanged.
func addInternalLinks(content string) string {
	return content
}

var imgTagPattern = regexp.MustCompile(`(?i)<img[^>]*>`)

// addImageAltTags backfills alt attributes on images that lack one, using
// the post title.
func addImageAltTags(content, title string) string {
	return imgTagPattern.ReplaceAllStringFunc(content, func(tag string) string {
		if strings.Contains(tag, "alt=") {
			return tag
		}
		return strings.Replace(tag, "<img", `<img alt="`+html.EscapeString(title)+`"`, 1)
	})
}

// generateFAQ derives question/answer pairs from the title, subject terms
// and category-specific stock questions.
func (o *Optimizer) generateFAQ(title, content, excerpt string, meshTerms []string) []types.FAQEntry {
	if !o.cfg.FAQGeneration {
		return nil
	}

	faq := []types.FAQEntry{
		{Question: titleToQuestion(title), Answer: excerpt},
		{
			Question: "Bu makale hangi konuları içeriyor?",
			Answer:   "Bu makale, " + strings.Join(meshTerms, ", ") + " konularını içermektedir.",
		},
	}
	faq = append(faq, categoryQuestions(meshTerms)...)
	faq = append(faq, questionsFromContent(content)...)
	return faq
}

// titleToQuestion turns a post title into a question. Titles already phrased
// as questions pass through; otherwise a generic "nedir?" form is used.
func titleToQuestion(title string) string {
	if strings.HasSuffix(title, "?") {
		return title
	}
	lower := strings.ToLower(title)
	if strings.Contains(lower, "nedir") || strings.Contains(lower, "nasıl") {
		return title + "?"
	}
	return title + " nedir?"
}

// categoryQuestions returns the stock Q&A pairs for subject areas present in
// the term list.
func categoryQuestions(meshTerms []string) []types.FAQEntry {
	present := make(map[string]bool, len(meshTerms))
	for _, t := range meshTerms {
		present[t] = true
	}

	var faq []types.FAQEntry
	if present["Pregnancy"] {
		faq = append(faq,
			types.FAQEntry{
				Question: "Hamilelik döneminde nelere dikkat edilmelidir?",
				Answer:   "Hamilelik döneminde dengeli beslenme, düzenli egzersiz, yeterli uyku ve stres yönetimi önemlidir. Ayrıca, düzenli doktor kontrollerine gitmek ve zararlı maddelerden uzak durmak gerekir.",
			},
			types.FAQEntry{
				Question: "Hamilelikte hangi besinler tüketilmelidir?",
				Answer:   "Hamilelikte protein, kalsiyum, demir, folik asit ve diğer vitaminler açısından zengin besinler tüketilmelidir. Bunlar arasında süt ürünleri, et, balık, yumurta, kurubaklagiller, yeşil yapraklı sebzeler, meyveler ve tam tahıllı ürünler yer alır.",
			})
	}
	if present["Infant Health"] || present["Child Health"] {
		faq = append(faq,
			types.FAQEntry{
				Question: "Bebeklerde sağlıklı gelişim nasıl desteklenir?",
				Answer:   "Bebeklerde sağlıklı gelişim için anne sütü ile beslenme, düzenli uyku düzeni, sevgi dolu bir ortam, düzenli doktor kontrolleri ve aşılar, uygun uyaranlar ve oyunlar önemlidir.",
			},
			types.FAQEntry{
				Question: "Bebeklerde en sık görülen sağlık sorunları nelerdir?",
				Answer:   "Bebeklerde en sık görülen sağlık sorunları arasında kolik, pişik, üst solunum yolu enfeksiyonları, orta kulak iltihabı, ishal, kabızlık ve ateş yer alır.",
			})
	}
	if present["Women's Health"] {
		faq = append(faq,
			types.FAQEntry{
				Question: "Kadınlar için düzenli sağlık kontrolleri nelerdir?",
				Answer:   "Kadınlar için düzenli sağlık kontrolleri arasında yıllık jinekolojik muayene, Pap smear testi, meme muayenesi, kemik yoğunluğu ölçümü, kan basıncı kontrolü, kolesterol testi ve genel sağlık taramaları yer alır.",
			},
			types.FAQEntry{
				Question: "Kadınlarda en sık görülen sağlık sorunları nelerdir?",
				Answer:   "Kadınlarda en sık görülen sağlık sorunları arasında meme kanseri, over kanseri, osteoporoz, kalp hastalıkları, depresyon, anemi, tiroid hastalıkları ve üriner sistem enfeksiyonları yer alır.",
			})
	}
	return faq
}

// questionsFromContent mines Q&A pairs out of the post body. None are
// extracted yet.
func questionsFromContent(string) []types.FAQEntry {
	return nil
}
