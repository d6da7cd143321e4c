// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose turns normalized article records into publishable post
// content. Composition is deterministic: the same record always produces the
// same output, so re-imports are idempotent upstream.
package compose

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/kreatifsayfa/pubmed-health-importer/internal/categorize"
	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// excerptLength is the maximum excerpt size in bytes before the ellipsis.
const excerptLength = 250

// articleBaseURL is the public article page root used for source links.
const articleBaseURL = "https://pubmed.ncbi.nlm.nih.gov/"

// Composer assembles post content from article records, deriving categories
// and tags through the categorizer.
type Composer struct {
	cats *categorize.Categorizer
}

// New returns a composer using the given categorizer. A nil categorizer
// falls back to the default mapping.
func New(cats *categorize.Categorizer) *Composer {
	if cats == nil {
		cats = categorize.New(nil, "")
	}
	return &Composer{cats: cats}
}

// Compose builds the full post from rec. The record must carry a PMID;
// anything else may be empty. An empty title composes fine here and is
// rejected downstream by the optimizer.
func (c *Composer) Compose(rec types.ArticleRecord) (types.ComposedContent, error) {
	if rec.PMID == "" {
		return types.ComposedContent{}, fmt.Errorf("%w: missing PMID", types.ErrInvalidRecord)
	}
	title := cleanTitle(rec.Title)

	content := buildContent(rec, title)

	return types.ComposedContent{
		Title:           title,
		Content:         content,
		Excerpt:         generateExcerpt(rec.Abstract, content),
		Authors:         rec.Authors,
		PublicationDate: rec.PublicationDate,
		Journal:         rec.Journal,
		MeSHTerms:       rec.MeSHTerms,
		Categories:      c.cats.Categorize(rec.MeSHTerms),
		Tags:            c.cats.Tags(rec.MeSHTerms),
	}, nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripTags removes HTML tags from s.
func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// cleanTitle strips markup and collapses runs of spaces left by it.
func cleanTitle(title string) string {
	t := strings.TrimSpace(stripTags(title))
	t = strings.ReplaceAll(t, "   ", " ")
	t = strings.ReplaceAll(t, "  ", " ")
	return t
}

// FormatAuthors joins author names for display: two names with "ve", three
// or more as a comma list whose last element is joined with "ve".
func FormatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return authors[0]
	case 2:
		return authors[0] + " ve " + authors[1]
	default:
		head := strings.Join(authors[:len(authors)-1], ", ")
		return head + " ve " + authors[len(authors)-1]
	}
}

// formatAbstract renders the abstract as escaped paragraphs, one per
// blank-line-separated section.
func formatAbstract(abstract string) string {
	var b strings.Builder
	for _, para := range strings.Split(abstract, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(para))
		b.WriteString("</p>\n")
	}
	return b.String()
}

// buildContent assembles the sectioned post body.
func buildContent(rec types.ArticleRecord, title string) string {
	var b strings.Builder

	b.WriteString(`<div class="pubmed-article-intro">` + "\n")
	if len(rec.Authors) > 0 {
		fmt.Fprintf(&b, "<p><strong>Yazarlar:</strong> %s</p>\n",
			html.EscapeString(FormatAuthors(rec.Authors)))
	}
	if rec.Journal != "" || rec.PublicationDate != "" {
		var meta []string
		if rec.Journal != "" {
			meta = append(meta, "<strong>Dergi:</strong> "+html.EscapeString(rec.Journal))
		}
		if rec.PublicationDate != "" {
			meta = append(meta, "<strong>Yayın Tarihi:</strong> "+html.EscapeString(rec.PublicationDate))
		}
		fmt.Fprintf(&b, "<p>%s</p>\n", strings.Join(meta, " | "))
	}
	b.WriteString("</div>\n\n")

	if rec.Abstract != "" {
		b.WriteString(`<div class="pubmed-article-abstract">` + "\n")
		b.WriteString("<h2>Özet</h2>\n")
		b.WriteString(formatAbstract(rec.Abstract))
		b.WriteString("</div>\n\n")
	}

	b.WriteString(`<div class="pubmed-article-content">` + "\n")
	b.WriteString("<h2>Detaylı Bilgi</h2>\n")
	b.WriteString("<p>Bu makale hakkında detaylı bilgi için orijinal kaynağa başvurabilirsiniz.</p>\n")
	b.WriteString("</div>\n\n")

	if len(rec.MeSHTerms) > 0 {
		b.WriteString(`<div class="pubmed-article-keywords">` + "\n")
		b.WriteString("<h3>Anahtar Kelimeler</h3>\n")
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(strings.Join(rec.MeSHTerms, ", ")))
		b.WriteString("</div>\n\n")
	}

	b.WriteString(`<div class="pubmed-article-source-info">` + "\n")
	b.WriteString("<h3>Kaynak</h3>\n")
	fmt.Fprintf(&b,
		"<p>Bu içerik PubMed veritabanından alınmıştır: <a href=\"%s%s/\" target=\"_blank\" rel=\"noopener\">%s</a></p>\n",
		articleBaseURL, rec.PMID, html.EscapeString(title))
	b.WriteString("</div>\n")

	return b.String()
}

// generateExcerpt produces a plain-text teaser, preferring the abstract and
// falling back to the body text. Long text is cut at a word boundary near
// the length limit; the ellipsis is appended either way.
func generateExcerpt(abstract, content string) string {
	source := strings.TrimSpace(stripTags(abstract))
	if source == "" {
		source = strings.TrimSpace(stripTags(content))
	}
	source = strings.Join(strings.Fields(source), " ")

	if len(source) <= excerptLength {
		return source + "..."
	}
	cut := source[:excerptLength]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
