// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ComposedContent is the output of the content composer: an article record
// rendered into publishable document markup with derived taxonomy.
type ComposedContent struct {
	// Title is the cleaned article title.
	Title string `json:"title"`

	// Content is the article body HTML, built from the fixed section skeleton
	// (intro, abstract, detail placeholder, keywords, source attribution).
	Content string `json:"content"`

	// Excerpt is the plain-text teaser derived from the abstract, at most 250
	// characters of source text before the trailing ellipsis.
	Excerpt string `json:"excerpt"`

	Authors         []string `json:"authors"`
	PublicationDate string   `json:"publication_date"`
	Journal         string   `json:"journal"`
	MeSHTerms       []string `json:"mesh_terms"`

	// Categories is never empty; unmapped MeSH terms fall back to the
	// sentinel category.
	Categories []string `json:"categories"`

	// Tags holds deduplicated MeSH-derived tags, capped at ten.
	Tags []string `json:"tags"`
}

// FAQEntry is one question/answer pair.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SnippetDefinition is the definition variant of a featured snippet: a short
// direct answer under the article title.
type SnippetDefinition struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SnippetList is the list variant: a titled bullet list of topics.
type SnippetList struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// SnippetTable is the table variant: topic/description rows.
type SnippetTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// FeaturedSnippet holds the candidate snippet variants. Variants that could
// not be built are nil and omitted from serialized output.
type FeaturedSnippet struct {
	Definition *SnippetDefinition `json:"definition,omitempty"`
	List       *SnippetList       `json:"list,omitempty"`
	Table      *SnippetTable      `json:"table,omitempty"`
}

// IsEmpty reports whether no snippet variant was produced.
func (f FeaturedSnippet) IsEmpty() bool {
	return f.Definition == nil && f.List == nil && f.Table == nil
}

// OptimizedContent is ComposedContent plus the SEO layer. Gated sub-features
// that are disabled leave their fields empty rather than failing.
type OptimizedContent struct {
	ComposedContent

	// SEOTitle is the search-engine title; equal to Title when SEO
	// optimization is off or the title is already long enough.
	SEOTitle string `json:"seo_title"`

	// SEODescription is the meta description derived from the excerpt.
	SEODescription string `json:"seo_description"`

	// FAQ holds generated question/answer pairs, in derivation order.
	FAQ []FAQEntry `json:"faq,omitempty"`

	// SchemaMarkup is the structured-data JSON document (MedicalWebPage,
	// Article, and FAQPage schemas).
	SchemaMarkup string `json:"schema_markup,omitempty"`

	// FeaturedSnippet holds the snippet candidates.
	FeaturedSnippet FeaturedSnippet `json:"featured_snippet,omitempty"`
}

// EnhancedContent is the output of the AI enrichment pass. Only Content is
// guaranteed; the auxiliary fields degrade to empty when their generation
// calls fail.
type EnhancedContent struct {
	Content         string          `json:"content"`
	FAQ             []FAQEntry      `json:"faq,omitempty"`
	FeaturedSnippet FeaturedSnippet `json:"featured_snippet,omitempty"`
	SchemaMarkup    string          `json:"schema_markup,omitempty"`
}
