// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-health-importer
// pipeline: PubMed records, composed and optimized content, scheduled search
// definitions, and the import index rows.
package types

import "time"

// ArticleSummary is a lightweight record returned by the PubMed summary
// endpoint. Abstract and MeSH terms are not populated here; a detail fetch
// per PMID is required for those.
type ArticleSummary struct {
	// PMID is the PubMed identifier, the stable primary key across the system.
	PMID string `json:"pmid"`

	// Title is the article title as returned by the summary endpoint.
	Title string `json:"title"`

	// Authors lists author display names in source order.
	Authors []string `json:"authors"`

	// Journal is the full journal name.
	Journal string `json:"journal"`

	// PublicationDate is the raw pubdate string from the summary endpoint.
	PublicationDate string `json:"publication_date"`
}

// SearchResultPage holds one page of search results.
type SearchResultPage struct {
	// Total is the total hit count reported by the search endpoint, which may
	// exceed len(Articles).
	Total int `json:"total"`

	// Articles holds the summaries for this page, in endpoint order.
	Articles []ArticleSummary `json:"articles"`
}

// ArticleRecord is the full bibliographic record from the PubMed detail
// endpoint. Immutable once fetched; cached by PMID.
type ArticleRecord struct {
	// PMID is the PubMed identifier.
	PMID string `json:"pmid"`

	// Title is the article title.
	Title string `json:"title"`

	// Authors lists flattened author display names. Personal names render as
	// "LastName ForeName", surname-only authors as "LastName", and group
	// authorship as the collective name.
	Authors []string `json:"authors"`

	// Abstract is the abstract text. Structured abstracts keep their section
	// labels as "LABEL: " prefixes, with sections joined by blank lines.
	Abstract string `json:"abstract"`

	// Journal is the journal title.
	Journal string `json:"journal"`

	// PublicationDate is "YYYY", "YYYY-MM", or "YYYY-MM-DD" depending on how
	// much of the date PubMed provides.
	PublicationDate string `json:"publication_date"`

	// MeSHTerms lists the controlled-vocabulary descriptor names.
	MeSHTerms []string `json:"mesh_terms"`
}

// ImportedArticle is one row of the import index: the deduplication oracle.
// A PMID present here is never re-fetched or re-imported by scheduled runs.
type ImportedArticle struct {
	// PMID is unique across the index.
	PMID string `json:"pmid" yaml:"pmid"`

	// PostID links to the content-store entry created for this article.
	PostID int64 `json:"post_id" yaml:"post_id"`

	Title           string    `json:"title" yaml:"title"`
	Authors         []string  `json:"authors" yaml:"authors"`
	Abstract        string    `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	PublicationDate string    `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`
	Journal         string    `json:"journal,omitempty" yaml:"journal,omitempty"`
	MeSHTerms       []string  `json:"mesh_terms,omitempty" yaml:"mesh_terms,omitempty"`
	ImportedAt      time.Time `json:"imported_at" yaml:"imported_at"`
}
