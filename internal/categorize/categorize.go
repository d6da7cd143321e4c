// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package categorize maps MeSH subject terms to site categories and tags.
// All operations are total functions: any input, including nil, produces a
// valid result.
package categorize

// DefaultSentinel is the fallback category assigned when no MeSH term maps.
const DefaultSentinel = "Genel Sağlık"

// maxTags caps the tag list length after deduplication.
const maxTags = 10

// DefaultCategoryMapping is the stock MeSH-term → category table, covering
// the women's and infant-health vocabulary the importer targets.
func DefaultCategoryMapping() map[string]string {
	return map[string]string{
		// Women's health
		"Women's Health":          "Kadın Sağlığı",
		"Pregnancy":               "Hamilelik",
		"Pregnancy Complications": "Hamilelik Komplikasyonları",
		"Reproductive Health":     "Üreme Sağlığı",
		"Maternal Health":         "Anne Sağlığı",
		"Female Genital Diseases": "Kadın Genital Hastalıkları",
		"Menstruation":            "Menstrüasyon",
		"Menopause":               "Menopoz",

		// Infant and child health
		"Infant Health":             "Bebek Sağlığı",
		"Child Health":              "Çocuk Sağlığı",
		"Pediatrics":                "Pediatri",
		"Infant Care":               "Bebek Bakımı",
		"Child Development":         "Çocuk Gelişimi",
		"Infant Nutrition":          "Bebek Beslenmesi",
		"Infant, Newborn, Diseases": "Yenidoğan Hastalıkları",
	}
}

// Categorizer derives categories and tags from MeSH terms via an exact-match
// lookup table.
type Categorizer struct {
	mapping  map[string]string
	sentinel string
}

// New returns a categorizer over the given term → category mapping. A nil
// mapping or empty sentinel fall back to the package defaults.
func New(mapping map[string]string, sentinel string) *Categorizer {
	if mapping == nil {
		mapping = DefaultCategoryMapping()
	}
	if sentinel == "" {
		sentinel = DefaultSentinel
	}
	return &Categorizer{mapping: mapping, sentinel: sentinel}
}

// Categorize maps MeSH terms to categories. Unmatched or empty input yields
// the sentinel category; duplicates are removed keeping first occurrence.
func (c *Categorizer) Categorize(meshTerms []string) []string {
	seen := make(map[string]bool)
	var categories []string

	for _, term := range meshTerms {
		cat, ok := c.mapping[term]
		if !ok || seen[cat] {
			continue
		}
		seen[cat] = true
		categories = append(categories, cat)
	}

	if len(categories) == 0 {
		return []string{c.sentinel}
	}
	return categories
}

// Tags turns MeSH terms into tags verbatim, deduplicated and capped at ten.
// Sub-term expansion is an extension point that currently yields nothing.
func (c *Categorizer) Tags(meshTerms []string) []string {
	seen := make(map[string]bool)
	var tags []string

	for _, term := range meshTerms {
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		tags = append(tags, term)

		for _, sub := range subTerms(term) {
			if !seen[sub] {
				seen[sub] = true
				tags = append(tags, sub)
			}
		}
	}

	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// subTerms returns hierarchical sub-terms for a MeSH term. None are defined
// yet.
func subTerms(string) []string {
	return nil
}
