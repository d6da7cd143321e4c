// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package seo

import (
	"regexp"
	"strings"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// snippetWordLimit caps the definition snippet length in words.
const snippetWordLimit = 50

// snippetListLimit caps the list snippet length in items.
const snippetListLimit = 5

// snippetTableMinRows is the minimum row count for a table snippet to be
// worth emitting.
const snippetTableMinRows = 3

// featuredSnippet builds the snippet candidates: a definition from the
// excerpt, a topic list and, when enough terms have descriptions, a table.
func (o *Optimizer) featuredSnippet(title, excerpt string, meshTerms []string) types.FeaturedSnippet {
	if !o.cfg.FeaturedSnippetOptimization {
		return types.FeaturedSnippet{}
	}

	fs := types.FeaturedSnippet{
		Definition: &types.SnippetDefinition{
			Title:   title,
			Content: truncateWords(excerpt, snippetWordLimit),
		},
	}

	if items := listItems(meshTerms); len(items) > 0 {
		fs.List = &types.SnippetList{
			Title: "Bu makale aşağıdaki konuları içermektedir:",
			Items: items,
		}
	}

	if table := tableData(meshTerms); table != nil {
		fs.Table = table
	}
	return fs
}

var snippetTagPattern = regexp.MustCompile(`<[^>]*>`)

// truncateWords strips markup and cuts the text to at most limit words,
// ellipsizing when shortened.
func truncateWords(text string, limit int) string {
	words := strings.Fields(snippetTagPattern.ReplaceAllString(text, ""))
	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ") + "..."
}

// listItems returns the first few subject terms for a list snippet.
func listItems(meshTerms []string) []string {
	if len(meshTerms) > snippetListLimit {
		return meshTerms[:snippetListLimit]
	}
	return meshTerms
}

// tableData builds a topic/description table from terms with known
// descriptions. Tables with too few rows are omitted entirely.
func tableData(meshTerms []string) *types.SnippetTable {
	descriptions := termDescriptions()

	var rows [][]string
	for _, term := range meshTerms {
		if desc, ok := descriptions[term]; ok {
			rows = append(rows, []string{term, desc})
		}
	}
	if len(rows) < snippetTableMinRows {
		return nil
	}
	return &types.SnippetTable{
		Headers: []string{"Konu", "Açıklama"},
		Rows:    rows,
	}
}

// termDescriptions is the Turkish gloss for each stock subject term, used to
// fill table snippets.
func termDescriptions() map[string]string {
	return map[string]string{
		"Women's Health":            "Kadın sağlığı, kadınların fiziksel, zihinsel ve sosyal refahını içeren sağlık konularını kapsar.",
		"Pregnancy":                 "Hamilelik, döllenme ile doğum arasındaki süreçtir ve yaklaşık 40 hafta sürer.",
		"Pregnancy Complications":   "Hamilelik komplikasyonları, hamilelik sırasında ortaya çıkan ve anne veya bebeğin sağlığını etkileyebilen sorunlardır.",
		"Reproductive Health":       "Üreme sağlığı, üreme sistemi, işlevleri ve süreçleri ile ilgili sağlık konularını kapsar.",
		"Maternal Health":           "Anne sağlığı, hamilelik, doğum ve doğum sonrası dönemde kadının sağlığını kapsar.",
		"Female Genital Diseases":   "Kadın genital hastalıkları, kadın üreme sistemini etkileyen hastalıkları kapsar.",
		"Menstruation":              "Menstrüasyon, kadınlarda aylık olarak gerçekleşen ve rahim iç zarının dökülmesini içeren fizyolojik bir süreçtir.",
		"Menopause":                 "Menopoz, kadınlarda üreme döneminin sona ermesi ve adet döngüsünün durmasıdır.",
		"Infant Health":             "Bebek sağlığı, doğumdan 1 yaşına kadar olan bebeklerin sağlığını kapsar.",
		"Child Health":              "Çocuk sağlığı, 1-18 yaş arası çocukların sağlığını kapsar.",
		"Pediatrics":                "Pediatri, çocuk sağlığı ve hastalıkları ile ilgilenen tıp dalıdır.",
		"Infant Care":               "Bebek bakımı, bebeklerin beslenme, uyku, hijyen ve genel bakım ihtiyaçlarını karşılamayı içerir.",
		"Child Development":         "Çocuk gelişimi, çocukların fiziksel, bilişsel, duygusal ve sosyal gelişimini kapsar.",
		"Infant Nutrition":          "Bebek beslenmesi, bebeklerin büyüme ve gelişme için ihtiyaç duydukları besinleri kapsar.",
		"Infant, Newborn, Diseases": "Yenidoğan hastalıkları, doğumdan sonraki ilk 28 gün içinde ortaya çıkan hastalıkları kapsar.",
	}
}
