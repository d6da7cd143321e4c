// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// efetch XML structures, covering the subset of the PubmedArticleSet
// document the importer reads.
type efetchResult struct {
	Articles []efetchArticle `xml:"PubmedArticle"`
}

type efetchArticle struct {
	Citation efetchCitation `xml:"MedlineCitation"`
}

type efetchCitation struct {
	PMID         string         `xml:"PMID"`
	Article      efetchMedline  `xml:"Article"`
	MeshHeadings []efetchMeshHD `xml:"MeshHeadingList>MeshHeading"`
}

type efetchMedline struct {
	Title    string           `xml:"ArticleTitle"`
	Abstract []efetchAbstract `xml:"Abstract>AbstractText"`
	Authors  []efetchAuthor   `xml:"AuthorList>Author"`
	Journal  efetchJournal    `xml:"Journal"`
}

type efetchAbstract struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}

type efetchAuthor struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	CollectiveName string `xml:"CollectiveName"`
}

type efetchJournal struct {
	Title   string        `xml:"Title"`
	PubDate efetchPubDate `xml:"JournalIssue>PubDate"`
}

type efetchPubDate struct {
	Year  string `xml:"Year"`
	Month string `xml:"Month"`
	Day   string `xml:"Day"`
}

type efetchMeshHD struct {
	Descriptor string `xml:"DescriptorName"`
}

// parseEfetch decodes a PubmedArticleSet document into article records.
func parseEfetch(body []byte) ([]types.ArticleRecord, error) {
	var doc efetchResult
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: efetch XML: %v", types.ErrDecode, err)
	}

	records := make([]types.ArticleRecord, 0, len(doc.Articles))
	for _, a := range doc.Articles {
		records = append(records, a.record())
	}
	return records, nil
}

// record flattens the XML article into the pipeline's record shape.
func (a efetchArticle) record() types.ArticleRecord {
	cit := a.Citation
	rec := types.ArticleRecord{
		PMID:    strings.TrimSpace(cit.PMID),
		Title:   strings.TrimSpace(cit.Article.Title),
		Journal: strings.TrimSpace(cit.Article.Journal.Title),
	}

	for _, au := range cit.Article.Authors {
		if name := au.displayName(); name != "" {
			rec.Authors = append(rec.Authors, name)
		}
	}

	rec.Abstract = joinAbstract(cit.Article.Abstract)

	pd := cit.Article.Journal.PubDate
	rec.PublicationDate = formatDate(
		strings.TrimSpace(pd.Year), strings.TrimSpace(pd.Month), strings.TrimSpace(pd.Day))

	for _, mh := range cit.MeshHeadings {
		if d := strings.TrimSpace(mh.Descriptor); d != "" {
			rec.MeSHTerms = append(rec.MeSHTerms, d)
		}
	}
	return rec
}

// displayName renders an author as "Last Fore", falling back to whichever
// part is present, or to the collective name for group authors.
func (au efetchAuthor) displayName() string {
	last := strings.TrimSpace(au.LastName)
	fore := strings.TrimSpace(au.ForeName)
	switch {
	case last != "" && fore != "":
		return last + " " + fore
	case last != "":
		return last
	default:
		return strings.TrimSpace(au.CollectiveName)
	}
}

// joinAbstract concatenates abstract sections, prefixing labelled sections
// with "LABEL: " and separating sections with a blank line.
func joinAbstract(sections []efetchAbstract) string {
	var parts []string
	for _, s := range sections {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if label := strings.TrimSpace(s.Label); label != "" {
			text = label + ": " + text
		}
		parts = append(parts, text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}
