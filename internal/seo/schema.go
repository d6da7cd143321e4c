// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package seo

import (
	"encoding/json"
	"fmt"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// schema.org markup structures. Field order is fixed by the struct layout so
// the encoded markup is stable across runs.
type schemaDoc struct {
	MedicalWebPage pageSchema     `json:"MedicalWebPage"`
	Article        articleSchema  `json:"Article"`
	FAQPage        *faqPageSchema `json:"FAQPage,omitempty"`
}

type pageSchema struct {
	Context       string `json:"@context"`
	Type          string `json:"@type"`
	Headline      string `json:"headline"`
	Description   string `json:"description"`
	DatePublished string `json:"datePublished"`
}

type articleSchema struct {
	Context       string            `json:"@context"`
	Type          string            `json:"@type"`
	Headline      string            `json:"headline"`
	Description   string            `json:"description"`
	DatePublished string            `json:"datePublished"`
	Author        []personSchema    `json:"author,omitempty"`
	IsPartOf      *periodicalSchema `json:"isPartOf,omitempty"`
}

type personSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type periodicalSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type faqPageSchema struct {
	Context    string           `json:"@context"`
	Type       string           `json:"@type"`
	MainEntity []questionSchema `json:"mainEntity"`
}

type questionSchema struct {
	Type           string       `json:"@type"`
	Name           string       `json:"name"`
	AcceptedAnswer answerSchema `json:"acceptedAnswer"`
}

type answerSchema struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// schemaMarkup encodes the structured-data block for oc: a MedicalWebPage
// and a MedicalScholarlyArticle, plus an FAQPage when FAQ entries exist.
func (o *Optimizer) schemaMarkup(oc types.OptimizedContent) (string, error) {
	if !o.cfg.SEOOptimization {
		return "", nil
	}

	doc := schemaDoc{
		MedicalWebPage: pageSchema{
			Context:       "https://schema.org",
			Type:          "MedicalWebPage",
			Headline:      oc.Title,
			Description:   oc.Excerpt,
			DatePublished: oc.PublicationDate,
		},
		Article: articleSchema{
			Context:       "https://schema.org",
			Type:          "MedicalScholarlyArticle",
			Headline:      oc.Title,
			Description:   oc.Excerpt,
			DatePublished: oc.PublicationDate,
		},
	}

	for _, author := range oc.Authors {
		doc.Article.Author = append(doc.Article.Author, personSchema{Type: "Person", Name: author})
	}
	if oc.Journal != "" {
		doc.Article.IsPartOf = &periodicalSchema{Type: "Periodical", Name: oc.Journal}
	}

	if len(oc.FAQ) > 0 {
		page := &faqPageSchema{Context: "https://schema.org", Type: "FAQPage"}
		for _, item := range oc.FAQ {
			page.MainEntity = append(page.MainEntity, questionSchema{
				Type:           "Question",
				Name:           item.Question,
				AcceptedAnswer: answerSchema{Type: "Answer", Text: item.Answer},
			})
		}
		doc.FAQPage = page
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding schema markup: %w", err)
	}
	return string(data), nil
}
