// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// exportDoc is the YAML export layout: the import index plus the saved
// searches that produced it.
type exportDoc struct {
	Articles          []types.ImportedArticle `yaml:"articles"`
	ScheduledSearches []types.ScheduledSearch `yaml:"scheduled_searches"`
}

// ExportYAML writes the import index and scheduled searches to w as one
// YAML document, for backup or inspection.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	articles, err := s.ListImported(ctx)
	if err != nil {
		return err
	}
	searches, err := s.ListScheduledSearches(ctx)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(exportDoc{Articles: articles, ScheduledSearches: searches}); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return enc.Close()
}
