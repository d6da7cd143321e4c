// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kreatifsayfa/pubmed-health-importer/internal/categorize"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/compose"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/gemini"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/importer"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/scheduler"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/seo"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/store"
	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

var importCmd = &cobra.Command{
	Use:   "import <pmid>...",
	Short: "Import PubMed articles as posts",
	Long: `Import fetches the full record for each PMID, composes post content with
categories, tags, and SEO metadata, and stores it. Articles already in the
import index are skipped. With content enhancement enabled and a Gemini API
key configured, each new post is additionally rewritten by the AI pass.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	orch := buildOrchestrator(cfg, st, nil)
	ctx := context.Background()

	var failed int
	for _, pmid := range args {
		imported, err := st.IsImported(ctx, pmid)
		if err != nil {
			return err
		}
		if imported {
			fmt.Fprintf(os.Stdout, "skipped  %s (already imported)\n", pmid)
			continue
		}

		postID, err := orch.ImportArticle(ctx, pmid, os.Stdout)
		if errors.Is(err, store.ErrAlreadyImported) {
			fmt.Fprintf(os.Stdout, "skipped  %s (already imported)\n", pmid)
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed   %s: %v\n", pmid, err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "imported %s as post %d\n", pmid, postID)
	}

	if failed > 0 {
		return fmt.Errorf("%d article(s) failed to import", failed)
	}
	return nil
}

// buildOrchestrator assembles the pipeline from the configuration. triggers
// may be nil for one-shot commands.
func buildOrchestrator(cfg types.Config, st *store.Store, triggers *scheduler.Scheduler) *importer.Orchestrator {
	client := newPubMedClient(cfg, st)
	composer := compose.New(categorize.New(nil, ""))
	optimizer := seo.New(cfg.SEO)

	var enhancer importer.Enhancer
	if cfg.Gemini.APIKey != "" {
		enhancer = gemini.NewClient(cfg.Gemini)
	}

	return importer.New(st, client, enhancer, composer, optimizer, triggers, cfg.Import)
}

func init() {
	rootCmd.AddCommand(importCmd)
}
