// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kreatifsayfa/pubmed-health-importer/internal/gemini"
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance <post-id>",
	Short: "Rewrite a stored post through the AI enrichment pass",
	Long: `Enhance sends a stored post through the generative AI rewrite and updates
it in place, along with any regenerated FAQ, snippet, and schema blocks.
Requires a configured Gemini API key.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnhance,
}

func runEnhance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	postID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid post ID %q", args[0])
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	post, err := st.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	client := gemini.NewClient(cfg.Gemini)
	enhanced, err := client.Enhance(ctx, post.Content, post.Title)
	if err != nil {
		return err
	}

	meta := map[string]string{"content_enhanced": "1"}
	if len(enhanced.FAQ) > 0 {
		if data, err := json.Marshal(enhanced.FAQ); err == nil {
			meta["faq"] = string(data)
		}
	}
	if !enhanced.FeaturedSnippet.IsEmpty() {
		if data, err := json.Marshal(enhanced.FeaturedSnippet); err == nil {
			meta["featured_snippet"] = string(data)
		}
	}
	if enhanced.SchemaMarkup != "" {
		meta["schema_markup"] = enhanced.SchemaMarkup
	}

	if err := st.UpdatePostContent(ctx, postID, enhanced.Content, meta); err != nil {
		return err
	}
	fmt.Printf("enhanced post %d (%d FAQ entries)\n", postID, len(enhanced.FAQ))
	return nil
}

func init() {
	rootCmd.AddCommand(enhanceCmd)
}
