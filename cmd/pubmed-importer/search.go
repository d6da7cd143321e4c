// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search PubMed for articles matching a query",
	Long: `Search runs a PubMed query scoped to the configured subject-term list and
prints one page of results. Use --related with a PMID instead of a query to
list articles related to one you already know.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	client := newPubMedClient(cfg, st)

	count, _ := cmd.Flags().GetInt("count")
	start, _ := cmd.Flags().GetInt("start")
	related, _ := cmd.Flags().GetString("related")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	ctx := context.Background()

	if related != "" {
		articles, err := client.GetRelated(ctx, related, count)
		if err != nil {
			return err
		}
		return formatSummaries(types.SearchResultPage{
			Total:    len(articles),
			Articles: articles,
		}, jsonOutput)
	}

	query := strings.Join(args, " ")
	if query == "" {
		return fmt.Errorf("query required: provide search terms or --related with a PMID")
	}

	page, err := client.Search(ctx, query, count, start)
	if err != nil {
		return err
	}
	return formatSummaries(page, jsonOutput)
}

func formatSummaries(page types.SearchResultPage, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	if len(page.Articles) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-60s  %-24s  %s\n", "PMID", "Title", "Journal", "Date")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, a := range page.Articles {
		title := a.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		journal := a.Journal
		if len(journal) > 24 {
			journal = journal[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-60s  %-24s  %s\n",
			a.PMID, title, journal, a.PublicationDate)
	}

	fmt.Fprintf(os.Stdout, "\n%d shown, %d total matches\n", len(page.Articles), page.Total)
	return nil
}

func init() {
	searchCmd.Flags().Int("count", 10, "number of results per page")
	searchCmd.Flags().Int("start", 0, "result offset for paging")
	searchCmd.Flags().String("related", "", "list articles related to this PMID instead of searching")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
