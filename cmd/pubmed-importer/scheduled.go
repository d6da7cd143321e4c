// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

var scheduledCmd = &cobra.Command{
	Use:   "scheduled",
	Short: "Manage saved scheduled searches",
	Long: `Scheduled manages recurring search definitions. Saved searches are stored
in the importer database; the daemon runs them on their schedule, and "run"
executes one immediately.`,
}

// --- save subcommand ---

var scheduledSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or update a scheduled search",
	RunE:  runScheduledSave,
}

func runScheduledSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		return fmt.Errorf("--query is required")
	}
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = query
	}
	id, _ := cmd.Flags().GetInt64("id")
	description, _ := cmd.Flags().GetString("description")
	count, _ := cmd.Flags().GetInt("count")
	dateRange, _ := cmd.Flags().GetString("date-range")
	schedule, _ := cmd.Flags().GetString("schedule")

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	search := types.ScheduledSearch{
		ID:          id,
		Name:        name,
		Description: description,
		Params: types.SearchParams{
			Query:     query,
			Count:     count,
			DateRange: types.DateRange(dateRange),
		},
		Schedule: types.Recurrence(schedule),
	}

	// One-shot command: the daemon picks up the trigger change on its next
	// restore, so only the definition is written here.
	if err := st.SaveScheduledSearch(context.Background(), &search); err != nil {
		return err
	}
	fmt.Printf("saved scheduled search %d (%s, %s)\n", search.ID, search.Name, search.Schedule)
	return nil
}

// --- list subcommand ---

var scheduledListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scheduled searches",
	RunE:  runScheduledList,
}

func runScheduledList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	searches, err := st.ListScheduledSearches(context.Background())
	if err != nil {
		return err
	}
	if len(searches) == 0 {
		fmt.Println("No scheduled searches.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-24s  %-32s  %-8s  %-9s  %s\n",
		"ID", "Name", "Query", "Count", "Schedule", "Last run")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, s := range searches {
		lastRun := "never"
		if s.LastRun != nil {
			lastRun = s.LastRun.Format("2006-01-02 15:04")
		}
		name := s.Name
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		query := s.Params.Query
		if len(query) > 32 {
			query = query[:29] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-24s  %-32s  %-8d  %-9s  %s\n",
			s.ID, name, query, s.Params.Count, s.Schedule, lastRun)
	}
	return nil
}

// --- delete subcommand ---

var scheduledDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a scheduled search",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduledDelete,
}

func runScheduledDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid search ID %q", args[0])
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteScheduledSearch(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("deleted scheduled search %d\n", id)
	return nil
}

// --- run subcommand ---

var scheduledRunCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Run a scheduled search immediately",
	Long: `Run executes one saved search now: it queries PubMed with the stored
parameters and, when auto-import is enabled, imports every article that is
not yet in the import index.`,
	Args: cobra.ExactArgs(1),
	RunE: runScheduledRun,
}

func runScheduledRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid search ID %q", args[0])
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	orch := buildOrchestrator(cfg, st, nil)
	summary, err := orch.RunScheduledSearch(context.Background(), id, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d article(s) failed to import", summary.Failed)
	}
	return nil
}

// --- export subcommand ---

var scheduledExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the import index and scheduled searches as YAML",
	RunE:  runScheduledExport,
}

func runScheduledExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	return st.ExportYAML(context.Background(), os.Stdout)
}

func init() {
	scheduledSaveCmd.Flags().Int64("id", 0, "search ID to update (0 creates a new search)")
	scheduledSaveCmd.Flags().String("name", "", "display name (defaults to the query)")
	scheduledSaveCmd.Flags().String("description", "", "free-form description")
	scheduledSaveCmd.Flags().String("query", "", "search query")
	scheduledSaveCmd.Flags().Int("count", 10, "results to fetch per run")
	scheduledSaveCmd.Flags().String("date-range", "", "recency filter: 7days, 30days, 60days, 90days, 180days, or 1year (runs default to 30days when unset)")
	scheduledSaveCmd.Flags().String("schedule", "daily", "recurrence: hourly, daily, or weekly")

	scheduledCmd.AddCommand(scheduledSaveCmd)
	scheduledCmd.AddCommand(scheduledListCmd)
	scheduledCmd.AddCommand(scheduledDeleteCmd)
	scheduledCmd.AddCommand(scheduledRunCmd)
	scheduledCmd.AddCommand(scheduledExportCmd)

	rootCmd.AddCommand(scheduledCmd)
}
