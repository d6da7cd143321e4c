// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kreatifsayfa/pubmed-health-importer/internal/importer"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/scheduler"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run scheduled searches on their recurring schedule",
	Long: `Daemon restores the trigger for every saved search and keeps running them
on schedule until interrupted. Each trigger fires the same run logic as
"scheduled run"; overlapping runs of one search are skipped.`,
	RunE: runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The callback closes over orch, which is assigned below; triggers only
	// fire after RestoreTriggers, so the assignment always happens first.
	var orch *importer.Orchestrator
	triggers := scheduler.New(func(ctx context.Context, id int64) {
		summary, err := orch.RunScheduledSearch(ctx, id, os.Stdout)
		if err != nil {
			log.Printf("daemon: search %d run failed: %v", id, err)
			return
		}
		log.Printf("daemon: search %d done (found=%d imported=%d skipped=%d failed=%d)",
			id, summary.Found, summary.Imported, summary.Skipped, summary.Failed)
	})
	orch = buildOrchestrator(cfg, st, triggers)

	if err := orch.RestoreTriggers(ctx); err != nil {
		return err
	}
	log.Printf("daemon: %d trigger(s) restored", triggers.Active())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("daemon: shutting down")
	cancel()
	triggers.Stop()
	return nil
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}
