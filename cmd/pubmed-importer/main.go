// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubmed-importer CLI. It searches
// PubMed for women's and infant-health literature, composes Turkish posts
// from the results, and manages the scheduled searches that keep a site
// stocked with fresh articles.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kreatifsayfa/pubmed-health-importer/internal/cache"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/pubmed"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/store"
	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pubmed-importer CLI.
var rootCmd = &cobra.Command{
	Use:   "pubmed-importer",
	Short: "Import PubMed health articles as site content",
	Long: `pubmed-importer turns PubMed searches into publishable posts. It expands
queries against a women's and infant-health subject-term list, fetches full
article records, composes sectioned Turkish content with SEO metadata, and
optionally enriches posts through a generative AI pass.

Saved searches run on a recurring schedule; the import index guarantees each
article is imported at most once.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubmed-importer.yaml or ~/.config/pubmed-importer/config.yaml)")
	rootCmd.PersistentFlags().String("database", "", "path to the importer SQLite database")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubmed-importer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubmed-importer"))
		}
	}

	viper.SetEnvPrefix("PUBMED_IMPORTER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, the config file, environment variables, and
// root flags into one configuration.
func loadConfig(cmd *cobra.Command) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("parsing configuration: %w", err)
	}
	if db, _ := cmd.Flags().GetString("database"); db != "" {
		cfg.Database = db
	}
	return cfg, nil
}

// openStore opens the importer database from the configuration.
func openStore(cfg types.Config) (*store.Store, error) {
	return store.NewStore(cfg.Database)
}

// newPubMedClient builds the search client with its response cache backed by
// the importer database. A cache setup failure degrades to an uncached
// client.
func newPubMedClient(cfg types.Config, st *store.Store) *pubmed.Client {
	responseCache, err := cache.New(st.DB())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: response cache unavailable: %v\n", err)
		return pubmed.NewClient(cfg.PubMed, nil)
	}
	return pubmed.NewClient(cfg.PubMed, responseCache)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
