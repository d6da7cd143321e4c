// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kreatifsayfa/pubmed-health-importer/internal/gemini"
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text through the AI client",
	Long: `Translate renders text between languages, defaulting to English-to-Turkish
for imported medical abstracts. Text is taken from the arguments, or from
standard input when no arguments are given. Requires a configured Gemini
API key.`,
	Args: cobra.ArbitraryArgs,
	RunE: runTranslate,
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		return fmt.Errorf("nothing to translate: pass text as arguments or on stdin")
	}

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	client := gemini.NewClient(cfg.Gemini)
	translated, err := client.Translate(context.Background(), text, from, to)
	if err != nil {
		return err
	}
	fmt.Println(translated)
	return nil
}

func init() {
	translateCmd.Flags().String("from", "en", "source language code")
	translateCmd.Flags().String("to", "tr", "target language code")

	rootCmd.AddCommand(translateCmd)
}
