// Copyright In Iure, 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/in-iure/archive-search/internal/engine"
	"github.com/in-iure/archive-search/internal/fuzzy"
	"github.com/in-iure/archive-search/internal/output"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Fuzzy-search the register for matching records",
	Long: `Search matches the query against the configured columns of the cached
register and prints the ranked results. The similarity method, score
threshold, and result cap are configurable per call.

Scorers: balanced (default), token_sort, token_set, partial.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSlice("fields", nil, "columns to match against (default: configured or first column)")
	searchCmd.Flags().String("scorer", "", "similarity method: balanced, token_sort, token_set, partial")
	searchCmd.Flags().Int("min-score", -1, "minimum similarity score 0-100")
	searchCmd.Flags().Int("max-results", 0, "maximum number of results")
	searchCmd.Flags().Bool("refresh", false, "re-fetch the dataset before searching")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("csv", "", "write results to a CSV file (UTF-8 with BOM)")
	searchCmd.Flags().String("yaml", "", "write results to a YAML file")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := appConfig()

	query := strings.Join(args, " ")

	refresh, _ := cmd.Flags().GetBool("refresh")
	ds, cleanup, err := loadDataset(ctx, cfg.Dataset, refresh, os.Stderr)
	if err != nil {
		return err
	}
	defer cleanup()

	fields := cfg.Search.Fields
	if f, _ := cmd.Flags().GetStringSlice("fields"); len(f) > 0 {
		fields = f
	}
	if len(fields) == 0 && len(ds.Columns) > 0 {
		fields = ds.Columns[:1]
	}

	scorer := fuzzy.ScorerID(cfg.Search.Scorer)
	if v, _ := cmd.Flags().GetString("scorer"); v != "" {
		scorer = fuzzy.ScorerID(v)
	}

	minScore := cfg.Search.MinScore
	if v, _ := cmd.Flags().GetInt("min-score"); v >= 0 {
		minScore = v
	}

	maxResults := cfg.Search.MaxResults
	if v, _ := cmd.Flags().GetInt("max-results"); v > 0 {
		maxResults = v
	}

	corpus, err := engine.Build(ds, fields)
	if err != nil {
		return err
	}

	matches, err := engine.Search(query, corpus, scorer, minScore, maxResults)
	if err != nil {
		return err
	}

	rows := engine.Assemble(matches, corpus, ds)
	hidden := cfg.Dataset.HiddenColumns

	if path, _ := cmd.Flags().GetString("csv"); path != "" {
		return writeFile(path, func(f *os.File) error {
			return output.CSV(f, rows, ds.Columns, hidden)
		})
	}
	if path, _ := cmd.Flags().GetString("yaml"); path != "" {
		return writeFile(path, func(f *os.File) error {
			return output.YAML(f, rows, ds.Columns, hidden)
		})
	}
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return output.JSON(os.Stdout, rows, ds.Columns, hidden)
	}

	output.Table(os.Stdout, rows, ds.Columns, hidden)
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "Try lowering --min-score or a different --scorer.")
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
