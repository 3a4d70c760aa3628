// Copyright In Iure, 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/in-iure/archive-search/internal/dataset"
	"github.com/in-iure/archive-search/pkg/types"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage the local dataset cache (fetch, info, clear)",
}

var datasetFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the register from its published CSV export into the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg := appConfig().Dataset

		ds, err := dataset.Fetch(ctx, dataset.NewClient(cfg.HTTPConfig), cfg)
		if err != nil {
			return err
		}

		store, err := dataset.NewStore(cfg.CacheDir)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Save(ctx, ds); err != nil {
			return err
		}
		fmt.Printf("Fetched %d records (%d columns) from %s\n", ds.Len(), len(ds.Columns), cfg.SourceURL)
		return nil
	},
}

var datasetInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what is in the dataset cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg := appConfig().Dataset

		store, err := dataset.NewStore(cfg.CacheDir)
		if err != nil {
			return err
		}
		defer store.Close()

		ds, err := store.Load(ctx)
		if errors.Is(err, dataset.ErrNoDataset) {
			fmt.Println("Cache is empty. Run \"archive-search dataset fetch\" first.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Source:     %s\n", ds.SourceURL)
		fmt.Printf("Fetched at: %s\n", ds.FetchedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("Records:    %d\n", ds.Len())
		fmt.Printf("Columns:    %d\n", len(ds.Columns))
		return nil
	},
}

var datasetClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the cached dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig().Dataset

		store, err := dataset.NewStore(cfg.CacheDir)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(context.Background()); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

func init() {
	datasetCmd.AddCommand(datasetFetchCmd)
	datasetCmd.AddCommand(datasetInfoCmd)
	datasetCmd.AddCommand(datasetClearCmd)
	rootCmd.AddCommand(datasetCmd)
}

// loadDataset opens the cache and returns the dataset, fetching and
// caching it first when refresh is set or the cache is empty. The
// returned cleanup closes the store.
func loadDataset(ctx context.Context, cfg types.DatasetConfig, refresh bool, w io.Writer) (*types.Dataset, func(), error) {
	store, err := dataset.NewStore(cfg.CacheDir)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { store.Close() }

	if !refresh {
		ds, err := store.Load(ctx)
		if err == nil {
			return ds, cleanup, nil
		}
		if !errors.Is(err, dataset.ErrNoDataset) {
			store.Close()
			return nil, nil, err
		}
		fmt.Fprintln(w, "Cache is empty, fetching dataset...")
	}

	ds, err := dataset.Fetch(ctx, dataset.NewClient(cfg.HTTPConfig), cfg)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	if err := store.Save(ctx, ds); err != nil {
		store.Close()
		return nil, nil, err
	}
	fmt.Fprintf(w, "Cached %d records.\n", ds.Len())
	return ds, cleanup, nil
}
