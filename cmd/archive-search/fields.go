// Copyright In Iure, 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the columns of the cached register",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig()

		ds, cleanup, err := loadDataset(context.Background(), cfg.Dataset, false, os.Stderr)
		if err != nil {
			return err
		}
		defer cleanup()

		searchable := make(map[string]bool, len(cfg.Search.Fields))
		for _, f := range cfg.Search.Fields {
			searchable[f] = true
		}

		for i, c := range ds.Columns {
			marker := " "
			if searchable[c] || (len(cfg.Search.Fields) == 0 && i == 0) {
				marker = "*"
			}
			fmt.Printf("%s %2d  %s\n", marker, i, c)
		}
		fmt.Printf("\n%d columns, %d records (* = searched by default)\n", len(ds.Columns), ds.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}
