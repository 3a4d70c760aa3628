// Copyright In Iure, 2026. All rights reserved.

// Package main is the entry point for the archive-search CLI: fuzzy
// search over the digitized archive register shared as a published
// spreadsheet. Subcommands cover searching, dataset cache management,
// column listing, and the HTTP API server.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/in-iure/archive-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the archive-search CLI.
var rootCmd = &cobra.Command{
	Use:   "archive-search",
	Short: "Fuzzy search over the digitized archive register",
	Long: `archive-search finds records in the shared archive register whose text
fields approximately match a query, tolerating spelling variation,
diacritics, word reordering, and partial names.

The register is fetched from its published CSV export and cached locally;
use "archive-search dataset fetch" to refresh the cache. Searching never
touches the network unless asked to.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./archive-search.yaml or ~/.config/archive-search/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("archive-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "archive-search"))
		}
	}

	viper.SetEnvPrefix("ARCHIVE_SEARCH")
	viper.AutomaticEnv()

	viper.SetDefault("dataset.cache_dir", "data")
	viper.SetDefault("dataset.timeout", 30*time.Second)
	viper.SetDefault("dataset.user_agent", "archive-search/"+version)
	viper.SetDefault("search.scorer", "balanced")
	viper.SetDefault("search.min_score", 70)
	viper.SetDefault("search.max_results", 25)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.env", "dev")
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// appConfig materializes the typed configuration from viper.
func appConfig() types.AppConfig {
	return types.AppConfig{
		Dataset: types.DatasetConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("dataset.timeout"),
				UserAgent: viper.GetString("dataset.user_agent"),
			},
			SourceURL:     viper.GetString("dataset.source_url"),
			CacheDir:      viper.GetString("dataset.cache_dir"),
			HiddenColumns: viper.GetStringSlice("dataset.hidden_columns"),
		},
		Search: types.SearchConfig{
			Fields:     viper.GetStringSlice("search.fields"),
			Scorer:     viper.GetString("search.scorer"),
			MinScore:   viper.GetInt("search.min_score"),
			MaxResults: viper.GetInt("search.max_results"),
		},
		Server: types.ServerConfig{
			Addr:            viper.GetString("server.addr"),
			Env:             viper.GetString("server.env"),
			LogLevel:        viper.GetString("server.log_level"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
