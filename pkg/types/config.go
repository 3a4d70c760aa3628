// Copyright In Iure, 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP client settings.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "archive-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// DatasetConfig holds settings for fetching and caching the dataset.
type DatasetConfig struct {
	HTTPConfig `yaml:",inline"`

	// SourceURL is the published CSV export of the shared spreadsheet.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// CacheDir is the directory holding the local dataset cache
	// (default "data/").
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// HiddenColumns lists columns excluded from result output, such as
	// internal document-scan references.
	HiddenColumns []string `json:"hidden_columns" yaml:"hidden_columns"`
}

// SearchConfig holds defaults for the search operation.
type SearchConfig struct {
	// Fields are the columns matched against the query. Empty means the
	// first dataset column.
	Fields []string `json:"fields" yaml:"fields"`

	// Scorer names the similarity method: balanced, token_sort,
	// token_set, or partial (default balanced).
	Scorer string `json:"scorer" yaml:"scorer"`

	// MinScore is the similarity threshold in [0,100] (default 70).
	MinScore int `json:"min_score" yaml:"min_score"`

	// MaxResults caps the number of returned rows (default 25).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ServerConfig holds settings for the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// Env selects the logger profile: prod or dev (default dev).
	Env string `json:"env" yaml:"env"`

	// LogLevel overrides the log level: debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// AppConfig groups all configuration sections.
type AppConfig struct {
	Dataset DatasetConfig `json:"dataset" yaml:"dataset"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}
