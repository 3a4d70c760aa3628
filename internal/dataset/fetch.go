// Copyright In Iure, 2026. All rights reserved.

package dataset

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/in-iure/archive-search/internal/httputil"
	"github.com/in-iure/archive-search/pkg/types"
)

// Fetch downloads the published CSV export and decodes it into a
// Dataset. Rate-limited and transient server errors are retried with
// backoff before giving up.
func Fetch(ctx context.Context, client *http.Client, cfg types.DatasetConfig) (*types.Dataset, error) {
	if cfg.SourceURL == "" {
		return nil, fmt.Errorf("no dataset source URL configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.SourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset source returned HTTP %d; check that the sheet is shared as \"anyone with the link\"", resp.StatusCode)
	}

	ds, err := DecodeCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}

	ds.SourceURL = cfg.SourceURL
	ds.FetchedAt = time.Now().UTC()
	return ds, nil
}

// NewClient builds the HTTP client used for dataset fetches.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
