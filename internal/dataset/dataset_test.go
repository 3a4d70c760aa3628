// Copyright In Iure, 2026. All rights reserved.

package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/in-iure/archive-search/pkg/types"
)

const sampleCSV = "Name,Year,Place\n" +
	"Jonas Petraitis,1924,Kaunas\n" +
	"Ona Petrauskaitė,1919,Šiauliai\n"

// --- DecodeCSV ---

func TestDecodeCSV(t *testing.T) {
	ds, err := DecodeCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Year", "Place"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "Jonas Petraitis", ds.Rows[0]["Name"])
	assert.Equal(t, "Šiauliai", ds.Rows[1]["Place"])
}

func TestDecodeCSVWithBOM(t *testing.T) {
	ds, err := DecodeCSV(strings.NewReader(utf8BOM + sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, "Name", ds.Columns[0])
}

func TestDecodeCSVShortRow(t *testing.T) {
	ds, err := DecodeCSV(strings.NewReader("Name,Year\nJonas\n"))
	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "", ds.Rows[0]["Year"])
}

func TestDecodeCSVEmpty(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader(""))
	assert.Error(t, err)
}

// --- Fetch ---

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "archive-search/test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(sampleCSV))
	}))
	defer ts.Close()

	cfg := types.DatasetConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "archive-search/test"},
		SourceURL:  ts.URL,
	}

	ds, err := Fetch(context.Background(), ts.Client(), cfg)
	require.NoError(t, err)

	assert.Equal(t, ts.URL, ds.SourceURL)
	assert.False(t, ds.FetchedAt.IsZero())
	assert.Len(t, ds.Rows, 2)
}

func TestFetchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	cfg := types.DatasetConfig{SourceURL: ts.URL}
	_, err := Fetch(context.Background(), ts.Client(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchNoURL(t *testing.T) {
	_, err := Fetch(context.Background(), http.DefaultClient, types.DatasetConfig{})
	assert.Error(t, err)
}

// --- Store ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	ds, err := DecodeCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	ds.SourceURL = "https://example.com/sheet.csv"
	ds.FetchedAt = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, ds))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, ds.Columns, loaded.Columns)
	assert.Equal(t, ds.Rows, loaded.Rows)
	assert.Equal(t, ds.SourceURL, loaded.SourceURL)
	assert.True(t, ds.FetchedAt.Equal(loaded.FetchedAt))
}

func TestStoreSaveReplaces(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first, err := DecodeCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, first))

	second, err := DecodeCSV(strings.NewReader("Name\nAntanas\n"))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, loaded.Columns)
	require.Len(t, loaded.Rows, 1)
	assert.Equal(t, "Antanas", loaded.Rows[0]["Name"])
}

func TestStoreLoadEmpty(t *testing.T) {
	store := testStore(t)
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestStoreClear(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	ds, err := DecodeCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, ds))
	require.NoError(t, store.Clear(ctx))

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoDataset)
}
