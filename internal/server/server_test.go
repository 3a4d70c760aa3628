// Copyright In Iure, 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/in-iure/archive-search/internal/dataset"
	"github.com/in-iure/archive-search/pkg/types"
)

const sheetCSV = "Name,Year,Dokumentas\n" +
	"Jonas Petraitis,1924,scan-17.jpg\n" +
	"Petraitis Jonas,1931,scan-18.jpg\n" +
	"Ona Petrauskaitė,1919,scan-19.jpg\n"

// testServer wires a Server against an httptest sheet endpoint and a
// temp-dir cache.
func testServer(t *testing.T, csvBody string) (*Server, *httptest.Server) {
	t.Helper()

	sheet := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(csvBody))
	}))
	t.Cleanup(sheet.Close)

	store, err := dataset.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := types.AppConfig{
		Dataset: types.DatasetConfig{
			HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "archive-search/test"},
			SourceURL:  sheet.URL,
		},
		Search: types.SearchConfig{
			Scorer:     "balanced",
			MinScore:   70,
			MaxResults: 25,
		},
	}

	srv := New(cfg, store, sheet.Client(), zap.NewNop())
	require.NoError(t, srv.Bootstrap(context.Background()))
	return srv, sheet
}

func doRequest(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	srv, _ := testServer(t, sheetCSV)
	h := srv.Router()

	rec := doRequest(t, h, http.MethodGet, "/api/search?q=petraitis+jonas&scorer=token_sort&min_score=90")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 100, resp.Results[0].Score)
	assert.Equal(t, "Jonas Petraitis", resp.Results[0].Record["Name"])
}

func TestSearchEndpointEmptyQuery(t *testing.T) {
	srv, _ := testServer(t, sheetCSV)
	rec := doRequest(t, srv.Router(), http.MethodGet, "/api/search?q=&min_score=0")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
}

func TestSearchEndpointInvalidParams(t *testing.T) {
	srv, _ := testServer(t, sheetCSV)
	h := srv.Router()

	for _, target := range []string{
		"/api/search?q=jonas&min_score=101",
		"/api/search?q=jonas&max_results=0",
		"/api/search?q=jonas&scorer=soundex",
		"/api/search?q=jonas&min_score=abc",
		"/api/search?q=jonas&fields=NoSuchColumn",
	} {
		rec := doRequest(t, h, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestSearchEndpointAdHocFields(t *testing.T) {
	srv, _ := testServer(t, sheetCSV)
	rec := doRequest(t, srv.Router(), http.MethodGet, "/api/search?q=1931&fields=Year&min_score=90&scorer=balanced")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Year"}, resp.Fields)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Petraitis Jonas", resp.Results[0].Record["Name"])
}

func TestSearchEndpointHiddenColumns(t *testing.T) {
	srv, _ := testServer(t, sheetCSV)
	srv.cfg.Dataset.HiddenColumns = []string{"Dokumentas"}

	rec := doRequest(t, srv.Router(), http.MethodGet, "/api/search?q=petraitis&min_score=0")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	_, leaked := resp.Results[0].Record["Dokumentas"]
	assert.False(t, leaked, "hidden column in API response")
}

func TestFieldsEndpoint(t *testing.T) {
	srv, _ := testServer(t, sheetCSV)
	rec := doRequest(t, srv.Router(), http.MethodGet, "/api/fields")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp fieldsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Name", "Year", "Dokumentas"}, resp.Columns)
	assert.Equal(t, []string{"Name"}, resp.Fields)
	assert.Equal(t, 3, resp.Rows)
	assert.Equal(t, int64(1), resp.Version)
}

func TestRefreshEndpointSwapsSnapshot(t *testing.T) {
	srv, _ := testServer(t, sheetCSV)
	h := srv.Router()

	before := srv.snap.Load()

	rec := doRequest(t, h, http.MethodPost, "/api/refresh")
	require.Equal(t, http.StatusOK, rec.Code)

	after := srv.snap.Load()
	assert.Greater(t, after.version, before.version)

	// The old snapshot is untouched; an in-flight search holding it
	// would still see its own corpus.
	assert.Equal(t, int64(1), before.version)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testServer(t, sheetCSV)
	rec := doRequest(t, srv.Router(), http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestBootstrapUsesCache(t *testing.T) {
	srv, sheet := testServer(t, sheetCSV)

	// Kill the remote source; a second bootstrap must come from cache.
	sheet.Close()

	srv2 := New(srv.cfg, srv.store, http.DefaultClient, zap.NewNop())
	require.NoError(t, srv2.Bootstrap(context.Background()))
	assert.Equal(t, 3, srv2.snap.Load().ds.Len())
}
