// Copyright In Iure, 2026. All rights reserved.

// Package server exposes the search engine over HTTP. The loaded dataset
// and its corpus form an immutable snapshot swapped atomically on
// refresh, so in-flight searches always see one consistent corpus.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/in-iure/archive-search/internal/dataset"
	"github.com/in-iure/archive-search/internal/engine"
	"github.com/in-iure/archive-search/internal/fuzzy"
	"github.com/in-iure/archive-search/pkg/types"
)

// snapshot pairs a dataset with the corpus built from it. Snapshots are
// never mutated after construction.
type snapshot struct {
	ds      *types.Dataset
	corpus  *engine.Corpus
	fields  []string
	version int64
}

// Server handles the HTTP API.
type Server struct {
	cfg    types.AppConfig
	store  *dataset.Store
	client *http.Client
	log    *zap.Logger

	snap    atomic.Pointer[snapshot]
	version atomic.Int64
}

// New creates a Server. Call Bootstrap before Router to load the initial
// snapshot.
func New(cfg types.AppConfig, store *dataset.Store, client *http.Client, log *zap.Logger) *Server {
	return &Server{cfg: cfg, store: store, client: client, log: log}
}

// Bootstrap loads the cached dataset, fetching it first when the cache
// is empty, and installs the initial snapshot.
func (s *Server) Bootstrap(ctx context.Context) error {
	ds, err := s.store.Load(ctx)
	if errors.Is(err, dataset.ErrNoDataset) {
		s.log.Info("cache empty, fetching dataset", zap.String("url", s.cfg.Dataset.SourceURL))
		ds, err = dataset.Fetch(ctx, s.client, s.cfg.Dataset)
		if err != nil {
			return err
		}
		if saveErr := s.store.Save(ctx, ds); saveErr != nil {
			return saveErr
		}
	} else if err != nil {
		return err
	}
	return s.install(ds)
}

// install builds a corpus for the default field selection and swaps in a
// new snapshot.
func (s *Server) install(ds *types.Dataset) error {
	fields := s.defaultFields(ds)
	corpus, err := engine.Build(ds, fields)
	if err != nil {
		return err
	}
	snap := &snapshot{
		ds:      ds,
		corpus:  corpus,
		fields:  fields,
		version: s.version.Add(1),
	}
	s.snap.Store(snap)
	s.log.Info("snapshot installed",
		zap.Int64("version", snap.version),
		zap.Int("rows", ds.Len()),
		zap.Strings("fields", fields),
	)
	return nil
}

func (s *Server) defaultFields(ds *types.Dataset) []string {
	if len(s.cfg.Search.Fields) > 0 {
		return s.cfg.Search.Fields
	}
	if len(ds.Columns) > 0 {
		return ds.Columns[:1]
	}
	return nil
}

// Router builds the chi router with logging and metrics middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/fields", s.handleFields)
		r.Post("/refresh", s.handleRefresh)
	})
	return r
}

// searchResponse is the JSON shape of GET /api/search.
type searchResponse struct {
	Query      string       `json:"query"`
	Scorer     string       `json:"scorer"`
	MinScore   int          `json:"min_score"`
	MaxResults int          `json:"max_results"`
	Fields     []string     `json:"fields"`
	Count      int          `json:"count"`
	Results    []engine.Row `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	snap := s.snap.Load()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}

	q := r.URL.Query().Get("q")

	scorerID := fuzzy.ScorerID(s.cfg.Search.Scorer)
	if v := r.URL.Query().Get("scorer"); v != "" {
		scorerID = fuzzy.ScorerID(v)
	}

	minScore := s.cfg.Search.MinScore
	if v := r.URL.Query().Get("min_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_score must be an integer")
			return
		}
		minScore = n
	}

	maxResults := s.cfg.Search.MaxResults
	if v := r.URL.Query().Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max_results must be an integer")
			return
		}
		maxResults = n
	}

	corpus := snap.corpus
	fields := snap.fields
	if v := r.URL.Query().Get("fields"); v != "" {
		requested := splitFields(v)
		if !equalFields(requested, snap.fields) {
			// Ad hoc selection: build a one-off corpus against this
			// snapshot's dataset without swapping the default.
			c, err := engine.Build(snap.ds, requested)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			corpus = c
			fields = requested
		}
	}

	matches, err := engine.Search(q, corpus, scorerID, minScore, maxResults)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows := engine.Assemble(matches, corpus, snap.ds)
	rows = hideColumns(rows, s.cfg.Dataset.HiddenColumns)
	searchResults.Observe(float64(len(rows)))

	writeJSON(w, http.StatusOK, searchResponse{
		Query:      q,
		Scorer:     string(scorerID),
		MinScore:   minScore,
		MaxResults: maxResults,
		Fields:     fields,
		Count:      len(rows),
		Results:    rows,
	})
}

// hideColumns strips hidden columns from result records without touching
// the source dataset.
func hideColumns(rows []engine.Row, hidden []string) []engine.Row {
	if len(hidden) == 0 {
		return rows
	}
	out := make([]engine.Row, len(rows))
	for i, row := range rows {
		record := make(types.Record, len(row.Record))
		for k, v := range row.Record {
			record[k] = v
		}
		for _, h := range hidden {
			delete(record, h)
		}
		out[i] = engine.Row{Score: row.Score, Display: row.Display, Record: record}
	}
	return out
}

type fieldsResponse struct {
	Columns   []string `json:"columns"`
	Fields    []string `json:"search_fields"`
	Rows      int      `json:"rows"`
	FetchedAt string   `json:"fetched_at,omitempty"`
	Version   int64    `json:"version"`
}

func (s *Server) handleFields(w http.ResponseWriter, _ *http.Request) {
	snap := s.snap.Load()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}

	resp := fieldsResponse{
		Columns: snap.ds.Columns,
		Fields:  snap.fields,
		Rows:    snap.ds.Len(),
		Version: snap.version,
	}
	if !snap.ds.FetchedAt.IsZero() {
		resp.FetchedAt = snap.ds.FetchedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ds, err := dataset.Fetch(r.Context(), s.client, s.cfg.Dataset)
	if err != nil {
		s.log.Error("refresh fetch failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, fmt.Sprintf("fetching dataset: %v", err))
		return
	}
	if err := s.store.Save(r.Context(), ds); err != nil {
		s.log.Error("refresh save failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("caching dataset: %v", err))
		return
	}
	if err := s.install(ds); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	snap := s.snap.Load()
	writeJSON(w, http.StatusOK, map[string]any{
		"rows":    ds.Len(),
		"version": snap.version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := map[string]any{"status": "ok", "dataset_loaded": s.snap.Load() != nil}
	writeJSON(w, http.StatusOK, status)
}

func splitFields(v string) []string {
	var out []string
	for _, f := range strings.Split(v, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
