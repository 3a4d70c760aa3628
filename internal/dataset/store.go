// Copyright In Iure, 2026. All rights reserved.

package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/in-iure/archive-search/pkg/types"
)

const dbFile = "dataset.db"

// ErrNoDataset means the cache holds no dataset yet; fetch one first.
var ErrNoDataset = errors.New("no cached dataset")

// Store caches the fetched dataset in a local SQLite database so
// repeated searches do not re-download the sheet. A refresh replaces the
// cached copy wholesale inside one transaction.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the cache database at cacheDir/dataset.db,
// creating the schema if needed.
func NewStore(cacheDir string) (*Store, error) {
	if cacheDir == "" {
		cacheDir = "data"
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(cacheDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			source_url TEXT NOT NULL,
			fetched_at TEXT NOT NULL,
			columns TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rows (
			idx INTEGER PRIMARY KEY,
			data TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save replaces the cached dataset with ds in a single transaction.
func (s *Store) Save(ctx context.Context, ds *types.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rows`); err != nil {
		return fmt.Errorf("clearing old rows: %w", err)
	}

	columnsJSON, err := json.Marshal(ds.Columns)
	if err != nil {
		return fmt.Errorf("marshaling columns: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO meta (id, source_url, fetched_at, columns) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source_url=excluded.source_url, fetched_at=excluded.fetched_at,
			columns=excluded.columns`,
		ds.SourceURL, ds.FetchedAt.UTC().Format(time.RFC3339Nano), string(columnsJSON),
	)
	if err != nil {
		return fmt.Errorf("upserting metadata: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO rows (idx, data) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range ds.Rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshaling row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, i, string(data)); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Load reads the cached dataset. Returns ErrNoDataset when the cache is
// empty.
func (s *Store) Load(ctx context.Context) (*types.Dataset, error) {
	var (
		sourceURL   string
		fetchedAt   string
		columnsJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT source_url, fetched_at, columns FROM meta WHERE id = 1`,
	).Scan(&sourceURL, &fetchedAt, &columnsJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNoDataset
	}
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	ds := &types.Dataset{SourceURL: sourceURL}
	if t, parseErr := time.Parse(time.RFC3339Nano, fetchedAt); parseErr == nil {
		ds.FetchedAt = t
	}
	if err := json.Unmarshal([]byte(columnsJSON), &ds.Columns); err != nil {
		return nil, fmt.Errorf("parsing columns: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT data FROM rows ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var record types.Record
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return nil, fmt.Errorf("parsing row %d: %w", len(ds.Rows), err)
		}
		ds.Rows = append(ds.Rows, record)
	}
	return ds, rows.Err()
}

// Clear drops the cached dataset.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rows`); err != nil {
		return fmt.Errorf("clearing rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meta`); err != nil {
		return fmt.Errorf("clearing metadata: %w", err)
	}
	return tx.Commit()
}
