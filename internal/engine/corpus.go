// Copyright In Iure, 2026. All rights reserved.

// Package engine builds searchable corpora from datasets and runs ranked
// fuzzy queries against them. A Corpus is a batch-built, read-only
// snapshot: entry i always refers to dataset row i, and a rebuilt corpus
// replaces the old one wholesale rather than mutating it.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/in-iure/archive-search/internal/fuzzy"
	"github.com/in-iure/archive-search/pkg/types"
)

// Sentinel errors for caller contract violations. Both are fatal to the
// operation that returns them and are never silently defaulted.
var (
	// ErrInvalidFieldSelection means the field selection is empty or
	// names a column absent from the dataset schema.
	ErrInvalidFieldSelection = errors.New("invalid field selection")

	// ErrInvalidParameter means minScore or maxResults is out of range,
	// or the scorer ID is unknown.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// fieldSeparator joins field values in the display string when more than
// one field is selected.
const fieldSeparator = " | "

// Entry pairs a normalized search key with the display string it was
// derived from. Its position in the corpus is the source row index.
type Entry struct {
	SearchKey string
	Display   string
}

// Corpus is the immutable, row-aligned set of search keys for one field
// selection.
type Corpus struct {
	fields  []string
	entries []Entry
}

// Build derives a corpus from the dataset for the given field selection.
// For every row, in order, the selected field values are joined into a
// display string (missing values contribute an empty string) and the
// display string is normalized into the search key. Build never fails on
// missing or empty values; it fails only when fields is empty or names a
// column outside the dataset schema.
func Build(ds *types.Dataset, fields []string) (*Corpus, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields selected", ErrInvalidFieldSelection)
	}
	for _, f := range fields {
		if !ds.HasColumn(f) {
			return nil, fmt.Errorf("%w: column %q not in dataset", ErrInvalidFieldSelection, f)
		}
	}

	c := &Corpus{
		fields:  append([]string(nil), fields...),
		entries: make([]Entry, len(ds.Rows)),
	}

	for i, row := range ds.Rows {
		display := displayString(row, fields)
		c.entries[i] = Entry{
			SearchKey: fuzzy.Normalize(display),
			Display:   display,
		}
	}
	return c, nil
}

func displayString(row types.Record, fields []string) string {
	if len(fields) == 1 {
		v, _ := row.Value(fields[0])
		return v
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i], _ = row.Value(f)
	}
	return strings.Join(parts, fieldSeparator)
}

// Len returns the number of entries, which equals the dataset row count.
func (c *Corpus) Len() int {
	return len(c.entries)
}

// Fields returns a copy of the field selection the corpus was built from.
func (c *Corpus) Fields() []string {
	return append([]string(nil), c.fields...)
}

// Entry returns the corpus entry for row i.
func (c *Corpus) Entry(i int) Entry {
	return c.entries[i]
}
