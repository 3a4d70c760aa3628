// Copyright In Iure, 2026. All rights reserved.

// Package types defines shared data structures for archive-search: the
// tabular dataset model and the configuration structs.
package types

import "time"

// Record is one row of the dataset: field name to text value. A missing
// key means the value is absent in the source. Records are owned by the
// caller and borrowed read-only by the matching engine.
type Record map[string]string

// Value returns the value for field and whether it is present.
func (r Record) Value(field string) (string, bool) {
	v, ok := r[field]
	return v, ok
}

// Dataset is an in-memory tabular dataset with a stable column order.
// Row identity is positional: row i keeps index i for its lifetime.
type Dataset struct {
	// Columns lists the field names in source order.
	Columns []string `json:"columns" yaml:"columns"`

	// Rows holds the records in source order.
	Rows []Record `json:"rows" yaml:"rows"`

	// SourceURL is where the dataset was fetched from.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// FetchedAt is when the dataset was fetched.
	FetchedAt time.Time `json:"fetched_at,omitempty" yaml:"fetched_at,omitempty"`
}

// HasColumn reports whether name is part of the dataset schema.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}
