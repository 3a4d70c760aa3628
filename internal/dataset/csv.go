// Copyright In Iure, 2026. All rights reserved.

// Package dataset loads the shared archive dataset: it fetches the
// published CSV export, decodes it into records, and caches the result
// in a local SQLite database with manual refresh. The matching engine
// never touches this package; it receives already-materialized records.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/in-iure/archive-search/pkg/types"
)

// utf8BOM is the byte-order mark some spreadsheet exports prepend.
const utf8BOM = "\uFEFF"

// DecodeCSV reads a CSV document into a Dataset. The first row is the
// header and defines the column order; a leading UTF-8 BOM is tolerated.
// Short rows pad missing cells with empty values so decoding is total
// over ragged exports.
func DecodeCSV(r io.Reader) (*types.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV document")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		columns[i] = strings.TrimSpace(h)
	}

	ds := &types.Dataset{Columns: columns}
	for {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", len(ds.Rows)+2, err)
		}

		row := make(types.Record, len(columns))
		for i, col := range columns {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}
