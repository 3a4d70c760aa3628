// Copyright In Iure, 2026. All rights reserved.

// Package output renders assembled search results as a terminal table or
// as CSV, JSON, or YAML exports.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/in-iure/archive-search/internal/engine"
)

// emptyCell stands in for absent values in table and CSV output, the way
// the original register renders blanks.
const emptyCell = "-"

// visibleColumns filters hidden columns out of the dataset column order.
func visibleColumns(columns, hidden []string) []string {
	if len(hidden) == 0 {
		return columns
	}
	hide := make(map[string]bool, len(hidden))
	for _, h := range hidden {
		hide[h] = true
	}
	var out []string
	for _, c := range columns {
		if !hide[c] {
			out = append(out, c)
		}
	}
	return out
}

func cell(row engine.Row, column string) string {
	if v, ok := row.Record.Value(column); ok && v != "" {
		return v
	}
	return emptyCell
}

// Table writes results as a human-readable table.
func Table(w io.Writer, rows []engine.Row, columns, hidden []string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return
	}

	visible := visibleColumns(columns, hidden)

	fmt.Fprintf(w, "%-5s  %-40s", "Score", "Match")
	for _, c := range visible {
		fmt.Fprintf(w, "  %-20s", c)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 47+22*len(visible)))

	for _, row := range rows {
		display := row.Display
		if len(display) > 40 {
			display = display[:37] + "..."
		}
		fmt.Fprintf(w, "%-5d  %-40s", row.Score, display)
		for _, c := range visible {
			v := cell(row, c)
			if len(v) > 20 {
				v = v[:17] + "..."
			}
			fmt.Fprintf(w, "  %-20s", v)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\n%d result(s)\n", len(rows))
}

// CSV writes results as CSV with a leading UTF-8 BOM so spreadsheet
// applications detect the encoding.
func CSV(w io.Writer, rows []engine.Row, columns, hidden []string) error {
	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	visible := visibleColumns(columns, hidden)
	cw := csv.NewWriter(w)

	header := append([]string{"score", "match"}, visible...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	record := make([]string, 0, len(header))
	for _, row := range rows {
		record = record[:0]
		record = append(record, fmt.Sprintf("%d", row.Score), row.Display)
		for _, c := range visible {
			record = append(record, cell(row, c))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// exportRow is the serialized shape of one result for JSON and YAML.
type exportRow struct {
	Score  int               `json:"score" yaml:"score"`
	Match  string            `json:"match" yaml:"match"`
	Record map[string]string `json:"record" yaml:"record"`
}

func exportRows(rows []engine.Row, columns, hidden []string) []exportRow {
	visible := visibleColumns(columns, hidden)
	out := make([]exportRow, len(rows))
	for i, row := range rows {
		record := make(map[string]string, len(visible))
		for _, c := range visible {
			v, _ := row.Record.Value(c)
			record[c] = v
		}
		out[i] = exportRow{Score: row.Score, Match: row.Display, Record: record}
	}
	return out
}

// JSON writes results as indented JSON.
func JSON(w io.Writer, rows []engine.Row, columns, hidden []string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportRows(rows, columns, hidden))
}

// YAML writes results as YAML.
func YAML(w io.Writer, rows []engine.Row, columns, hidden []string) error {
	data, err := yaml.Marshal(exportRows(rows, columns, hidden))
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}
