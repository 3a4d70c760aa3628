// Copyright In Iure, 2026. All rights reserved.

package engine

import "github.com/in-iure/archive-search/pkg/types"

// Row is one assembled output row: the score, the display string that
// matched, and the full source record. Internal forms (search keys,
// normalized query) are not part of the output.
type Row struct {
	Score   int          `json:"score" yaml:"score"`
	Display string       `json:"match" yaml:"match"`
	Record  types.Record `json:"record" yaml:"record"`
}

// Assemble merges ranked matches back onto the full records. Row order
// equals match order; no further sorting or filtering happens here, and
// neither the dataset nor the corpus is mutated.
func Assemble(matches []Match, _ *Corpus, ds *types.Dataset) []Row {
	rows := make([]Row, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, Row{
			Score:   m.Score,
			Display: m.Display,
			Record:  ds.Rows[m.RecordIndex],
		})
	}
	return rows
}
