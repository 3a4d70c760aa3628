// Copyright In Iure, 2026. All rights reserved.

package engine

import (
	"fmt"
	"sort"

	"github.com/in-iure/archive-search/internal/fuzzy"
)

// Match is one ranked hit: the source row index, the integer similarity
// score, the normalized query it was scored against, and the display
// string of the matched entry.
type Match struct {
	RecordIndex int    `json:"record_index"`
	Score       int    `json:"score"`
	Query       string `json:"query"`
	Display     string `json:"display"`
}

// Search scores the normalized query against every corpus entry with the
// selected scorer, keeps entries scoring at least minScore (ties at the
// threshold are kept), ranks by score descending with the original row
// order breaking ties, and truncates to maxResults.
//
// The whole corpus is always scored before truncation so the result is
// the true top-K, not the first K rows that happened to clear the
// threshold. An empty normalized query returns no matches regardless of
// minScore.
func Search(query string, c *Corpus, scorerID fuzzy.ScorerID, minScore, maxResults int) ([]Match, error) {
	if minScore < 0 || minScore > 100 {
		return nil, fmt.Errorf("%w: min score %d outside [0,100]", ErrInvalidParameter, minScore)
	}
	if maxResults < 1 {
		return nil, fmt.Errorf("%w: max results %d, need at least 1", ErrInvalidParameter, maxResults)
	}
	scorer, ok := fuzzy.Lookup(scorerID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown scorer %q", ErrInvalidParameter, scorerID)
	}

	normalized := fuzzy.Normalize(query)
	if normalized == "" {
		return nil, nil
	}

	var matches []Match
	for i := 0; i < c.Len(); i++ {
		entry := c.Entry(i)
		score := scorer(normalized, entry.SearchKey)
		if score >= minScore {
			matches = append(matches, Match{
				RecordIndex: i,
				Score:       score,
				Query:       normalized,
				Display:     entry.Display,
			})
		}
	}

	// Matches were collected in row order, so a stable sort keeps the
	// deterministic row-order tie-break.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches, nil
}
