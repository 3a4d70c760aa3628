// Copyright In Iure, 2026. All rights reserved.

package fuzzy

import (
	"math"
	"sort"
	"strings"
)

// ScorerID selects a similarity scorer. The set is closed: scorers are
// stateless pure functions chosen by tag, not an extension point.
type ScorerID string

const (
	// ScorerBalanced is the general-purpose default. It weighs a direct
	// ratio against token-based and partial ratios, penalizing length
	// mismatch less than a naive edit distance would.
	ScorerBalanced ScorerID = "balanced"

	// ScorerTokenSort is tolerant to word order ("Smith John" ≈ "John Smith").
	ScorerTokenSort ScorerID = "token_sort"

	// ScorerTokenSet is tolerant to repeated or extra words.
	ScorerTokenSet ScorerID = "token_set"

	// ScorerPartial matches a query fragment against a longer field.
	ScorerPartial ScorerID = "partial"
)

// Scorer computes an integer similarity in [0,100] for two normalized
// strings. All scorers are symmetric and never fail; the similarity of
// two empty strings is 0, so an empty query cannot match everything.
type Scorer func(a, b string) int

var scorers = map[ScorerID]Scorer{
	ScorerBalanced:  WRatio,
	ScorerTokenSort: TokenSortRatio,
	ScorerTokenSet:  TokenSetRatio,
	ScorerPartial:   PartialRatio,
}

// Lookup returns the scorer for id, or false if id is unknown.
func Lookup(id ScorerID) (Scorer, bool) {
	s, ok := scorers[id]
	return s, ok
}

// ScorerIDs returns all registered scorer IDs in stable order.
func ScorerIDs() []ScorerID {
	ids := make([]ScorerID, 0, len(scorers))
	for id := range scorers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Ratio returns the indel similarity of a and b: the proportion of runes
// covered by the longest common subsequence, scaled to [0,100] and
// rounded. Empty input on either side scores 0.
func Ratio(a, b string) int {
	return ratioRunes([]rune(a), []rune(b))
}

func ratioRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	lcs := lcsLength(a, b)
	return int(math.Round(200 * float64(lcs) / float64(len(a)+len(b))))
}

// lcsLength computes the longest common subsequence length with a
// single-row DP table.
func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// PartialRatio slides the shorter string across the longer one and
// returns the best window ratio. A fragment of a longer field therefore
// scores high even when the full strings differ substantially.
func PartialRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	short, long := ra, rb
	if len(short) > len(long) {
		short, long = long, short
	}

	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		if s := ratioRunes(short, long[i:i+len(short)]); s > best {
			best = s
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio tokenizes both strings, sorts the tokens, rejoins, and
// compares the rejoined strings, making the score word-order insensitive.
func TokenSortRatio(a, b string) int {
	return Ratio(sortTokens(a), sortTokens(b))
}

// TokenSetRatio compares the sorted token intersection against each
// side's remainder, tolerating repeated or extra words on either side.
func TokenSetRatio(a, b string) int {
	return tokenSetWith(a, b, Ratio)
}

// WRatio is the balanced scorer. It starts from the direct ratio and,
// depending on how different the string lengths are, mixes in weighted
// token-sort, token-set, and partial ratios, returning the maximum.
func WRatio(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}

	const unbaseScale = 0.95

	best := float64(Ratio(a, b))
	lenRatio := float64(maxInt(la, lb)) / float64(minInt(la, lb))

	if lenRatio < 1.5 {
		best = math.Max(best, unbaseScale*float64(TokenSortRatio(a, b)))
		best = math.Max(best, unbaseScale*float64(TokenSetRatio(a, b)))
		return clampScore(int(math.Round(best)))
	}

	// One string is much shorter: fall back to partial comparisons so a
	// fragment is not crushed by the length difference.
	partialScale := 0.90
	if lenRatio > 8 {
		partialScale = 0.60
	}
	best = math.Max(best, partialScale*float64(PartialRatio(a, b)))
	best = math.Max(best, unbaseScale*partialScale*float64(partialTokenSortRatio(a, b)))
	best = math.Max(best, unbaseScale*partialScale*float64(partialTokenSetRatio(a, b)))
	return clampScore(int(math.Round(best)))
}

func partialTokenSortRatio(a, b string) int {
	return PartialRatio(sortTokens(a), sortTokens(b))
}

func partialTokenSetRatio(a, b string) int {
	return tokenSetWith(a, b, PartialRatio)
}

// tokenSetWith implements the token-set comparison over an arbitrary
// base ratio: it scores the sorted intersection string against each
// intersection+difference string, and the two combined strings against
// each other, returning the maximum.
func tokenSetWith(a, b string, base Scorer) int {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var inter, onlyA, onlyB []string
	for _, t := range ta {
		if containsToken(tb, t) {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tb {
		if !containsToken(ta, t) {
			onlyB = append(onlyB, t)
		}
	}

	sect := strings.Join(inter, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := base(combinedA, combinedB)
	if sect != "" {
		if s := base(sect, combinedA); s > best {
			best = s
		}
		if s := base(sect, combinedB); s > best {
			best = s
		}
	}
	return best
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// tokenSet returns the sorted, deduplicated tokens of s.
func tokenSet(s string) []string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	out := tokens[:0]
	var last string
	for i, t := range tokens {
		if i == 0 || t != last {
			out = append(out, t)
		}
		last = t
	}
	return out
}

// containsToken reports whether sorted contains t. The slices here are
// tiny (words of a name or a field), so a linear scan is fine.
func containsToken(sorted []string, t string) bool {
	for _, s := range sorted {
		if s == t {
			return true
		}
	}
	return false
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
