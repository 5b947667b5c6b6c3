// file: internal/importer/suggest.go
// version: 2.0.0
// guid: 8a9b0c1d-2e3f-4a5b-6c7d-8e9f0a1b2c30

package importer

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/obodeflix/obodeflix/internal/models"
)

// Suggestion is a season ranked against a raw folder name.
type Suggestion struct {
	Season models.Season
	// Rank is the fuzzy edit distance, lower is closer.
	Rank int
}

// separators turns release-style folder names like "Cowboy.Bebop.S01"
// into plain words before matching.
var separators = strings.NewReplacer(".", " ", "_", " ", "-", " ")

// SuggestSeasons ranks seasons against the folder name so the wizard can
// preselect the likely target. Only fuzzy-matching seasons are returned,
// closest first, at most limit entries. Ties keep the listing order.
func SuggestSeasons(folder string, seasons []models.Season, limit int) []Suggestion {
	query := strings.TrimSpace(separators.Replace(folder))
	if query == "" || limit < 1 {
		return nil
	}

	suggestions := []Suggestion{}
	for _, season := range seasons {
		rank := fuzzy.RankMatchNormalizedFold(query, season.Name)
		if rank < 0 {
			// The whole folder name rarely appears in the season name;
			// fall back to word-level matches like "bebop" in
			// "Cowboy Bebop Session 1".
			rank = bestWordRank(query, season.Name)
		}
		if rank < 0 {
			continue
		}
		suggestions = append(suggestions, Suggestion{Season: season, Rank: rank})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Rank < suggestions[j].Rank
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func bestWordRank(query, target string) int {
	best := -1
	for _, word := range strings.Fields(query) {
		if len(word) < 3 {
			continue
		}
		rank := fuzzy.RankMatchNormalizedFold(word, target)
		if rank >= 0 && (best < 0 || rank < best) {
			best = rank
		}
	}
	return best
}
