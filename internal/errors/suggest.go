package errors

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestionDistance bounds how dissimilar a candidate may be before
// texpr prefers no suggestion over a misleading one.
const maxSuggestionDistance = 3

// Suggest ranks candidates against got using fuzzysearch's Levenshtein-style
// ranking (fuzzy.RankFind) and returns the closest candidate whose edit
// distance is within maxSuggestionDistance, or "" if nothing is close
// enough.
func Suggest(got string, candidates []string) string {
	got = strings.ToLower(got)
	lowered := make([]string, len(candidates))
	for i, c := range candidates {
		lowered[i] = strings.ToLower(c)
	}

	ranks := fuzzy.RankFind(got, lowered)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	best := ranks[0]
	if best.Distance > maxSuggestionDistance {
		return ""
	}
	return candidates[best.OriginalIndex]
}
