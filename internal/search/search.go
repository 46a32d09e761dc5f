package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/marksweep/marksweep/internal/document"
)

// Result represents a fuzzy search match.
type Result struct {
	Bookmark       document.FlatBookmark
	MatchedIndexes []int
	Score          int
}

// bookmarkTitles implements fuzzy.Source over a flattened bookmark list.
type bookmarkTitles []document.FlatBookmark

func (bt bookmarkTitles) String(i int) string {
	return bt[i].Title
}

func (bt bookmarkTitles) Len() int {
	return len(bt)
}

// Fuzzy searches the flattened bookmarks by title using fuzzy matching.
// Returns results sorted by match score (best first).
func Fuzzy(flat []document.FlatBookmark, query string) []Result {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, bookmarkTitles(flat))

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Bookmark:       flat[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}
