package similarity

import (
	"sort"
	"strings"

	"github.com/marksweep/marksweep/internal/document"
)

// ScoreThreshold is the minimum pairwise score for two folders to land in
// the same cluster, and for a source to survive rescoring against its
// target.
const ScoreThreshold = 0.6

// MaxSuggestions caps the suggestion list.
const MaxSuggestions = 20

// Source is one folder proposed for merging into a suggestion's target.
type Source struct {
	FolderID string
	Score    float64
}

// Suggestion proposes merging the source folders into the target. Its ID is
// deterministic for an unchanged tree, so dismissals keyed on it survive
// recomputation.
type Suggestion struct {
	ID       string
	TargetID string
	Sources  []Source
	Score    float64 // mean of the per-source scores
}

// entry pairs a folder's tree info with its normalized title and token set.
type entry struct {
	info document.FolderInfo
	norm string
	toks map[string]struct{}
}

// Suggest computes merge suggestions for the current tree: cluster folders
// with similar names via union-find, pick the folder worth keeping in each
// cluster, and propose the rest as merge sources. Pure function of the
// tree; callers recompute after every mutation.
func Suggest(root *document.Node) []Suggestion {
	infos := document.Folders(root)
	if len(infos) < 2 {
		return nil
	}
	stats := document.Stats(root)

	entries := make([]entry, len(infos))
	for i, info := range infos {
		n := Normalize(info.Title)
		entries[i] = entry{info: info, norm: n, toks: Tokenize(n)}
	}

	uf := newUnionFind(len(entries))
	for _, pair := range candidatePairs(entries) {
		a, b := entries[pair[0]], entries[pair[1]]
		if related(a.info, b.info) {
			// Never union a folder with its own ancestor or descendant,
			// even on a perfect score.
			continue
		}
		if Score(a.norm, b.norm, a.toks, b.toks) >= ScoreThreshold {
			uf.union(pair[0], pair[1])
		}
	}

	clusters := make(map[int][]int)
	var roots []int
	for i := range entries {
		r := uf.find(i)
		if _, seen := clusters[r]; !seen {
			roots = append(roots, r)
		}
		clusters[r] = append(clusters[r], i)
	}

	var suggestions []Suggestion
	for _, r := range roots {
		members := clusters[r]
		if len(members) < 2 {
			continue
		}
		if s, ok := buildSuggestion(entries, members, stats); ok {
			suggestions = append(suggestions, s)
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

// candidatePairs yields every unordered folder pair worth scoring, each
// pair exactly once: pairs sharing at least one token (via an inverted
// index, keeping the bulk of the comparison off O(n²)) plus pairs whose
// normalized names contain one another, which singular/plural variants
// like "recipe"/"recipes" need since they share no token.
func candidatePairs(entries []entry) [][2]int {
	index := make(map[string][]int)
	for i, e := range entries {
		for tok := range e.toks {
			index[tok] = append(index[tok], i)
		}
	}

	seen := make(map[[2]int]bool)
	var pairs [][2]int
	add := func(i, j int) {
		pair := [2]int{i, j}
		if j < i {
			pair = [2]int{j, i}
		}
		if !seen[pair] {
			seen[pair] = true
			pairs = append(pairs, pair)
		}
	}

	for i, e := range entries {
		for tok := range e.toks {
			for _, j := range index[tok] {
				if j != i {
					add(i, j)
				}
			}
		}
	}

	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i].norm, entries[j].norm
			if a == "" || b == "" {
				continue
			}
			if strings.Contains(a, b) || strings.Contains(b, a) {
				add(i, j)
			}
		}
	}
	return pairs
}

// related reports whether one folder is an ancestor of the other, by id
// path containment in both directions.
func related(a, b document.FolderInfo) bool {
	return idPathContains(b.IDPath, a.ID) || idPathContains(a.IDPath, b.ID)
}

func idPathContains(path []string, id string) bool {
	for _, p := range path[:len(path)-1] {
		if p == id {
			return true
		}
	}
	return false
}

// buildSuggestion turns one cluster into a suggestion: the member worth
// keeping becomes the target, the rest are rescored against it and the
// survivors become sources.
func buildSuggestion(entries []entry, members []int, stats map[string]document.FolderStats) (Suggestion, bool) {
	// Shallower folders are preferred targets, then larger ones, then
	// shorter titles.
	sort.SliceStable(members, func(i, j int) bool {
		a, b := entries[members[i]], entries[members[j]]
		if a.info.Depth != b.info.Depth {
			return a.info.Depth < b.info.Depth
		}
		at, bt := stats[a.info.ID].Total, stats[b.info.ID].Total
		if at != bt {
			return at > bt
		}
		return len(a.info.Title) < len(b.info.Title)
	})

	target := entries[members[0]]
	var sources []Source
	var sum float64
	for _, m := range members[1:] {
		src := entries[m]
		if idPathContains(target.info.IDPath, src.info.ID) {
			// A source that is an ancestor of the target cannot be
			// merged into it.
			continue
		}
		score := Score(target.norm, src.norm, target.toks, src.toks)
		if score < ScoreThreshold {
			continue
		}
		sources = append(sources, Source{FolderID: src.info.ID, Score: score})
		sum += score
	}
	if len(sources) == 0 {
		return Suggestion{}, false
	}

	return Suggestion{
		ID:       suggestionID(target.info.ID, sources),
		TargetID: target.info.ID,
		Sources:  sources,
		Score:    sum / float64(len(sources)),
	}, true
}

// suggestionID is stable across recomputation from an unchanged tree:
// target id plus the sorted source ids.
func suggestionID(targetID string, sources []Source) string {
	ids := make([]string, len(sources))
	for i, s := range sources {
		ids[i] = s.FolderID
	}
	sort.Strings(ids)
	return targetID + "<-" + strings.Join(ids, "+")
}

// Dismissals is the set of suggestion ids the user has waved off.
type Dismissals map[string]bool

// Filter drops dismissed suggestions from the list.
func (d Dismissals) Filter(suggestions []Suggestion) []Suggestion {
	if len(d) == 0 {
		return suggestions
	}
	kept := suggestions[:0:0]
	for _, s := range suggestions {
		if !d[s.ID] {
			kept = append(kept, s)
		}
	}
	return kept
}
