package similarity_test

import (
	"fmt"
	"testing"

	"github.com/marksweep/marksweep/internal/document"
	"github.com/marksweep/marksweep/internal/similarity"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Recipes", "recipes"},
		{"Café & Frühstück", "cafe fruhstuck"},
		{"  mixed---CASE_42  ", "mixed case 42"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := similarity.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	toks := similarity.Tokenize("the recipes and more recipes a x")

	if _, ok := toks["recipes"]; !ok {
		t.Error("expected token 'recipes'")
	}
	if _, ok := toks["more"]; !ok {
		t.Error("expected token 'more'")
	}
	if _, ok := toks["the"]; ok {
		t.Error("stopword 'the' must be dropped")
	}
	if _, ok := toks["and"]; ok {
		t.Error("stopword 'and' must be dropped")
	}
	if _, ok := toks["x"]; ok {
		t.Error("single-character tokens must be dropped")
	}
	if len(toks) != 2 {
		t.Errorf("expected token set {recipes, more}, got %v", toks)
	}
}

// Accented stopwords arrive at Tokenize already folded by Normalize, so the
// list must match the folded spelling.
func TestTokenize_FoldedStopwords(t *testing.T) {
	toks := similarity.Tokenize(similarity.Normalize("Rezepte für Gäste"))

	if _, ok := toks["fur"]; ok {
		t.Error("stopword 'für' must be dropped after folding")
	}
	if _, ok := toks["rezepte"]; !ok {
		t.Error("expected token 'rezepte'")
	}
	if _, ok := toks["gaste"]; !ok {
		t.Error("expected folded token 'gaste'")
	}
	if len(toks) != 2 {
		t.Errorf("expected token set {rezepte, gaste}, got %v", toks)
	}
}

func score(a, b string) float64 {
	an, bn := similarity.Normalize(a), similarity.Normalize(b)
	return similarity.Score(an, bn, similarity.Tokenize(an), similarity.Tokenize(bn))
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical after normalization", "Recipes!", "recipes", 1},
		{"substring containment", "Recipes", "recipe", 0.85},
		{"both empty", "", "!!!", 0},
		{"no token overlap", "cooking ideas", "linux kernel", 0},
		{"one shared token", "cooking recipes", "cooking tools", 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := score(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func folderWith(id, title string, children ...*document.Node) *document.Node {
	f := document.NewFolder(id, title)
	f.Children = children
	return f
}

// The canonical scenario: sibling folders "Recipes" and "recipe" produce
// one suggestion with "Recipes" as target when it holds at least as much.
func TestSuggest_SubstringSiblings(t *testing.T) {
	root := document.NewRoot()
	root.Children = []*document.Node{
		folderWith("f1", "Recipes", document.NewBookmark("b1", "Bread", "https://bread.example.com")),
		folderWith("f2", "recipe"),
	}

	suggestions := similarity.Suggest(root)
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}

	s := suggestions[0]
	if s.TargetID != "f1" {
		t.Errorf("target: got %s, want f1 (larger folder)", s.TargetID)
	}
	if len(s.Sources) != 1 || s.Sources[0].FolderID != "f2" {
		t.Fatalf("sources: got %+v", s.Sources)
	}
	if s.Sources[0].Score < similarity.ScoreThreshold {
		t.Errorf("source score %v below threshold", s.Sources[0].Score)
	}
	if s.Score != s.Sources[0].Score {
		t.Errorf("single-source suggestion score must equal the source score")
	}
}

// Ancestor/descendant pairs are never clustered, even with identical names.
func TestSuggest_NeverPairsAncestors(t *testing.T) {
	root := document.NewRoot()
	inner := folderWith("f2", "Archive")
	root.Children = []*document.Node{folderWith("f1", "Archive", inner)}

	if suggestions := similarity.Suggest(root); len(suggestions) != 0 {
		t.Errorf("expected no suggestions for nested identical names, got %+v", suggestions)
	}
}

// No suggestion may name the target among its sources, and no source may
// be an ancestor of its target.
func TestSuggest_SuggestionSafety(t *testing.T) {
	root := document.NewRoot()
	shared := folderWith("f3", "Cooking Recipes")
	root.Children = []*document.Node{
		folderWith("f1", "Recipes", document.NewBookmark("b1", "One", "https://one.example.com")),
		folderWith("f2", "Cooking", shared),
	}

	for _, s := range similarity.Suggest(root) {
		for _, src := range s.Sources {
			if src.FolderID == s.TargetID {
				t.Errorf("suggestion %s names its target as a source", s.ID)
			}
			if document.IsAncestor(root, src.FolderID, s.TargetID) {
				t.Errorf("suggestion %s has source %s above its target %s", s.ID, src.FolderID, s.TargetID)
			}
		}
	}
}

func TestSuggest_DeterministicID(t *testing.T) {
	build := func() *document.Node {
		root := document.NewRoot()
		root.Children = []*document.Node{
			folderWith("f1", "Recipes"),
			folderWith("f2", "recipe"),
			folderWith("f3", "My Recipes", document.NewBookmark("b1", "One", "https://one.example.com")),
		}
		return root
	}

	first := similarity.Suggest(build())
	second := similarity.Suggest(build())
	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("expected identical non-empty suggestion lists, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("suggestion ids differ across recomputation: %s vs %s", first[i].ID, second[i].ID)
		}
	}
}

func TestSuggest_TargetSelection(t *testing.T) {
	// Deeper and smaller folders give way: f1 is shallower than f3, and
	// larger than f2.
	root := document.NewRoot()
	nested := folderWith("f3", "Old Projects")
	root.Children = []*document.Node{
		folderWith("f1", "Projects",
			document.NewBookmark("b1", "One", "https://one.example.com"),
			document.NewBookmark("b2", "Two", "https://two.example.com"),
		),
		folderWith("f2", "My Projects"),
		folderWith("f4", "Stash", nested),
	}

	suggestions := similarity.Suggest(root)
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	if suggestions[0].TargetID != "f1" {
		t.Errorf("target: got %s, want f1", suggestions[0].TargetID)
	}
}

func TestSuggest_CapsAtTwenty(t *testing.T) {
	root := document.NewRoot()
	for i := 0; i < 25; i++ {
		root.Children = append(root.Children,
			folderWith(fmt.Sprintf("a%d", i), fmt.Sprintf("topic%d alpha", i)),
			folderWith(fmt.Sprintf("b%d", i), fmt.Sprintf("topic%d alpha beta", i)),
		)
	}

	// 25 disjoint pairs cluster separately; only 20 suggestions survive.
	suggestions := similarity.Suggest(root)
	if len(suggestions) != similarity.MaxSuggestions {
		t.Errorf("expected cap of %d, got %d", similarity.MaxSuggestions, len(suggestions))
	}
}

func TestDismissals_Filter(t *testing.T) {
	suggestions := []similarity.Suggestion{
		{ID: "f1<-f2"},
		{ID: "f3<-f4"},
	}
	d := similarity.Dismissals{"f1<-f2": true}

	kept := d.Filter(suggestions)
	if len(kept) != 1 || kept[0].ID != "f3<-f4" {
		t.Errorf("dismissal filter: got %+v", kept)
	}
}
