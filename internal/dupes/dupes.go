// Package dupes groups bookmarks that point at the same place.
package dupes

import (
	"net/url"
	"sort"
	"strings"

	"github.com/marksweep/marksweep/internal/document"
)

// Group is a set of bookmarks sharing one normalized URL key.
type Group struct {
	Key       string
	Bookmarks []document.FlatBookmark
}

// NormalizeURL reduces a raw URL to its duplicate-detection key:
// lowercased host plus path with one trailing slash stripped. Query strings
// and fragments are discarded on purpose, so URLs differing only there
// count as duplicates; this over-merges when the query is meaningful (video
// timestamps, search results) and that trade-off is accepted. A string that
// does not parse as an absolute URL falls back to its trimmed, lowercased
// raw form.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return strings.ToLower(trimmed)
	}
	path := u.Path
	if strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return strings.ToLower(u.Host) + path
}

// Groups buckets the flattened bookmarks by normalized URL key and returns
// the buckets with at least two members, largest first. Bookmarks whose URL
// (or key) is empty never participate. Pure function of its input; callers
// recompute after every tree change.
func Groups(flat []document.FlatBookmark) []Group {
	buckets := make(map[string][]document.FlatBookmark)
	var order []string
	for _, fb := range flat {
		if fb.URL == "" {
			continue
		}
		key := NormalizeURL(fb.URL)
		if key == "" {
			continue
		}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], fb)
	}

	var groups []Group
	for _, key := range order {
		if members := buckets[key]; len(members) >= 2 {
			groups = append(groups, Group{Key: key, Bookmarks: members})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Bookmarks) > len(groups[j].Bookmarks)
	})
	return groups
}

// Selection tracks which bookmark to keep per duplicate group, keyed by the
// group's normalized URL. The default keep is the group's first member; a
// prior choice survives recomputation as long as the chosen id is still in
// the group.
type Selection map[string]string

// KeptID returns the id to keep for the given group.
func (s Selection) KeptID(g Group) string {
	if len(g.Bookmarks) == 0 {
		return ""
	}
	if id, ok := s[g.Key]; ok {
		for _, fb := range g.Bookmarks {
			if fb.ID == id {
				return id
			}
		}
	}
	return g.Bookmarks[0].ID
}

// Keep records a keep choice for the group containing the id. Ids not in
// the group are ignored.
func (s Selection) Keep(g Group, id string) {
	for _, fb := range g.Bookmarks {
		if fb.ID == id {
			s[g.Key] = id
			return
		}
	}
}

// Rebase drops selections whose group key no longer exists, after the
// groups have been recomputed from a changed tree.
func (s Selection) Rebase(groups []Group) {
	live := make(map[string]bool, len(groups))
	for _, g := range groups {
		live[g.Key] = true
	}
	for key := range s {
		if !live[key] {
			delete(s, key)
		}
	}
}

// RemovalSet returns the ids of every non-kept member across all groups,
// ready for document.RemoveBookmarks.
func RemovalSet(groups []Group, s Selection) map[string]bool {
	ids := make(map[string]bool)
	for _, g := range groups {
		kept := s.KeptID(g)
		for _, fb := range g.Bookmarks {
			if fb.ID != kept {
				ids[fb.ID] = true
			}
		}
	}
	return ids
}
