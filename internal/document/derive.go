package document

import "strings"

// PathSeparator joins ancestor titles in a FlatBookmark path.
const PathSeparator = " / "

// FolderStats counts the descendants of one folder.
type FolderStats struct {
	Bookmarks int
	Folders   int
	Total     int
}

// FlatBookmark is a bookmark lifted out of the tree, carrying the titles of
// its ancestor folders as a display path.
type FlatBookmark struct {
	ID    string
	Title string
	URL   string
	Path  string
}

// FolderInfo describes one non-root folder for similarity analysis.
// IDPath and TitlePath run from root to the folder itself, inclusive.
type FolderInfo struct {
	ID        string
	Title     string
	IDPath    []string
	TitlePath []string
	Depth     int // number of ancestors below root
}

// Find returns the first node with the given id, depth-first pre-order,
// or nil if absent.
func Find(root *Node, id string) *Node {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, c := range root.Children {
		if n := Find(c, id); n != nil {
			return n
		}
	}
	return nil
}

// FindParent returns the parent of the node with the given id and the
// node's index within it, or (nil, -1).
func FindParent(root *Node, id string) (*Node, int) {
	if root == nil {
		return nil, -1
	}
	for i, c := range root.Children {
		if c.ID == id {
			return root, i
		}
		if p, idx := FindParent(c, id); p != nil {
			return p, idx
		}
	}
	return nil, -1
}

// PathTo returns the id path from root to the node with the given id,
// inclusive of both ends, or nil if the id is absent. Ancestor checks test
// membership in this path.
func PathTo(root *Node, id string) []string {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return []string{root.ID}
	}
	for _, c := range root.Children {
		if p := PathTo(c, id); p != nil {
			return append([]string{root.ID}, p...)
		}
	}
	return nil
}

// IsAncestor reports whether ancestorID names a strict ancestor of the node
// with the given id.
func IsAncestor(root *Node, ancestorID, id string) bool {
	path := PathTo(root, id)
	if path == nil {
		return false
	}
	for _, p := range path[:len(path)-1] {
		if p == ancestorID {
			return true
		}
	}
	return false
}

// Stats computes descendant counts for every folder in the tree, keyed by
// folder id. Recomputed on demand; never stored.
func Stats(root *Node) map[string]FolderStats {
	stats := make(map[string]FolderStats)
	var walk func(n *Node) (bookmarks, folders int)
	walk = func(n *Node) (int, int) {
		var b, f int
		for _, c := range n.Children {
			if c.IsFolder() {
				cb, cf := walk(c)
				b += cb
				f += cf + 1
			} else {
				b++
			}
		}
		stats[n.ID] = FolderStats{Bookmarks: b, Folders: f, Total: b + f}
		return b, f
	}
	if root != nil {
		walk(root)
	}
	return stats
}

// Flatten returns every bookmark in the tree in pre-order, with ancestor
// folder titles joined into a path. The root's title is not part of the path.
func Flatten(root *Node) []FlatBookmark {
	var flat []FlatBookmark
	var walk func(n *Node, trail []string)
	walk = func(n *Node, trail []string) {
		for _, c := range n.Children {
			if c.IsFolder() {
				walk(c, append(trail, c.Title))
			} else {
				flat = append(flat, FlatBookmark{
					ID:    c.ID,
					Title: c.Title,
					URL:   c.URL,
					Path:  strings.Join(trail, PathSeparator),
				})
			}
		}
	}
	if root != nil {
		walk(root, nil)
	}
	return flat
}

// Folders returns a FolderInfo for every non-root folder in pre-order.
func Folders(root *Node) []FolderInfo {
	var infos []FolderInfo
	var walk func(n *Node, idTrail, titleTrail []string)
	walk = func(n *Node, idTrail, titleTrail []string) {
		for _, c := range n.Children {
			if !c.IsFolder() {
				continue
			}
			idPath := append(append([]string{}, idTrail...), c.ID)
			titlePath := append(append([]string{}, titleTrail...), c.Title)
			infos = append(infos, FolderInfo{
				ID:        c.ID,
				Title:     c.Title,
				IDPath:    idPath,
				TitlePath: titlePath,
				Depth:     len(idPath) - 1,
			})
			walk(c, idPath, titlePath)
		}
	}
	if root != nil {
		walk(root, []string{root.ID}, nil)
	}
	return infos
}
