package document

import "strings"

// Position says where Move places the source relative to the target.
type Position int

const (
	Before Position = iota
	After
	Inside
)

// AppendIndex makes InsertNodeAt append to the end of the parent's children.
const AppendIndex = -1

// Mutation operations return a new root plus an outcome flag and never edit
// the given tree in place. Untouched subtrees are shared between old and new
// roots; only the path from root to the changed node is rebuilt. An invalid
// request returns the original root unchanged with a false flag, so callers
// must treat "no change" as signal rather than silently proceeding.

// RemoveNodeByID removes the first node matching id (depth-first pre-order)
// and returns the new root plus the removed node, or (root, nil) if the id
// is absent or names the root.
func RemoveNodeByID(root *Node, id string) (*Node, *Node) {
	if root == nil || id == RootID {
		return root, nil
	}
	newRoot, removed := removeIn(root, id)
	if removed == nil {
		return root, nil
	}
	return newRoot, removed
}

func removeIn(n *Node, id string) (*Node, *Node) {
	for i, c := range n.Children {
		if c.ID == id {
			children := make([]*Node, 0, len(n.Children)-1)
			children = append(children, n.Children[:i]...)
			children = append(children, n.Children[i+1:]...)
			return n.withChildren(children), c
		}
		if c.IsFolder() {
			if nc, removed := removeIn(c, id); removed != nil {
				children := append([]*Node{}, n.Children...)
				children[i] = nc
				return n.withChildren(children), removed
			}
		}
	}
	return n, nil
}

// InsertNodeAt splices node into parentID's children at index. A negative or
// out-of-range index appends. Returns (root, false) if parentID does not
// name a folder in the tree.
func InsertNodeAt(root *Node, parentID string, node *Node, index int) (*Node, bool) {
	if root == nil || node == nil {
		return root, false
	}
	newRoot, ok := insertIn(root, parentID, node, index)
	if !ok {
		return root, false
	}
	return newRoot, true
}

func insertIn(n *Node, parentID string, node *Node, index int) (*Node, bool) {
	if n.ID == parentID {
		if !n.IsFolder() {
			return n, false
		}
		if index < 0 || index > len(n.Children) {
			index = len(n.Children)
		}
		children := make([]*Node, 0, len(n.Children)+1)
		children = append(children, n.Children[:index]...)
		children = append(children, node)
		children = append(children, n.Children[index:]...)
		return n.withChildren(children), true
	}
	for i, c := range n.Children {
		if !c.IsFolder() {
			continue
		}
		if nc, ok := insertIn(c, parentID, node, index); ok {
			children := append([]*Node{}, n.Children...)
			children[i] = nc
			return n.withChildren(children), true
		}
	}
	return n, false
}

// Move relocates sourceID relative to targetID. Inside requires a folder
// target. Rejected outright when source equals target, when source is an
// ancestor of target (the move would create a cycle), or when either id is
// missing; the tree is returned unchanged with false.
func Move(root *Node, sourceID, targetID string, pos Position) (*Node, bool) {
	if root == nil || sourceID == targetID || sourceID == RootID {
		return root, false
	}
	target := Find(root, targetID)
	if target == nil || Find(root, sourceID) == nil {
		return root, false
	}
	if pos == Inside && !target.IsFolder() {
		return root, false
	}
	if IsAncestor(root, sourceID, targetID) {
		return root, false
	}

	stripped, source := RemoveNodeByID(root, sourceID)
	if source == nil {
		return root, false
	}

	if pos == Inside {
		newRoot, ok := InsertNodeAt(stripped, targetID, source, AppendIndex)
		if !ok {
			return root, false
		}
		return newRoot, true
	}

	parent, idx := FindParent(stripped, targetID)
	if parent == nil {
		return root, false
	}
	if pos == After {
		idx++
	}
	newRoot, ok := InsertNodeAt(stripped, parent.ID, source, idx)
	if !ok {
		return root, false
	}
	return newRoot, true
}

// RenameFolder replaces a folder's title. Blank titles, the root, missing
// ids, and bookmark ids are rejected.
func RenameFolder(root *Node, folderID, newTitle string) (*Node, bool) {
	if root == nil || folderID == RootID || strings.TrimSpace(newTitle) == "" {
		return root, false
	}
	newRoot, ok := renameIn(root, folderID, newTitle)
	if !ok {
		return root, false
	}
	return newRoot, true
}

func renameIn(n *Node, folderID, newTitle string) (*Node, bool) {
	for i, c := range n.Children {
		if c.ID == folderID {
			if !c.IsFolder() {
				return n, false
			}
			renamed := c.shallowCopy()
			renamed.Title = newTitle
			children := append([]*Node{}, n.Children...)
			children[i] = renamed
			return n.withChildren(children), true
		}
		if c.IsFolder() {
			if nc, ok := renameIn(c, folderID, newTitle); ok {
				children := append([]*Node{}, n.Children...)
				children[i] = nc
				return n.withChildren(children), true
			}
		}
	}
	return n, false
}

// RemoveSubtree deletes a folder and everything under it. The root and
// bookmark ids are rejected.
func RemoveSubtree(root *Node, folderID string) (*Node, bool) {
	if root == nil || folderID == RootID {
		return root, false
	}
	if n := Find(root, folderID); n == nil || !n.IsFolder() {
		return root, false
	}
	newRoot, removed := RemoveNodeByID(root, folderID)
	return newRoot, removed != nil
}

// MergeFoldersInto appends each source folder's children to the target's
// children and removes the emptied source, in caller order. Sources equal to
// the target, sources that are ancestors of the target, bookmarks, and
// missing ids are skipped. Each source sees the tree as mutated by the
// sources before it, so an earlier removal feeds later ancestor checks.
// Returns the new root and how many sources were merged.
func MergeFoldersInto(root *Node, sourceIDs []string, targetID string) (*Node, int) {
	if root == nil {
		return root, 0
	}
	target := Find(root, targetID)
	if target == nil || !target.IsFolder() {
		return root, 0
	}

	merged := 0
	current := root
	for _, srcID := range sourceIDs {
		if srcID == targetID || srcID == RootID {
			continue
		}
		src := Find(current, srcID)
		if src == nil || !src.IsFolder() {
			continue
		}
		if IsAncestor(current, srcID, targetID) {
			continue
		}
		stripped, removed := RemoveNodeByID(current, srcID)
		if removed == nil {
			continue
		}
		next := stripped
		ok := true
		for _, child := range removed.Children {
			next, ok = InsertNodeAt(next, targetID, child, AppendIndex)
			if !ok {
				break
			}
		}
		if !ok {
			continue
		}
		current = next
		merged++
	}
	return current, merged
}

// RemoveBookmarks filters the given bookmark ids out of every folder.
// Folders are never removed, even when emptied. Returns the new root and
// the number of bookmarks removed.
func RemoveBookmarks(root *Node, ids map[string]bool) (*Node, int) {
	if root == nil || len(ids) == 0 {
		return root, 0
	}
	newRoot, removed := filterBookmarks(root, ids)
	if removed == 0 {
		return root, 0
	}
	return newRoot, removed
}

func filterBookmarks(n *Node, ids map[string]bool) (*Node, int) {
	removed := 0
	changed := false
	children := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.IsFolder() {
			nc, r := filterBookmarks(c, ids)
			if r > 0 {
				changed = true
				removed += r
			}
			children = append(children, nc)
			continue
		}
		if ids[c.ID] {
			changed = true
			removed++
			continue
		}
		children = append(children, c)
	}
	if !changed {
		return n, 0
	}
	return n.withChildren(children), removed
}
