package document

import (
	"fmt"
	"time"
)

// ImportMeta describes where a document came from.
type ImportMeta struct {
	FileName     string    `json:"fileName"`
	ByteSize     int64     `json:"byteSize"`
	FileModified time.Time `json:"fileModified"`
	ImportedAt   time.Time `json:"importedAt"`
}

// Document is one imported bookmark hierarchy. It lives in memory for the
// session; mutations replace the root wholesale rather than editing nodes
// in place, so a *Document reader always sees a fully valid tree.
type Document struct {
	Root *Node
	Meta ImportMeta
}

// New creates a Document around the given root folder.
func New(root *Node, meta ImportMeta) *Document {
	if root == nil {
		root = NewRoot()
	}
	return &Document{Root: root, Meta: meta}
}

// Replace swaps in a new root. Callers hand it the result of a mutation op.
func (d *Document) Replace(root *Node) {
	if root != nil {
		d.Root = root
	}
}

// CheckIntegrity walks the tree and verifies the structural invariants:
// every id occurs once, the root is a folder with id "root", and only
// folders carry children. The tree shape itself rules out cycles, but the
// id checks catch a mutation that duplicated or lost a subtree.
func (d *Document) CheckIntegrity() error {
	if d.Root == nil || !d.Root.IsFolder() || d.Root.ID != RootID {
		return fmt.Errorf("document root missing or malformed")
	}
	seen := make(map[string]bool)
	var walk func(n *Node) error
	walk = func(n *Node) error {
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		if !n.IsFolder() && len(n.Children) > 0 {
			return fmt.Errorf("bookmark %q has children", n.ID)
		}
		for _, c := range n.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(d.Root)
}
