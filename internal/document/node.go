package document

// RootID is the id of every document's root folder. The root is never
// rendered, renamed, deleted, or used as a merge source.
const RootID = "root"

// Node is a single entry in the bookmark tree: either a bookmark (URL leaf)
// or a folder (ordered children). Ids are unique within one document.
type Node struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	URL          string  `json:"url,omitempty"`
	Icon         string  `json:"icon,omitempty"`
	AddDate      *int64  `json:"addDate,omitempty"`      // unix seconds, nil = unknown
	LastModified *int64  `json:"lastModified,omitempty"` // folders only
	Folder       bool    `json:"folder"`
	Children     []*Node `json:"children,omitempty"` // folders only, order significant
}

// IsFolder reports whether the node is a folder.
func (n *Node) IsFolder() bool {
	return n.Folder
}

// NewRoot creates an empty root folder.
func NewRoot() *Node {
	return &Node{
		ID:       RootID,
		Title:    "Bookmarks",
		Folder:   true,
		Children: []*Node{},
	}
}

// NewFolder creates a folder node with the given id and title.
func NewFolder(id, title string) *Node {
	return &Node{
		ID:       id,
		Title:    title,
		Folder:   true,
		Children: []*Node{},
	}
}

// NewBookmark creates a bookmark node with the given id, title and URL.
func NewBookmark(id, title, url string) *Node {
	return &Node{
		ID:    id,
		Title: title,
		URL:   url,
	}
}

// shallowCopy returns a copy of n sharing its children slice. Mutations
// rebuild only the path from root to the changed node; untouched subtrees
// are shared between the old and new tree.
func (n *Node) shallowCopy() *Node {
	c := *n
	return &c
}

// withChildren returns a copy of n with the given children slice.
func (n *Node) withChildren(children []*Node) *Node {
	c := n.shallowCopy()
	c.Children = children
	return c
}
