// Package importer reads Netscape bookmark HTML exports into a document tree.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/marksweep/marksweep/internal/document"
)

// ErrNoList is returned when the input has no top-level bookmark list at
// all, meaning it is not a bookmark export. Anything else is parsed
// permissively: unknown markup is skipped, bad timestamps are dropped.
var ErrNoList = errors.New("no bookmark list found in input")

// idGen mints node ids scoped to one parse. Ids from different imports are
// never compared, so a simple counter is enough.
type idGen struct {
	n int
}

func (g *idGen) next() string {
	g.n++
	return fmt.Sprintf("n%d", g.n)
}

// Parse reads a Netscape bookmark export and returns the root folder of the
// resulting tree. The root itself is synthetic (id "root") and holds the
// export's top-level entries as children.
func Parse(r io.Reader) (*document.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	dl := findFirstList(doc)
	if dl == nil {
		return nil, ErrNoList
	}

	gen := &idGen{}
	root := document.NewRoot()
	root.Children = parseList(dl, gen)
	return root, nil
}

// findFirstList locates the outermost DL element.
func findFirstList(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, "dl") {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if dl := findFirstList(c); dl != nil {
			return dl
		}
	}
	return nil
}

// parseList converts the children of a DL into document nodes. A DT holding
// an H3 becomes a folder; its nested DL may sit inside the same DT, or as a
// following sibling (some exporters emit it as a DD or a bare DL). A DT
// holding an A becomes a bookmark.
func parseList(dl *html.Node, gen *idGen) []*document.Node {
	nodes := []*document.Node{}
	consumed := make(map[*html.Node]bool)

	for c := dl.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || consumed[c] {
			continue
		}
		marker := findMarker(c)
		if marker == nil {
			continue
		}

		if strings.EqualFold(marker.Data, "a") {
			nodes = append(nodes, parseBookmark(marker, gen))
			continue
		}

		// Folder marker. Look for its child list inside the DT first,
		// then scan forward past non-structural siblings.
		folder := parseFolder(marker, gen)
		childList := listWithin(marker.Parent, marker)
		if childList == nil {
			childList = listAfter(c, consumed)
		}
		if childList != nil {
			folder.Children = parseList(childList, gen)
		}
		nodes = append(nodes, folder)
	}
	return nodes
}

// findMarker returns the H3 or A element that makes n a structural entry,
// or nil. A bare H3/A outside a DT also counts.
func findMarker(n *html.Node) *html.Node {
	if n.Type == html.ElementNode {
		if strings.EqualFold(n.Data, "h3") || strings.EqualFold(n.Data, "a") {
			return n
		}
		if strings.EqualFold(n.Data, "dt") {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if m := findMarker(c); m != nil {
					return m
				}
			}
		}
	}
	return nil
}

// listWithin finds a DL among parent's children that follows the marker.
// Like listAfter, the scan stops at the next marker: when the marker sits
// bare under the DL, its parent's children are other entries, and a later
// entry's list must not be claimed for this folder.
func listWithin(parent, marker *html.Node) *html.Node {
	if parent == nil {
		return nil
	}
	seen := false
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c == marker {
			seen = true
			continue
		}
		if !seen || c.Type != html.ElementNode {
			continue
		}
		if strings.EqualFold(c.Data, "dl") {
			return c
		}
		if findMarker(c) != nil {
			return nil
		}
	}
	return nil
}

// listAfter scans entry's following siblings for the folder's child list,
// skipping non-structural elements (P separators and the like). The scan
// stops at the next marker: a folder with no list before the next entry is
// simply empty. A DL wrapped in a DD is unwrapped.
func listAfter(entry *html.Node, consumed map[*html.Node]bool) *html.Node {
	for s := entry.NextSibling; s != nil; s = s.NextSibling {
		if s.Type != html.ElementNode {
			continue
		}
		switch {
		case strings.EqualFold(s.Data, "dl"):
			consumed[s] = true
			return s
		case strings.EqualFold(s.Data, "dd"):
			for c := s.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && strings.EqualFold(c.Data, "dl") {
					consumed[s] = true
					return c
				}
			}
		case findMarker(s) != nil:
			return nil
		}
	}
	return nil
}

func parseFolder(h3 *html.Node, gen *idGen) *document.Node {
	folder := document.NewFolder(gen.next(), cleanText(textContent(h3)))
	folder.AddDate = parseTimestamp(attr(h3, "add_date"))
	folder.LastModified = parseTimestamp(attr(h3, "last_modified"))
	return folder
}

func parseBookmark(a *html.Node, gen *idGen) *document.Node {
	b := document.NewBookmark(gen.next(), cleanText(textContent(a)), attr(a, "href"))
	b.AddDate = parseTimestamp(attr(a, "add_date"))
	b.Icon = attr(a, "icon")
	return b
}

// parseTimestamp reads a numeric attribute permissively: absent or
// unparsable values become nil, never an error.
func parseTimestamp(s string) *int64 {
	if s == "" {
		return nil
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil
	}
	return &ts
}

// cleanText collapses runs of whitespace and falls back to "Untitled" for
// blank titles.
func cleanText(s string) string {
	cleaned := strings.Join(strings.Fields(s), " ")
	if cleaned == "" {
		return "Untitled"
	}
	return cleaned
}

// textContent returns the concatenated text under a node.
func textContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// attr returns an attribute value, case-insensitive on the key.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
