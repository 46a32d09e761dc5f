// Package exporter writes a document tree back out as Netscape bookmark HTML.
package exporter

import (
	"fmt"
	"html"
	"strings"

	"github.com/marksweep/marksweep/internal/document"
)

// Export serializes the document to the Netscape bookmark format. It is the
// structural inverse of the importer: reparsing the output yields the same
// folders, bookmarks and URLs. Root children are written directly, without
// a wrapper folder entry.
func Export(doc *document.Document) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	if doc != nil && doc.Root != nil {
		writeChildren(&b, doc.Root, 1)
	}

	b.WriteString("</DL><p>\n")
	return b.String()
}

func writeChildren(b *strings.Builder, folder *document.Node, indent int) {
	prefix := strings.Repeat("    ", indent)

	for _, n := range folder.Children {
		if n.IsFolder() {
			fmt.Fprintf(b, "%s<DT><H3%s%s>%s</H3>\n",
				prefix,
				timestampAttr("ADD_DATE", n.AddDate),
				timestampAttr("LAST_MODIFIED", n.LastModified),
				html.EscapeString(n.Title),
			)
			fmt.Fprintf(b, "%s<DL><p>\n", prefix)
			writeChildren(b, n, indent+1)
			fmt.Fprintf(b, "%s</DL><p>\n", prefix)
			continue
		}

		fmt.Fprintf(b, "%s<DT><A HREF=\"%s\"%s%s>%s</A>\n",
			prefix,
			html.EscapeString(n.URL),
			timestampAttr("ADD_DATE", n.AddDate),
			iconAttr(n.Icon),
			html.EscapeString(n.Title),
		)
	}
}

func timestampAttr(name string, ts *int64) string {
	if ts == nil {
		return ""
	}
	return fmt.Sprintf(" %s=\"%d\"", name, *ts)
}

func iconAttr(icon string) string {
	if icon == "" {
		return ""
	}
	return fmt.Sprintf(" ICON=\"%s\"", html.EscapeString(icon))
}
