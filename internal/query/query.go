// Package query wraps goquery with the small selection surface the harvester needs.
package query

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node is a (possibly empty) set of matched elements
type Node struct {
	sel *goquery.Selection
}

// Parse parses markup into a queryable document
func Parse(markup string) (Node, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return Node{}, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return Node{sel: goquery.NewDocumentFromNode(root).Selection}, nil
}

// FromSelection wraps an existing goquery selection
func FromSelection(sel *goquery.Selection) Node {
	return Node{sel: sel}
}

// Selection exposes the underlying goquery selection (never nil)
func (n Node) Selection() *goquery.Selection {
	if n.sel == nil {
		return &goquery.Selection{}
	}
	return n.sel
}

// Find returns the descendants matching selector
func (n Node) Find(selector string) Node {
	if n.sel == nil {
		return Node{}
	}
	return Node{sel: n.sel.Find(selector)}
}

// First reduces the set to its first element
func (n Node) First() Node {
	if n.sel == nil {
		return Node{}
	}
	return Node{sel: n.sel.First()}
}

// Len returns the number of matched elements
func (n Node) Len() int {
	if n.sel == nil {
		return 0
	}
	return n.sel.Length()
}

// Empty reports whether nothing matched
func (n Node) Empty() bool {
	return n.Len() == 0
}

// Each calls fn for every matched element in document order
func (n Node) Each(fn func(i int, child Node)) {
	if n.sel == nil {
		return
	}
	n.sel.Each(func(i int, s *goquery.Selection) {
		fn(i, Node{sel: s})
	})
}

// Attr returns the attribute of the first matched element
func (n Node) Attr(name string) (string, bool) {
	if n.sel == nil {
		return "", false
	}
	return n.sel.Attr(name)
}

// HTML returns the outer HTML of every matched element
func (n Node) HTML() string {
	if n.sel == nil {
		return ""
	}
	var sb strings.Builder
	n.sel.Each(func(_ int, s *goquery.Selection) {
		h, err := goquery.OuterHtml(s)
		if err == nil {
			sb.WriteString(h)
		}
	})
	return sb.String()
}

// Text returns the readable text of all matched elements. Whitespace inside
// text nodes is collapsed and block-level elements end up on their own line.
func (n Node) Text() string {
	if n.sel == nil {
		return ""
	}
	parts := make([]string, 0, n.sel.Length())
	for _, nd := range n.sel.Nodes {
		if t := nodeText(nd); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
