// Package extract recovers agreement fields from ECMS detail pages.
//
// Detail pages carry no ids or classes that tie a value to its label, so
// every value is located relative to the text of a nearby label.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed detail page that supports label-relative lookups.
type Document struct {
	root *html.Node
}

// ParseDocument parses raw page HTML into a Document.
func ParseDocument(rawHTML string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return NewDocument(doc), nil
}

// NewDocument wraps an already parsed goquery document.
func NewDocument(doc *goquery.Document) *Document {
	var root *html.Node
	if doc != nil && len(doc.Nodes) > 0 {
		root = doc.Nodes[0]
	}
	return &Document{root: root}
}

// Text returns every text node of the page joined by newlines, in document order.
func (d *Document) Text() string {
	var parts []string
	walkText(d.root, func(n *html.Node) bool {
		parts = append(parts, n.Data)
		return true
	})
	return strings.Join(parts, "\n")
}

// FindLabel returns the first text node whose content matches pattern, or nil.
func (d *Document) FindLabel(pattern *regexp.Regexp) *html.Node {
	var found *html.Node
	walkText(d.root, func(n *html.Node) bool {
		if pattern.MatchString(n.Data) {
			found = n
			return false
		}
		return true
	})
	return found
}

// TextAbove returns the visible text of the nearest non-empty element that
// precedes the label's parent element among its siblings. The label is
// matched as a case-insensitive substring. Returns "" when the label is absent.
func (d *Document) TextAbove(label string) string {
	node := d.FindLabel(labelPattern(label))
	if node == nil {
		return ""
	}
	return TextOfPrecedingSibling(node)
}

// TextOfPrecedingSibling walks backwards from the parent of node through
// element siblings until one has visible text.
func TextOfPrecedingSibling(node *html.Node) string {
	if node == nil || node.Parent == nil || node.Parent.Type != html.ElementNode {
		return ""
	}
	for sib := prevElement(node.Parent); sib != nil; sib = prevElement(sib) {
		if text := VisibleText(sib); text != "" {
			return text
		}
	}
	return ""
}

// TextBetweenRows returns the visible text of every table row strictly
// between the row holding the first match of from and the row holding the
// first match of to, space-joined. Returns "" if either row is missing or
// the to row is not a later sibling of the from row.
func (d *Document) TextBetweenRows(from, to *regexp.Regexp) string {
	fromRow := rowAncestor(d.FindLabel(from))
	toRow := rowAncestor(d.FindLabel(to))
	if fromRow == nil || toRow == nil || fromRow == toRow {
		return ""
	}

	var texts []string
	for cur := nextElement(fromRow); cur != nil; cur = nextElement(cur) {
		if cur == toRow {
			return strings.Join(texts, " ")
		}
		if text := VisibleText(cur); text != "" {
			texts = append(texts, text)
		}
	}
	return ""
}

// VisibleText returns the trimmed text pieces under n joined by single spaces.
func VisibleText(n *html.Node) string {
	var parts []string
	walkText(n, func(t *html.Node) bool {
		if s := strings.TrimSpace(t.Data); s != "" {
			parts = append(parts, s)
		}
		return true
	})
	return strings.Join(parts, " ")
}

func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(label))
}

// walkText visits text nodes under n in document order, skipping script and
// style content. Traversal stops once visit returns false.
func walkText(n *html.Node, visit func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	switch n.Type {
	case html.TextNode:
		return visit(n)
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style || n.DataAtom == atom.Noscript {
			return true
		}
	case html.CommentNode:
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkText(c, visit) {
			return false
		}
	}
	return true
}

func prevElement(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func rowAncestor(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Tr {
			return p
		}
	}
	return nil
}
