package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the page under transformation. Steps mutate Root and Meta in
// place; the URL is fixed for the run.
type Document struct {
	url string

	Root *html.Node
	Meta map[string]any
}

// NewDocument wraps an already parsed node tree.
func NewDocument(url string, root *html.Node) *Document {
	return &Document{url: url, Root: root, Meta: make(map[string]any)}
}

// ParseDocument parses HTML from r into a new Document.
func ParseDocument(url string, r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return NewDocument(url, root), nil
}

// URL returns the source identifier of the page.
func (d *Document) URL() string { return d.url }

// HTML serializes the current content.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.Root); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return buf.String(), nil
}

// SetHTML replaces the content by re-parsing s.
func (d *Document) SetHTML(s string) error {
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return fmt.Errorf("parsing html: %w", err)
	}
	d.Root = root
	return nil
}

// Find returns every element named tag in document order.
func (d *Document) Find(tag string) []*html.Node {
	var found []*html.Node
	Walk(d.Root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			found = append(found, n)
		}
		return true
	})
	return found
}

// Head returns the head element, or nil.
func (d *Document) Head() *html.Node { return d.first(atom.Head) }

// Body returns the body element, or nil.
func (d *Document) Body() *html.Node { return d.first(atom.Body) }

// HTMLElement returns the root html element, or nil.
func (d *Document) HTMLElement() *html.Node { return d.first(atom.Html) }

func (d *Document) first(a atom.Atom) *html.Node {
	var found *html.Node
	Walk(d.Root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}

// TemplateData exposes the document to templated step values.
func (d *Document) TemplateData() map[string]any {
	return map[string]any{
		"URL":  d.url,
		"Meta": d.Meta,
	}
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the children of the visited node. The next sibling is captured
// before descending, so fn may detach the node it is given.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}

// Attr returns the value of the named attribute and whether it is present.
func Attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute.
func SetAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}
