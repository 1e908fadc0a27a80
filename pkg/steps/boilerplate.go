package steps

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

const (
	// RuntimeScriptURL is the AMP runtime every page loads.
	RuntimeScriptURL = "https://cdn.ampproject.org/v0.js"
	// RuntimeURLPrefix identifies AMP runtime and extension scripts.
	RuntimeURLPrefix = "https://cdn.ampproject.org/"

	defaultViewport = "width=device-width,minimum-scale=1,initial-scale=1"

	BoilerplateCSS         = "body{-webkit-animation:-amp-start 8s steps(1,end) 0s 1 normal both;-moz-animation:-amp-start 8s steps(1,end) 0s 1 normal both;-ms-animation:-amp-start 8s steps(1,end) 0s 1 normal both;animation:-amp-start 8s steps(1,end) 0s 1 normal both}@-webkit-keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}@-moz-keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}@-ms-keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}@-o-keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}@keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}"
	BoilerplateNoscriptCSS = "body{-webkit-animation:none;-moz-animation:none;-ms-animation:none;animation:none}"
)

type boilerplateStep struct {
	name string
	cfg  api.BoilerplateConfig
}

// NewBoilerplateStep creates a step that adds the markup every AMP page
// requires. Elements already present are left alone, so the step can run
// on pages that are partially converted.
func NewBoilerplateStep(name string, cfg *api.BoilerplateConfig) pipeline.Step {
	s := &boilerplateStep{name: name}
	if cfg != nil {
		s.cfg = *cfg
	}
	if s.cfg.Viewport == "" {
		s.cfg.Viewport = defaultViewport
	}
	return s
}

func (s *boilerplateStep) Name() string { return s.name }

func (s *boilerplateStep) Apply(doc *pipeline.Document, _ *pipeline.RunContext) pipeline.Outcome {
	root, head := doc.HTMLElement(), doc.Head()
	if root == nil || head == nil {
		return pipeline.Abort("document has no <html> or <head> element")
	}

	if _, ok := pipeline.Attr(root, "amp"); !ok {
		if _, bolt := pipeline.Attr(root, "⚡"); !bolt {
			pipeline.SetAttr(root, "amp", "")
		}
	}

	ensureCharset(head)

	if findChild(head, atom.Meta, func(n *html.Node) bool { return attrIs(n, "name", "viewport") }) == nil {
		head.AppendChild(element("meta", atom.Meta, "name", "viewport", "content", s.cfg.Viewport))
	}

	if findChild(head, atom.Script, func(n *html.Node) bool { return attrIs(n, "src", RuntimeScriptURL) }) == nil {
		head.AppendChild(element("script", atom.Script, "async", "", "src", RuntimeScriptURL))
	}

	var warning string
	if findChild(head, atom.Link, func(n *html.Node) bool { return attrIs(n, "rel", "canonical") }) == nil {
		canonical := s.cfg.Canonical
		if canonical == "" {
			canonical = doc.URL()
		}
		if canonical == "" {
			warning = "no canonical URL known, <link rel=canonical> not added"
		} else {
			head.AppendChild(element("link", atom.Link, "rel", "canonical", "href", canonical))
		}
	}

	if findChild(head, atom.Style, func(n *html.Node) bool { _, ok := pipeline.Attr(n, "amp-boilerplate"); return ok }) == nil {
		style := element("style", atom.Style, "amp-boilerplate", "")
		style.AppendChild(&html.Node{Type: html.TextNode, Data: BoilerplateCSS})
		head.AppendChild(style)

		noscript := element("noscript", atom.Noscript)
		noscript.AppendChild(&html.Node{Type: html.TextNode, Data: "<style amp-boilerplate>" + BoilerplateNoscriptCSS + "</style>"})
		head.AppendChild(noscript)
	}

	if warning != "" {
		return pipeline.Warn("%s", warning)
	}
	return pipeline.Continue()
}

// ensureCharset makes <meta charset=utf-8> the first child of head.
func ensureCharset(head *html.Node) {
	meta := findChild(head, atom.Meta, func(n *html.Node) bool {
		_, ok := pipeline.Attr(n, "charset")
		return ok
	})
	if meta == nil {
		meta = element("meta", atom.Meta, "charset", "utf-8")
	} else {
		pipeline.SetAttr(meta, "charset", "utf-8")
		head.RemoveChild(meta)
	}
	prependNodes(head, []*html.Node{meta})
}

func findChild(parent *html.Node, a atom.Atom, match func(*html.Node) bool) *html.Node {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a && match(c) {
			return c
		}
	}
	return nil
}

func attrIs(n *html.Node, name, value string) bool {
	v, ok := pipeline.Attr(n, name)
	return ok && strings.EqualFold(strings.TrimSpace(v), value)
}

// element builds an element from alternating attribute keys and values.
func element(tag string, a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: a}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}
