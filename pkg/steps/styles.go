package steps

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

// MetaCustomCSSBytes is the Document.Meta key holding the merged stylesheet size.
const MetaCustomCSSBytes = "customCSSBytes"

const attrAmpCustom = "amp-custom"

type mergeStylesStep struct {
	name string
	cfg  api.MergeStylesConfig
}

// NewMergeStylesStep creates a step that folds every inline stylesheet into a
// single <style amp-custom> element in head.
func NewMergeStylesStep(name string, cfg *api.MergeStylesConfig) pipeline.Step {
	s := &mergeStylesStep{name: name}
	if cfg != nil {
		s.cfg = *cfg
	}
	if s.cfg.MaxBytes == 0 {
		s.cfg.MaxBytes = api.DefaultMaxStyleBytes
	}
	return s
}

func (s *mergeStylesStep) Name() string { return s.name }

func (s *mergeStylesStep) Apply(doc *pipeline.Document, _ *pipeline.RunContext) pipeline.Outcome {
	head := doc.Head()
	if head == nil {
		return pipeline.Abort("document has no <head> element")
	}

	var (
		css       strings.Builder
		styles    []*html.Node
		linked    []*html.Node
		linkHrefs []string
	)
	pipeline.Walk(doc.Root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch {
		case n.DataAtom == atom.Style:
			if _, ok := pipeline.Attr(n, "amp-boilerplate"); ok {
				return false
			}
			styles = append(styles, n)
			return false
		case n.DataAtom == atom.Link && isStylesheetLink(n):
			linked = append(linked, n)
			href, _ := pipeline.Attr(n, "href")
			linkHrefs = append(linkHrefs, href)
		}
		return true
	})

	for _, n := range styles {
		text := strings.TrimSpace(textContent(n))
		if text != "" {
			if css.Len() > 0 {
				css.WriteByte('\n')
			}
			css.WriteString(text)
		}
		n.Parent.RemoveChild(n)
	}

	var warnings []string

	if !s.cfg.KeepLinkedStyles {
		for _, n := range linked {
			n.Parent.RemoveChild(n)
		}
		if len(linked) > 0 {
			warnings = append(warnings, "dropped external stylesheet(s): "+strings.Join(linkHrefs, ", "))
		}
	}

	merged := css.String()
	if strings.Contains(merged, "!important") {
		merged = strings.ReplaceAll(merged, "!important", "")
		warnings = append(warnings, "removed !important qualifiers")
	}

	if doc.Meta == nil {
		doc.Meta = make(map[string]any)
	}
	doc.Meta[MetaCustomCSSBytes] = len(merged)

	if len(merged) > s.cfg.MaxBytes {
		return pipeline.Abort("custom CSS is %d bytes, limit is %d", len(merged), s.cfg.MaxBytes)
	}

	if merged != "" {
		style := &html.Node{
			Type:     html.ElementNode,
			Data:     "style",
			DataAtom: atom.Style,
			Attr:     []html.Attribute{{Key: attrAmpCustom}},
		}
		style.AppendChild(&html.Node{Type: html.TextNode, Data: merged})
		head.AppendChild(style)
	}

	if len(warnings) > 0 {
		return pipeline.Warn("%s", strings.Join(warnings, "; "))
	}
	return pipeline.Continue()
}

func isStylesheetLink(n *html.Node) bool {
	rel, _ := pipeline.Attr(n, "rel")
	for _, r := range strings.Fields(rel) {
		if strings.EqualFold(r, "stylesheet") {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	pipeline.Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}
