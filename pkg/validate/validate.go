// Package validate checks a finished document against the AMP rules the
// built-in steps are meant to establish.
package validate

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"

	runtimePrefix = "https://cdn.ampproject.org/"
	runtimeURL    = runtimePrefix + "v0.js"
)

// Finding is one validation result with the element path it refers to.
type Finding struct {
	Severity string `yaml:"severity"`
	Rule     string `yaml:"rule"`
	Message  string `yaml:"message"`
	Location string `yaml:"location,omitempty"`
}

func (f Finding) String() string {
	if f.Location == "" {
		return fmt.Sprintf("%s [%s] %s", f.Severity, f.Rule, f.Message)
	}
	return fmt.Sprintf("%s [%s] %s at %s", f.Severity, f.Rule, f.Message, f.Location)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

var disallowedElements = map[string]bool{
	"img":      true,
	"iframe":   true,
	"video":    true,
	"audio":    true,
	"frame":    true,
	"frameset": true,
	"object":   true,
	"embed":    true,
	"applet":   true,
	"param":    true,
}

// sizedElements must declare their dimensions unless their layout makes
// that unnecessary.
var sizedElements = map[string]bool{
	"amp-img":    true,
	"amp-iframe": true,
	"amp-video":  true,
}

var sizeFreeLayouts = map[string]bool{
	"fill":      true,
	"container": true,
	"flex-item": true,
	"nodisplay": true,
}

// Validator checks documents. The zero value uses the default limits.
type Validator struct {
	MaxCustomCSSBytes int
}

// New creates a validator with default limits.
func New() *Validator {
	return &Validator{MaxCustomCSSBytes: api.DefaultMaxStyleBytes}
}

// Validate returns the findings for doc in document order, followed by the
// findings about missing required markup.
func (v *Validator) Validate(doc *pipeline.Document) []Finding {
	c := &checker{limit: v.MaxCustomCSSBytes}
	if c.limit <= 0 {
		c.limit = api.DefaultMaxStyleBytes
	}
	c.walk(doc.Root, nil)
	c.required(doc)
	return c.findings
}

type checker struct {
	limit    int
	findings []Finding

	customStyles int
	boilerplate  bool
	noscript     bool
	charset      bool
	viewport     bool
	runtime      bool
	canonical    bool
}

func (c *checker) add(severity, rule, location, format string, args ...any) {
	c.findings = append(c.findings, Finding{
		Severity: severity,
		Rule:     rule,
		Message:  fmt.Sprintf(format, args...),
		Location: location,
	})
}

func (c *checker) walk(n *html.Node, path []string) {
	if n.Type == html.ElementNode {
		path = append(path, segment(n))
		c.element(n, strings.Join(path, " > "))
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child, path)
	}
}

func (c *checker) element(n *html.Node, loc string) {
	if disallowedElements[n.Data] {
		c.add(SeverityError, "disallowed-element", loc, "<%s> is not allowed", n.Data)
	}

	for _, a := range n.Attr {
		if a.Key == "style" || (len(a.Key) > 2 && strings.HasPrefix(a.Key, "on")) {
			c.add(SeverityError, "disallowed-attribute", loc, "attribute %q is not allowed", a.Key)
		}
	}

	if sizedElements[n.Data] {
		c.sized(n, loc)
	}

	switch n.DataAtom {
	case atom.Script:
		c.script(n, loc)
	case atom.Style:
		c.style(n, loc)
	case atom.Noscript:
		if strings.Contains(text(n), "amp-boilerplate") {
			c.noscript = true
		}
	case atom.Meta:
		if _, ok := pipeline.Attr(n, "charset"); ok {
			c.charset = true
			if !isFirstElementChild(n) {
				c.add(SeverityError, "charset-position", loc, "<meta charset> must be the first child of <head>")
			}
		}
		if name, _ := pipeline.Attr(n, "name"); strings.EqualFold(name, "viewport") {
			c.viewport = true
		}
	case atom.Link:
		if rel, _ := pipeline.Attr(n, "rel"); strings.EqualFold(rel, "canonical") {
			c.canonical = true
		}
		if rel, _ := pipeline.Attr(n, "rel"); strings.EqualFold(rel, "stylesheet") {
			c.add(SeverityWarning, "external-stylesheet", loc, "external stylesheets are only allowed for approved font providers")
		}
	}
}

func (c *checker) script(n *html.Node, loc string) {
	src, _ := pipeline.Attr(n, "src")
	typ, _ := pipeline.Attr(n, "type")
	switch {
	case src == runtimeURL:
		c.runtime = true
		if _, ok := pipeline.Attr(n, "async"); !ok {
			c.add(SeverityError, "runtime-async", loc, "the AMP runtime script must be async")
		}
	case strings.HasPrefix(src, runtimePrefix):
	case strings.EqualFold(typ, "application/ld+json"):
	default:
		c.add(SeverityError, "custom-script", loc, "custom JavaScript is not allowed")
	}
}

func (c *checker) style(n *html.Node, loc string) {
	if _, ok := pipeline.Attr(n, "amp-boilerplate"); ok {
		c.boilerplate = true
		return
	}
	if _, ok := pipeline.Attr(n, "amp-custom"); !ok {
		c.add(SeverityError, "style-element", loc, "<style> must carry amp-custom or amp-boilerplate")
		return
	}

	c.customStyles++
	if c.customStyles > 1 {
		c.add(SeverityError, "multiple-custom-styles", loc, "only one <style amp-custom> is allowed")
	}
	if n.Parent == nil || n.Parent.DataAtom != atom.Head {
		c.add(SeverityError, "custom-style-position", loc, "<style amp-custom> must be in <head>")
	}

	css := text(n)
	if size := len(css); size > c.limit {
		c.add(SeverityError, "custom-style-size", loc, "custom CSS is %d bytes, limit is %d", size, c.limit)
	}
	if strings.Contains(css, "!important") {
		c.add(SeverityError, "important-qualifier", loc, "!important is not allowed")
	}
}

func (c *checker) sized(n *html.Node, loc string) {
	layout, _ := pipeline.Attr(n, "layout")
	if sizeFreeLayouts[layout] {
		return
	}
	_, hasWidth := pipeline.Attr(n, "width")
	_, hasHeight := pipeline.Attr(n, "height")
	if !hasHeight || (!hasWidth && layout != "fixed-height") {
		c.add(SeverityError, "missing-dimensions", loc, "<%s> needs width and height or a size-free layout", n.Data)
	}
}

func (c *checker) required(doc *pipeline.Document) {
	root := doc.HTMLElement()
	if root != nil {
		_, amp := pipeline.Attr(root, "amp")
		_, bolt := pipeline.Attr(root, "⚡")
		if !amp && !bolt {
			c.add(SeverityError, "amp-attribute", "html", "<html> must carry the amp attribute")
		}
	}

	missing := []struct {
		ok      bool
		rule    string
		message string
	}{
		{c.charset, "charset", "<meta charset=utf-8> is missing"},
		{c.viewport, "viewport", "<meta name=viewport> is missing"},
		{c.runtime, "runtime", "the AMP runtime script is missing"},
		{c.canonical, "canonical", "<link rel=canonical> is missing"},
		{c.boilerplate, "boilerplate", "<style amp-boilerplate> is missing"},
		{c.noscript, "boilerplate-noscript", "<noscript> boilerplate is missing"},
	}
	for _, m := range missing {
		if !m.ok {
			c.add(SeverityError, m.rule, "html > head", "%s", m.message)
		}
	}
}

// segment names n within its parent, numbering repeated tags from 1.
func segment(n *html.Node) string {
	if n.Parent == nil {
		return n.Data
	}
	index, total := 0, 0
	for s := n.Parent.FirstChild; s != nil; s = s.NextSibling {
		if s.Type != html.ElementNode || s.Data != n.Data {
			continue
		}
		total++
		if s == n {
			index = total
		}
	}
	if total <= 1 {
		return n.Data
	}
	return fmt.Sprintf("%s[%d]", n.Data, index)
}

func isFirstElementChild(n *html.Node) bool {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return false
		}
	}
	return n.Parent != nil && n.Parent.DataAtom == atom.Head
}

func text(n *html.Node) string {
	var b strings.Builder
	pipeline.Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}
