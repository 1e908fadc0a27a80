package steps

import (
	"fmt"
	"text/template"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/net/html"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

type stripAttributesStep struct {
	name string
	cfg  *api.StripAttributesConfig
}

// NewStripAttributesStep creates a step that removes attributes whose
// names match any of the configured glob patterns.
func NewStripAttributesStep(name string, cfg *api.StripAttributesConfig) pipeline.Step {
	return &stripAttributesStep{name: name, cfg: cfg}
}

func (s *stripAttributesStep) Name() string { return s.name }

func (s *stripAttributesStep) Apply(doc *pipeline.Document, _ *pipeline.RunContext) pipeline.Outcome {
	removed := make(map[string]int)
	total := 0

	pipeline.Walk(doc.Root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || len(n.Attr) == 0 {
			return true
		}
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if a.Namespace == "" && s.matches(a.Key) {
				removed[a.Key]++
				total++
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
		return true
	})

	if s.cfg.Warn && total > 0 {
		return pipeline.Warn("removed %d attribute(s): %s", total, countSummary(removed))
	}
	return pipeline.Continue()
}

func (s *stripAttributesStep) matches(key string) bool {
	for _, p := range s.cfg.Patterns {
		// patterns were validated on load
		if ok, _ := doublestar.Match(p, key); ok {
			return true
		}
	}
	return false
}

type setAttributeStep struct {
	name  string
	cfg   *api.SetAttributeConfig
	value *template.Template
}

// NewSetAttributeStep creates a step that sets an attribute on every element
// of a tag. The value is a template rendered against the document.
func NewSetAttributeStep(name string, cfg *api.SetAttributeConfig) (pipeline.Step, error) {
	tmpl, err := parseTemplate(name, cfg.Value)
	if err != nil {
		return nil, fmt.Errorf("setAttribute.value: %w", err)
	}
	return &setAttributeStep{name: name, cfg: cfg, value: tmpl}, nil
}

func (s *setAttributeStep) Name() string { return s.name }

func (s *setAttributeStep) Apply(doc *pipeline.Document, _ *pipeline.RunContext) pipeline.Outcome {
	elements := doc.Find(s.cfg.Tag)
	if len(elements) == 0 {
		return pipeline.Warn("no <%s> element found", s.cfg.Tag)
	}

	value, err := renderTemplate(s.value, doc.TemplateData())
	if err != nil {
		return pipeline.Fail(err)
	}

	for _, n := range elements {
		pipeline.SetAttr(n, s.cfg.Attribute, value)
	}
	return pipeline.Continue()
}
