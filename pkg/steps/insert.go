package steps

import (
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/net/html"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

type insertStep struct {
	name     string
	cfg      *api.InsertConfig
	fragment *template.Template
}

// NewInsertStep creates a step that inserts a templated HTML fragment at the
// start or end of head or body.
func NewInsertStep(name string, cfg *api.InsertConfig) (pipeline.Step, error) {
	tmpl, err := parseTemplate(name, cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("insert.template: %w", err)
	}
	return &insertStep{name: name, cfg: cfg, fragment: tmpl}, nil
}

func (s *insertStep) Name() string { return s.name }

func (s *insertStep) Apply(doc *pipeline.Document, _ *pipeline.RunContext) pipeline.Outcome {
	target := doc.Body()
	if s.cfg.Target == api.TargetHead {
		target = doc.Head()
	}
	if target == nil {
		return pipeline.Abort("document has no <%s> element", s.cfg.Target)
	}

	src, err := renderTemplate(s.fragment, doc.TemplateData())
	if err != nil {
		return pipeline.Fail(err)
	}

	nodes, err := html.ParseFragment(strings.NewReader(src), target)
	if err != nil {
		return pipeline.Fail(fmt.Errorf("parsing fragment: %w", err))
	}

	if s.cfg.Position == api.PositionStart {
		prependNodes(target, nodes)
	} else {
		for _, n := range nodes {
			target.AppendChild(n)
		}
	}
	return pipeline.Continue()
}

func prependNodes(parent *html.Node, nodes []*html.Node) {
	first := parent.FirstChild
	for _, n := range nodes {
		if first == nil {
			parent.AppendChild(n)
		} else {
			parent.InsertBefore(n, first)
		}
	}
}
