package steps

import (
	"golang.org/x/net/html/atom"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

type renameStep struct {
	name string
	cfg  *api.RenameConfig
}

// NewRenameStep creates a step that renames elements, keeping their
// attributes and children.
func NewRenameStep(name string, cfg *api.RenameConfig) pipeline.Step {
	return &renameStep{name: name, cfg: cfg}
}

func (s *renameStep) Name() string { return s.name }

func (s *renameStep) Apply(doc *pipeline.Document, _ *pipeline.RunContext) pipeline.Outcome {
	to := atom.Lookup([]byte(s.cfg.To))
	for _, n := range doc.Find(s.cfg.From) {
		n.Data = s.cfg.To
		n.DataAtom = to
	}
	return pipeline.Continue()
}
