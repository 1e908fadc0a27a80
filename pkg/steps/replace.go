package steps

import (
	"fmt"
	"regexp"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

type replaceStep struct {
	name string
	re   *regexp.Regexp
	cfg  *api.ReplaceConfig
}

// NewReplaceStep creates a step that rewrites the serialized page with a
// regular expression.
func NewReplaceStep(name string, cfg *api.ReplaceConfig) (pipeline.Step, error) {
	re, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern: %w", err)
	}
	return &replaceStep{name: name, re: re, cfg: cfg}, nil
}

func (s *replaceStep) Name() string { return s.name }

func (s *replaceStep) Apply(doc *pipeline.Document, _ *pipeline.RunContext) pipeline.Outcome {
	content, err := doc.HTML()
	if err != nil {
		return pipeline.Fail(err)
	}

	if !s.re.MatchString(content) {
		if s.cfg.WarnIfUnmatched {
			return pipeline.Warn("pattern %q matched nothing", s.cfg.Pattern)
		}
		return pipeline.Continue()
	}

	if err := doc.SetHTML(s.re.ReplaceAllString(content, s.cfg.Replacement)); err != nil {
		return pipeline.Fail(err)
	}
	return pipeline.Continue()
}
