package steps

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

type removeStep struct {
	name string
	cfg  *api.RemoveConfig
}

// NewRemoveStep creates a step that deletes elements by tag name.
func NewRemoveStep(name string, cfg *api.RemoveConfig) pipeline.Step {
	return &removeStep{name: name, cfg: cfg}
}

func (s *removeStep) Name() string { return s.name }

func (s *removeStep) Apply(doc *pipeline.Document, _ *pipeline.RunContext) pipeline.Outcome {
	var doomed []*html.Node
	pipeline.Walk(doc.Root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || !slices.Contains(s.cfg.Tags, n.Data) {
			return true
		}
		if matchesAny(n, s.cfg.Keep) {
			return true
		}
		doomed = append(doomed, n)
		return false
	})

	removed := make(map[string]int)
	for _, n := range doomed {
		n.Parent.RemoveChild(n)
		removed[n.Data]++
	}

	slog.Debug("removed elements", "step", s.name, "count", len(doomed))

	if s.cfg.Warn && len(doomed) > 0 {
		return pipeline.Warn("removed %d element(s): %s", len(doomed), countSummary(removed))
	}
	return pipeline.Continue()
}

func matchesAny(n *html.Node, matches []api.AttrMatch) bool {
	for _, m := range matches {
		v, ok := pipeline.Attr(n, m.Name)
		if !ok {
			continue
		}
		switch {
		case m.Value != "":
			if strings.EqualFold(strings.TrimSpace(v), m.Value) {
				return true
			}
		case m.Prefix != "":
			if strings.HasPrefix(v, m.Prefix) {
				return true
			}
		default:
			return true
		}
	}
	return false
}

// countSummary renders counts as "a=1, b=2" with keys sorted.
func countSummary(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strconv.Itoa(counts[k]))
	}
	return strings.Join(parts, ", ")
}
