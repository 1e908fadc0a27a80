package pipeline

// Step is the contract every transformation unit satisfies. Implementations
// hold only immutable configuration so one value can serve concurrent runs.
type Step interface {
	Name() string
	Apply(doc *Document, rc *RunContext) Outcome
}

type funcStep struct {
	name string
	fn   func(doc *Document, rc *RunContext) Outcome
}

// StepFunc adapts a function to the Step interface.
func StepFunc(name string, fn func(doc *Document, rc *RunContext) Outcome) Step {
	return &funcStep{name: name, fn: fn}
}

func (s *funcStep) Name() string { return s.name }

func (s *funcStep) Apply(doc *Document, rc *RunContext) Outcome { return s.fn(doc, rc) }
