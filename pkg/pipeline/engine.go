package pipeline

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Run executes steps sequentially against doc, recording one Diagnostic per
// executed step. The first Abort, or a step that panics, halts the run. A
// context that has already run is returned unchanged.
func Run(steps []Step, doc *Document, rc *RunContext) *RunContext {
	if !rc.begin() {
		slog.Warn("run context already used, not running steps", "state", rc.State())
		return rc
	}

	for i, step := range steps {
		name := stepName(step)
		slog.Debug("running step", "index", i, "step", name)

		o := applyStep(step, doc, rc)
		if o.Kind != KindContinue {
			slog.Debug("step finished", "index", i, "step", name, "outcome", o.Kind, "message", o.Message)
		}

		if !rc.record(i, name, o) {
			return rc
		}
	}

	rc.finish()
	return rc
}

func applyStep(step Step, doc *Document, rc *RunContext) (o Outcome) {
	if step == nil {
		return Abort("nil step")
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Debug("step panicked", "step", stepName(step), "panic", r, "stack", string(debug.Stack()))
			o = Abort("unexpected failure: %v", r)
		}
	}()

	o = step.Apply(doc, rc)
	switch o.Kind {
	case KindContinue, KindWarn, KindAbort:
		return o
	default:
		return Abort("invalid outcome kind %d", int(o.Kind))
	}
}

func stepName(step Step) string {
	if step == nil {
		return "<nil>"
	}
	if name, ok := nameOf(step); ok {
		return name
	}
	return fmt.Sprintf("%T", step)
}

// nameOf calls step.Name, reporting false when it panics, as a typed nil does.
func nameOf(step Step) (name string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			name, ok = "", false
		}
	}()
	return step.Name(), true
}
