package pipeline

import (
	"fmt"
	"slices"
)

// State is the lifecycle position of a run.
type State int

const (
	StatePending State = iota
	StateRunning
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateAborted
}

// Diagnostic records the outcome of one executed step.
type Diagnostic struct {
	Index   int
	Step    string
	Outcome Outcome
}

// AbortError is the fatal error of an aborted run.
type AbortError struct {
	Index   int
	Step    string
	Message string
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("step %d (%s) aborted: %s", e.Index, e.Step, e.Message)
}

// RunContext is the per-invocation configuration and scratch state. It is
// owned by the executor driving the run; steps read it but only report
// through their Outcome.
type RunContext struct {
	OutputPath string
	Verbose    bool

	diagnostics []Diagnostic
	fatal       *AbortError
	state       State
}

// NewRunContext creates a pending run context.
func NewRunContext(outputPath string, verbose bool) *RunContext {
	return &RunContext{OutputPath: outputPath, Verbose: verbose}
}

// Diagnostics returns a copy of the recorded outcomes in execution order.
func (rc *RunContext) Diagnostics() []Diagnostic {
	return slices.Clone(rc.diagnostics)
}

// Fatal returns the abort that ended the run, or nil.
func (rc *RunContext) Fatal() error {
	if rc.fatal == nil {
		return nil
	}
	return rc.fatal
}

// State returns the lifecycle state.
func (rc *RunContext) State() State { return rc.state }

func (rc *RunContext) begin() bool {
	if rc.state != StatePending {
		return false
	}
	rc.state = StateRunning
	return true
}

// record appends one diagnostic and reports whether the run may continue.
func (rc *RunContext) record(index int, name string, o Outcome) bool {
	rc.diagnostics = append(rc.diagnostics, Diagnostic{Index: index, Step: name, Outcome: o})
	if o.Kind != KindAbort {
		return true
	}
	if rc.fatal == nil {
		rc.fatal = &AbortError{Index: index, Step: name, Message: o.Message}
	}
	rc.state = StateAborted
	return false
}

func (rc *RunContext) finish() {
	if rc.state == StateRunning {
		rc.state = StateCompleted
	}
}
