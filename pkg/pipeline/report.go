package pipeline

import (
	"fmt"
	"log/slog"
	"strings"
)

// Report is the caller-facing summary of a run.
type Report struct {
	State     State
	Succeeded bool
	// Message is the aborting step's message, empty unless aborted.
	Message string
	// Diagnostics holds every recorded outcome in order.
	Diagnostics []Diagnostic
	// Entries holds what is shown to the user: everything when verbose,
	// otherwise warnings and aborts only.
	Entries []Diagnostic
}

// Summarize builds the report for rc.
func Summarize(rc *RunContext) Report {
	all := rc.Diagnostics()
	r := Report{
		State:       rc.State(),
		Succeeded:   rc.Fatal() == nil,
		Diagnostics: all,
	}
	if rc.fatal != nil {
		r.Message = rc.fatal.Message
	}

	for _, d := range all {
		if rc.Verbose || d.Outcome.Kind != KindContinue {
			r.Entries = append(r.Entries, d)
		}
	}
	return r
}

// Counts returns the number of warnings and aborts recorded.
func (r Report) Counts() (warnings, aborts int) {
	for _, d := range r.Diagnostics {
		switch d.Outcome.Kind {
		case KindWarn:
			warnings++
		case KindAbort:
			aborts++
		}
	}
	return warnings, aborts
}

// Log emits the visible entries through logger.
func (r Report) Log(logger *slog.Logger) {
	for _, d := range r.Entries {
		attrs := []any{"index", d.Index, "step", d.Step}
		switch d.Outcome.Kind {
		case KindContinue:
			logger.Info("step succeeded", attrs...)
		case KindWarn:
			logger.Warn(d.Outcome.Message, attrs...)
		case KindAbort:
			logger.Error(d.Outcome.Message, attrs...)
		}
	}

	warnings, _ := r.Counts()
	if r.Succeeded {
		logger.Info("pipeline completed", "steps", len(r.Diagnostics), "warnings", warnings)
	} else {
		logger.Error("pipeline aborted", "steps", len(r.Diagnostics), "warnings", warnings, "error", r.Message)
	}
}

func (r Report) String() string {
	var b strings.Builder
	for _, d := range r.Entries {
		fmt.Fprintf(&b, "[%d] %s: %s\n", d.Index, d.Step, d.Outcome)
	}
	if r.Succeeded {
		fmt.Fprintf(&b, "%s: %d step(s)\n", r.State, len(r.Diagnostics))
	} else {
		fmt.Fprintf(&b, "%s: %s\n", r.State, r.Message)
	}
	return b.String()
}
