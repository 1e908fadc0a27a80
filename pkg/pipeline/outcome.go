package pipeline

import "fmt"

// OutcomeKind classifies the result of one step execution.
type OutcomeKind int

const (
	KindContinue OutcomeKind = iota
	KindWarn
	KindAbort
)

func (k OutcomeKind) String() string {
	switch k {
	case KindContinue:
		return "continue"
	case KindWarn:
		return "warn"
	case KindAbort:
		return "abort"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of one step execution.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

// Continue reports success.
func Continue() Outcome { return Outcome{Kind: KindContinue} }

// Warn reports a recoverable issue. The pipeline proceeds and the step's
// document mutations are kept.
func Warn(format string, args ...any) Outcome {
	return Outcome{Kind: KindWarn, Message: fmt.Sprintf(format, args...)}
}

// Abort reports a fatal issue. The pipeline halts after this step.
func Abort(format string, args ...any) Outcome {
	return Outcome{Kind: KindAbort, Message: fmt.Sprintf(format, args...)}
}

// Fail aborts with the text of err.
func Fail(err error) Outcome {
	if err == nil {
		return Outcome{Kind: KindAbort, Message: "unknown error"}
	}
	return Outcome{Kind: KindAbort, Message: err.Error()}
}

func (o Outcome) String() string {
	if o.Message == "" {
		return o.Kind.String()
	}
	return o.Kind.String() + ": " + o.Message
}
