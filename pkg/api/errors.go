package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification. Both are raised before a
// pipeline starts.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrLoad          = errors.New("load error")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindLoad          ErrorKind = "load"
)

// Error wraps an underlying error with operation context and a kind.
type Error struct {
	Kind ErrorKind
	Op   string
	Ref  string // step source, file path or URL involved, optional
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	if e.Ref != "" {
		base += fmt.Sprintf(" (%s)", e.Ref)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindConfiguration:
		return target == ErrConfiguration
	case KindLoad:
		return target == ErrLoad
	}
	return false
}

// ConfigurationError reports a step source that could not be resolved to a
// valid ordered step sequence.
func ConfigurationError(op, ref string, err error) error {
	return &Error{Kind: KindConfiguration, Op: op, Ref: ref, Err: err}
}

// LoadError reports an initial document that could not be obtained.
func LoadError(op, ref string, err error) error {
	return &Error{Kind: KindLoad, Op: op, Ref: ref, Err: err}
}

// IsKind helps callers classify errors without depending on producer packages.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
