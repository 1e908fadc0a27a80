package pipeline

import (
	"strings"
	"sync/atomic"
	"testing"
)

// fakeStep returns a fixed outcome and counts its applications.
type fakeStep struct {
	name    string
	outcome Outcome
	calls   atomic.Int32
}

func newFakeStep(name string, o Outcome) *fakeStep {
	return &fakeStep{name: name, outcome: o}
}

func (s *fakeStep) Name() string { return s.name }

func (s *fakeStep) Apply(*Document, *RunContext) Outcome {
	s.calls.Add(1)
	return s.outcome
}

// parseTestDocument parses src, failing the test on error.
func parseTestDocument(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := ParseDocument("http://127.0.0.1:8080/page", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}
