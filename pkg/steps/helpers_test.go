package steps

import (
	"strings"
	"testing"

	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

const testURL = "https://example.com/article.html"

// parseTestDocument parses src, failing the test on error.
func parseTestDocument(t *testing.T, src string) *pipeline.Document {
	t.Helper()
	doc, err := pipeline.ParseDocument(testURL, strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

// applyTestStep runs a single step and returns its outcome.
func applyTestStep(t *testing.T, step pipeline.Step, doc *pipeline.Document) pipeline.Outcome {
	t.Helper()
	return step.Apply(doc, pipeline.NewRunContext("", false))
}

// renderTestDocument serializes doc, failing the test on error.
func renderTestDocument(t *testing.T, doc *pipeline.Document) string {
	t.Helper()
	out, err := doc.HTML()
	if err != nil {
		t.Fatal(err)
	}
	return out
}
