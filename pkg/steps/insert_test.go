package steps

import (
	"strings"
	"testing"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

func TestInsertStep_Positions(t *testing.T) {
	const pixel = `<amp-pixel src="{{ .URL }}"></amp-pixel>`

	tests := []struct {
		name     string
		target   string
		position string
		template string
		want     string
	}{
		{"body end", api.TargetBody, "", pixel, `<p>existing</p><amp-pixel src="` + testURL + `"></amp-pixel></body>`},
		{"body start", api.TargetBody, api.PositionStart, pixel, `<body><amp-pixel src="` + testURL + `"></amp-pixel><p>existing</p>`},
		{"head end", api.TargetHead, api.PositionEnd, `<link rel="preconnect" href="{{ .URL }}">`, `<title>t</title><link rel="preconnect" href="` + testURL + `"/></head>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, err := NewInsertStep("pixel", &api.InsertConfig{
				Target:   tt.target,
				Position: tt.position,
				Template: tt.template,
			})
			if err != nil {
				t.Fatal(err)
			}

			doc := parseTestDocument(t, `<html><head><title>t</title></head><body><p>existing</p></body></html>`)
			if o := applyTestStep(t, step, doc); o.Kind != pipeline.KindContinue {
				t.Fatalf("unexpected outcome: %s", o)
			}

			out := renderTestDocument(t, doc)
			if !strings.Contains(out, tt.want) {
				t.Fatalf("output %s does not contain %s", out, tt.want)
			}
		})
	}
}

func TestInsertStep_MultipleNodesKeepOrder(t *testing.T) {
	step, err := NewInsertStep("meta", &api.InsertConfig{
		Target:   api.TargetHead,
		Position: api.PositionStart,
		Template: `<meta name="a"><meta name="b">`,
	})
	if err != nil {
		t.Fatal(err)
	}

	doc := parseTestDocument(t, `<head><title>t</title></head>`)
	applyTestStep(t, step, doc)

	out := renderTestDocument(t, doc)
	if !strings.Contains(out, `<head><meta name="a"/><meta name="b"/><title>t</title>`) {
		t.Fatalf("unexpected order: %s", out)
	}
}

func TestInsertStep_TemplateError(t *testing.T) {
	step, err := NewInsertStep("bad", &api.InsertConfig{
		Target:   api.TargetBody,
		Template: `{{ fail "no analytics id" }}`,
	})
	if err != nil {
		t.Fatal(err)
	}

	o := applyTestStep(t, step, parseTestDocument(t, ""))
	if o.Kind != pipeline.KindAbort || !strings.Contains(o.Message, "no analytics id") {
		t.Fatalf("expected abort carrying the template failure, got %s", o)
	}
}
