package processing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/fetch"
	"github.com/systemstart/easy-amplify/pkg/output"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
	"github.com/systemstart/easy-amplify/pkg/steps"
	"github.com/systemstart/easy-amplify/pkg/validate"
)

const samplePage = `<!doctype html>
<html lang="en">
<head>
<title>Sample</title>
<style>h1{font-size:2em}</style>
<script src="/app.js"></script>
</head>
<body>
<h1 style="color:red">Hello</h1>
<img src="hero.png" width="640" height="360">
</body>
</html>`

type stubLoader struct {
	doc   string
	err   error
	calls int
}

func (l *stubLoader) Load(_ context.Context, url string) (*pipeline.Document, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return pipeline.ParseDocument(url, strings.NewReader(l.doc))
}

type recordingValidator struct {
	calls int
}

func (v *recordingValidator) Validate(doc *pipeline.Document) []validate.Finding {
	v.calls++
	return validate.New().Validate(doc)
}

type recordingWriter struct {
	calls int
	path  string
}

func (w *recordingWriter) Write(_ *pipeline.Document, outputPath string, _ []validate.Finding, _ pipeline.Report) (string, error) {
	w.calls++
	w.path = outputPath
	return filepath.Join("out", outputPath, output.PageFilename), nil
}

func TestAmplify_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	pagePath := filepath.Join(dir, "page.html")
	if err := os.WriteFile(pagePath, []byte(samplePage), 0o600); err != nil {
		t.Fatal(err)
	}
	root := filepath.Join(dir, "output")

	result, err := Amplify(context.Background(), Options{
		URL:        pagePath,
		Defaults:   steps.Defaults(),
		Registry:   testRegistry(t),
		OutputPath: "test",
		Loader:     fetch.NewLoader(0),
		Validator:  validate.New(),
		Writer:     output.NewWriter(root),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Report.Succeeded {
		t.Fatalf("pipeline failed: %s", result.Report.Message)
	}
	if validate.HasErrors(result.Findings) {
		t.Fatalf("converted page is not valid: %v", result.Findings)
	}
	if result.OutputFile != filepath.Join(root, "test", output.PageFilename) {
		t.Errorf("unexpected output file %q", result.OutputFile)
	}

	content, err := os.ReadFile(result.OutputFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "<amp-img") || strings.Contains(string(content), "/app.js") {
		t.Errorf("unexpected output:\n%s", content)
	}
	if len(result.Report.Entries) == 0 {
		t.Error("expected visible warnings for removed script and attributes")
	}
}

func TestAmplify_OverrideAndSupplement(t *testing.T) {
	dir := t.TempDir()
	override := writeStepFile(t, dir, "custom.yaml", `
steps:
  - name: only-boilerplate
    type: boilerplate
`)
	more := writeStepFile(t, dir, "more.yaml", `
steps:
  - name: mark
    type: setAttribute
    setAttribute: {tag: body, attribute: data-amplified, value: "{{ .Meta.build }}"}
`)

	w := &recordingWriter{}
	result, err := Amplify(context.Background(), Options{
		URL:           "http://127.0.0.1:8080",
		Defaults:      steps.Defaults(),
		OverrideRef:   override,
		SupplementRef: more,
		Meta:          map[string]any{"build": "42"},
		OutputPath:    "custom",
		Loader:        &stubLoader{doc: samplePage},
		Writer:        w,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(result.Steps, ","); got != "only-boilerplate,mark" {
		t.Fatalf("unexpected resolved steps %s", got)
	}
	if w.calls != 1 || w.path != "custom" {
		t.Errorf("writer calls = %d, path = %q", w.calls, w.path)
	}
	if len(result.Findings) != 0 {
		t.Error("no validator configured, expected no findings")
	}
}

func TestAmplify_AbortSkipsValidationAndOutput(t *testing.T) {
	v := &recordingValidator{}
	w := &recordingWriter{}
	defaults := []pipeline.Step{
		pipeline.StepFunc("ok", func(*pipeline.Document, *pipeline.RunContext) pipeline.Outcome { return pipeline.Warn("first") }),
		pipeline.StepFunc("broken", func(*pipeline.Document, *pipeline.RunContext) pipeline.Outcome { return pipeline.Abort("x") }),
	}

	result, err := Amplify(context.Background(), Options{
		URL:       "http://127.0.0.1:8080",
		Defaults:  defaults,
		Loader:    &stubLoader{doc: samplePage},
		Validator: v,
		Writer:    w,
	})
	if err != nil {
		t.Fatalf("abort must not be returned as error: %v", err)
	}
	if result.Report.Succeeded || result.Report.State != pipeline.StateAborted {
		t.Fatalf("unexpected report: %+v", result.Report)
	}
	if !strings.Contains(result.Report.Message, "x") || len(result.Report.Entries) != 2 {
		t.Errorf("expected the abort and the earlier warning, got %+v", result.Report.Entries)
	}
	if v.calls != 0 || w.calls != 0 || result.OutputFile != "" {
		t.Errorf("validator calls %d, writer calls %d after abort", v.calls, w.calls)
	}
}

func TestAmplify_PreRunErrors(t *testing.T) {
	t.Run("configuration", func(t *testing.T) {
		loader := &stubLoader{doc: samplePage}
		_, err := Amplify(context.Background(), Options{
			URL:         "http://127.0.0.1:8080",
			Defaults:    steps.Defaults(),
			OverrideRef: "/nonexistent/steps.yaml",
			Loader:      loader,
		})
		if !errors.Is(err, api.ErrConfiguration) {
			t.Fatalf("expected configuration error, got %v", err)
		}
		if loader.calls != 0 {
			t.Error("document must not be loaded after a configuration error")
		}
	})

	t.Run("load", func(t *testing.T) {
		_, err := Amplify(context.Background(), Options{
			URL:      "http://127.0.0.1:8080",
			Defaults: steps.Defaults(),
			Loader:   &stubLoader{err: errors.New("connection refused")},
		})
		if !errors.Is(err, api.ErrLoad) {
			t.Fatalf("expected load error, got %v", err)
		}
	})

	t.Run("no steps", func(t *testing.T) {
		_, err := Amplify(context.Background(), Options{
			URL:    "http://127.0.0.1:8080",
			Loader: &stubLoader{doc: samplePage},
		})
		if !errors.Is(err, api.ErrConfiguration) {
			t.Fatalf("expected configuration error, got %v", err)
		}
	})

	t.Run("no loader", func(t *testing.T) {
		if _, err := Amplify(context.Background(), Options{Defaults: steps.Defaults()}); err == nil {
			t.Fatal("expected error without loader")
		}
	})
}
