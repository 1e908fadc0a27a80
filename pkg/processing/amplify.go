package processing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
	"github.com/systemstart/easy-amplify/pkg/validate"
)

// Loader produces the initial document for a URL.
type Loader interface {
	Load(ctx context.Context, url string) (*pipeline.Document, error)
}

// Validator inspects a finished document.
type Validator interface {
	Validate(doc *pipeline.Document) []validate.Finding
}

// Writer persists a finished document and returns the written page path.
type Writer interface {
	Write(doc *pipeline.Document, outputPath string, findings []validate.Finding, report pipeline.Report) (string, error)
}

// Options configures one Amplify invocation.
type Options struct {
	URL string

	// Defaults is the base step list used when no override is given.
	Defaults []pipeline.Step
	// OverrideRef names a step source replacing Defaults.
	OverrideRef string
	// SupplementRef names a step source appended after the base list.
	SupplementRef string
	// Registry resolves named step sets before refs are treated as paths.
	Registry *pipeline.Registry

	// Meta seeds Document.Meta after loading.
	Meta map[string]any

	OutputPath string
	Verbose    bool

	Loader    Loader
	Validator Validator
	Writer    Writer
}

// Result is what one invocation produced.
type Result struct {
	Steps      []string
	Report     pipeline.Report
	Findings   []validate.Finding
	OutputFile string
}

// Amplify resolves the step list, loads the page, runs the pipeline and,
// when the run completes, validates and writes the result. Configuration and
// load errors are returned before any step runs. An aborted run is not an
// error: it is reported through Result.Report and produces no output.
func Amplify(ctx context.Context, opts Options) (*Result, error) {
	if opts.Loader == nil {
		return nil, fmt.Errorf("amplify: loader is required")
	}

	ordered, err := ResolveSteps(opts.Defaults, opts.OverrideRef, opts.SupplementRef, opts.Registry)
	if err != nil {
		return nil, err
	}

	doc, err := opts.Loader.Load(ctx, opts.URL)
	if err != nil {
		if !api.IsKind(err, api.KindLoad) {
			err = api.LoadError("load document", opts.URL, err)
		}
		return nil, err
	}
	if len(opts.Meta) > 0 {
		doc.Meta = MergeMeta(opts.Meta, doc.Meta)
	}

	result := &Result{Steps: pipeline.Names(ordered)}

	slog.Info("running pipeline", "url", opts.URL, "steps", len(ordered))
	rc := pipeline.Run(ordered, doc, pipeline.NewRunContext(opts.OutputPath, opts.Verbose))
	result.Report = pipeline.Summarize(rc)

	if rc.State() != pipeline.StateCompleted {
		slog.Warn("pipeline did not complete, skipping validation and output", "state", rc.State())
		return result, nil
	}

	if opts.Validator != nil {
		result.Findings = opts.Validator.Validate(doc)
		slog.Info("validated document", "findings", len(result.Findings), "valid", !validate.HasErrors(result.Findings))
	}

	if opts.Writer != nil {
		path, err := opts.Writer.Write(doc, opts.OutputPath, result.Findings, result.Report)
		if err != nil {
			return result, fmt.Errorf("writing output: %w", err)
		}
		result.OutputFile = path
	}

	return result, nil
}

// ResolveSteps loads the override and supplement sources and composes them
// with defaults.
func ResolveSteps(defaults []pipeline.Step, overrideRef, supplementRef string, reg *pipeline.Registry) ([]pipeline.Step, error) {
	override, err := LoadStepModule(overrideRef, reg)
	if err != nil {
		return nil, err
	}
	if overrideRef != "" {
		slog.Info("using custom steps", "source", overrideRef, "steps", len(override))
	}

	supplemental, err := LoadStepModule(supplementRef, reg)
	if err != nil {
		return nil, err
	}
	if supplementRef != "" {
		slog.Info("appending steps", "source", supplementRef, "steps", len(supplemental))
	}

	ordered := pipeline.Resolve(defaults, override, supplemental)
	if err := pipeline.CheckSteps(ordered); err != nil {
		return nil, api.ConfigurationError("resolve steps", "", err)
	}
	return ordered, nil
}
