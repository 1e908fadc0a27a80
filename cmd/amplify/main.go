package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/fetch"
	"github.com/systemstart/easy-amplify/pkg/logging"
	"github.com/systemstart/easy-amplify/pkg/output"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
	"github.com/systemstart/easy-amplify/pkg/processing"
	"github.com/systemstart/easy-amplify/pkg/steps"
	"github.com/systemstart/easy-amplify/pkg/validate"
)

var version = "dev"

const (
	_ = iota
	exitLoggingSetupFailed
	exitDotenvError
	exitLoadMetaFailed
	exitRegistryFailed
	exitConfigurationError
	exitLoadError
	exitPipelineAborted
	exitToolErrors
)

const usageText = `
Usage: amplify -url=URL

Required:
  -url=URL          URL to the page to convert.

Options:
  -steps=REF        Registered step set, step file or glob replacing the default steps.
  -more-steps=REF   Registered step set, step file or glob appended to the active steps.
  -output=PATH      Output path below the output root.
  -verbose          Display every step result and all AMP validation findings.

Examples:
  # Amplify a page and generate results in the output folder.
  amplify -url=http://127.0.0.1:8080

  # Amplify a page and generate results in output/test.
  amplify -url=http://127.0.0.1:8080 -output=test

  # Amplify a page with customized steps.
  amplify -url=http://127.0.0.1:8080 -steps=custom/mysteps.yaml

  # Amplify a page with the default steps plus every step file below custom/.
  amplify -url=http://127.0.0.1:8080 -more-steps='custom/**/*.yaml'

  # Amplify a page and display AMP validation details.
  amplify -url=http://127.0.0.1:8080 -verbose

All options:
`

var (
	pageURL      string
	stepsRef     string
	moreStepsRef string
	outputPath   string
	outputRoot   string
	metaFile     string
	timeout      time.Duration
	verbose      bool
	loggingType  string
	logLevel     string
	showVersion  bool
)

func init() {
	flag.StringVar(
		&pageURL,
		"url",
		"",
		"URL to the page to convert (http, https, file or local path)")
	flag.StringVar(
		&stepsRef,
		"steps",
		"",
		"step set name, step file or glob replacing the default steps")
	flag.StringVar(
		&moreStepsRef,
		"more-steps",
		"",
		"step set name, step file or glob appended to the active steps")
	flag.StringVar(
		&outputPath,
		"output",
		"",
		"output path below the output root")
	flag.StringVar(
		&outputRoot,
		"output-root",
		output.DefaultRoot,
		"output root directory")
	flag.StringVar(
		&metaFile,
		"meta-file",
		"",
		"YAML file seeding document metadata for step templates")
	flag.DurationVar(
		&timeout,
		"timeout",
		fetch.DefaultTimeout,
		"timeout for fetching the page")
	flag.BoolVar(
		&verbose,
		"verbose",
		false,
		"display all step results and validation findings")
	flag.StringVar(
		&loggingType,
		"logging-type",
		"tint",
		"logging type: json, text or tint")
	flag.StringVar(
		&logLevel,
		"log-level",
		"info",
		"logging level: debug, info, warn, error")
	flag.BoolVar(
		&showVersion,
		"version",
		false,
		"print version and exit")

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usageText)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if pageURL == "" {
		flag.CommandLine.SetOutput(os.Stdout)
		flag.Usage()
		os.Exit(0)
	}

	if verbose && logLevel == "info" {
		logLevel = "debug"
	}
	if err := logging.Initialize(os.Stdout, loggingType, logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitLoggingSetupFailed)
	}

	includeEnv()
	meta := loadMeta()
	registry := newRegistry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := processing.Amplify(ctx, processing.Options{
		URL:           pageURL,
		Defaults:      steps.Defaults(),
		OverrideRef:   stepsRef,
		SupplementRef: moreStepsRef,
		Registry:      registry,
		Meta:          meta,
		OutputPath:    outputPath,
		Verbose:       verbose,
		Loader:        fetch.NewLoader(timeout),
		Validator:     validate.New(),
		Writer:        output.NewWriter(outputRoot),
	})
	if err != nil {
		stop()
		exitOnError(err)
	}

	result.Report.Log(slog.Default())
	if !result.Report.Succeeded {
		stop()
		os.Exit(exitPipelineAborted)
	}

	reportFindings(result.Findings)
	slog.Info("done", "output", result.OutputFile, "valid", !validate.HasErrors(result.Findings))
}

func exitOnError(err error) {
	switch {
	case errors.Is(err, api.ErrConfiguration):
		slog.Error("invalid step configuration", "error", err)
		os.Exit(exitConfigurationError)
	case errors.Is(err, api.ErrLoad):
		slog.Error("failed to load page", "url", pageURL, "error", err)
		os.Exit(exitLoadError)
	default:
		slog.Error("amplify failed", "error", err)
		os.Exit(exitToolErrors)
	}
}

func reportFindings(findings []validate.Finding) {
	if len(findings) == 0 {
		slog.Info("AMP validation passed")
		return
	}
	if !verbose {
		slog.Warn("AMP validation reported findings, use -verbose for details", "findings", len(findings))
		return
	}
	for _, f := range findings {
		level := slog.LevelWarn
		if f.Severity == validate.SeverityError {
			level = slog.LevelError
		}
		slog.Log(context.Background(), level, f.Message, "rule", f.Rule, "location", f.Location)
	}
}

func newRegistry() *pipeline.Registry {
	registry := pipeline.NewRegistry()
	if err := steps.Register(registry); err != nil {
		slog.Error("failed to register built-in step sets", "error", err)
		os.Exit(exitRegistryFailed)
	}
	return registry
}

func loadMeta() map[string]any {
	if metaFile == "" {
		return nil
	}

	meta, err := processing.LoadMetaFile(metaFile)
	if err != nil {
		slog.Error("failed to load meta file", "filename", metaFile, "error", err)
		os.Exit(exitLoadMetaFailed)
	}
	return meta
}

func includeEnv() {
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load .env", "error", err)
			os.Exit(exitDotenvError)
		}
		slog.Debug("no .env file found")
	} else {
		slog.Info("using .env file")
	}
}
