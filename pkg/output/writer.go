// Package output persists a finished document and its validation report.
package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/systemstart/easy-amplify/pkg/pipeline"
	"github.com/systemstart/easy-amplify/pkg/steps"
	"github.com/systemstart/easy-amplify/pkg/validate"
)

const (
	DefaultRoot = "output"

	PageFilename   = "output.html"
	ReportFilename = "validation.yaml"
)

// Writer writes results below Root.
type Writer struct {
	Root string
}

// NewWriter creates a writer rooted at root, or DefaultRoot when empty.
func NewWriter(root string) *Writer {
	if root == "" {
		root = DefaultRoot
	}
	return &Writer{Root: root}
}

type reportFile struct {
	URL         string             `yaml:"url"`
	State       string             `yaml:"state"`
	Succeeded   bool               `yaml:"succeeded"`
	Valid       bool               `yaml:"valid"`
	Steps       []stepEntry        `yaml:"steps"`
	Findings    []validate.Finding `yaml:"findings"`
	CustomBytes any                `yaml:"customCSSBytes,omitempty"`
}

type stepEntry struct {
	Index   int    `yaml:"index"`
	Name    string `yaml:"name"`
	Outcome string `yaml:"outcome"`
	Message string `yaml:"message,omitempty"`
}

// Write stores doc as <root>/<outputPath>/output.html next to a YAML report
// of the run and its findings, and returns the page path.
func (w *Writer) Write(doc *pipeline.Document, outputPath string, findings []validate.Finding, report pipeline.Report) (string, error) {
	dir := filepath.Join(w.Root, outputPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	content, err := doc.HTML()
	if err != nil {
		return "", err
	}

	pagePath := filepath.Join(dir, PageFilename)
	if err := os.WriteFile(pagePath, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", pagePath, err)
	}

	rf := reportFile{
		URL:         doc.URL(),
		State:       report.State.String(),
		Succeeded:   report.Succeeded,
		Valid:       !validate.HasErrors(findings),
		Findings:    findings,
		CustomBytes: doc.Meta[steps.MetaCustomCSSBytes],
	}
	for _, d := range report.Diagnostics {
		rf.Steps = append(rf.Steps, stepEntry{
			Index:   d.Index,
			Name:    d.Step,
			Outcome: d.Outcome.Kind.String(),
			Message: d.Outcome.Message,
		})
	}

	data, err := yaml.Marshal(rf)
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	reportPath := filepath.Join(dir, ReportFilename)
	if err := os.WriteFile(reportPath, data, 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", reportPath, err)
	}

	slog.Info("wrote output", "page", pagePath, "report", reportPath, "findings", len(findings))
	return pagePath, nil
}
