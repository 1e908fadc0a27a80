package api

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const opLoadStepFile = "load step file"

// LoadStepFile reads a YAML step file, sets FilePath, and validates it.
// All failures are configuration errors.
func LoadStepFile(filename string) (*StepFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, ConfigurationError(opLoadStepFile, filename, fmt.Errorf("reading step file: %w", err))
	}

	sf, err := ParseStepFile(data)
	if err != nil {
		return nil, ConfigurationError(opLoadStepFile, filename, err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, ConfigurationError(opLoadStepFile, filename, fmt.Errorf("resolving absolute path: %w", err))
	}
	sf.FilePath = absPath

	return sf, nil
}

// ParseStepFile unmarshals and validates step file content.
func ParseStepFile(data []byte) (*StepFile, error) {
	var sf StepFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing step file: %w", err)
	}

	if err := sf.Validate(); err != nil {
		return nil, fmt.Errorf("validating step file: %w", err)
	}

	return &sf, nil
}
