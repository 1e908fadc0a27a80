package processing

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverStepFiles expands a step source path into the step files it names.
// A path without glob meta characters must be an existing file; a glob
// (doublestar syntax, e.g. "custom/**/*.yaml") may match several files,
// returned in lexical order.
func DiscoverStepFiles(ref string) ([]string, error) {
	if !strings.ContainsAny(ref, "*?[{") {
		info, err := os.Stat(ref)
		if err != nil {
			return nil, fmt.Errorf("checking step file: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory, not a step file", ref)
		}
		return []string{ref}, nil
	}

	if !doublestar.ValidatePathPattern(ref) {
		return nil, fmt.Errorf("invalid step file pattern %q", ref)
	}

	matches, err := doublestar.FilepathGlob(ref, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding step file pattern: %w", err)
	}
	slices.Sort(matches)
	return matches, nil
}
