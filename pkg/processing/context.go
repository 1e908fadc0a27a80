package processing

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadMetaFile reads a YAML file of initial document metadata.
func LoadMetaFile(filename string) (map[string]any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading meta file: %w", err)
	}

	var meta map[string]any
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing meta file: %w", err)
	}

	if meta == nil {
		meta = make(map[string]any)
	}

	return meta, nil
}

// MergeMeta performs a shallow merge of override over base.
// Override keys replace base keys at the top level.
func MergeMeta(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(override))
	maps.Copy(merged, base)
	maps.Copy(merged, override)
	return merged
}
