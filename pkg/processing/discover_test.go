package processing

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

const validStepFile = `
steps:
  - name: boilerplate
    type: boilerplate
`

func setupStepTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	for _, rel := range []string{"b.yaml", "a.yaml", filepath.Join("extra", "c.yaml"), "notes.txt"} {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(validStepFile), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestDiscoverStepFiles(t *testing.T) {
	root := setupStepTree(t)

	tests := []struct {
		name string
		ref  string
		want []string
	}{
		{"single file", filepath.Join(root, "b.yaml"), []string{"b.yaml"}},
		{"glob", filepath.Join(root, "*.yaml"), []string{"a.yaml", "b.yaml"}},
		{"recursive glob", filepath.Join(root, "**", "*.yaml"), []string{"a.yaml", "b.yaml", filepath.Join("extra", "c.yaml")}},
		{"no match", filepath.Join(root, "*.json"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiscoverStepFiles(tt.ref)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var rel []string
			for _, p := range got {
				r, err := filepath.Rel(root, p)
				if err != nil {
					t.Fatal(err)
				}
				rel = append(rel, r)
			}
			if !slices.Equal(rel, tt.want) {
				t.Fatalf("DiscoverStepFiles() = %v, want %v", rel, tt.want)
			}
		})
	}
}

func TestDiscoverStepFiles_Errors(t *testing.T) {
	root := setupStepTree(t)

	for _, ref := range []string{
		filepath.Join(root, "missing.yaml"),
		filepath.Join(root, "extra"),
		filepath.Join(root, "[.yaml"),
	} {
		if _, err := DiscoverStepFiles(ref); err == nil {
			t.Errorf("DiscoverStepFiles(%q): expected error", ref)
		}
	}
}
