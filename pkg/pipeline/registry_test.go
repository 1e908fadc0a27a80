package pipeline

import (
	"slices"
	"strings"
	"testing"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("minimal", func() []Step { return stepList("a", "b") }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps, ok, err := reg.Lookup("minimal")
	if err != nil || !ok {
		t.Fatalf("Lookup() = ok %v, err %v", ok, err)
	}
	if got := Names(steps); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("unexpected steps: %v", got)
	}

	if _, ok, _ := reg.Lookup("missing"); ok {
		t.Fatal("expected unknown name to be reported as missing")
	}
}

func TestRegistry_RegisterErrors(t *testing.T) {
	reg := NewRegistry()
	valid := func() []Step { return stepList("a") }

	tests := []struct {
		name    string
		set     string
		fn      StepSet
		wantErr string
	}{
		{"empty name", "", valid, "name is required"},
		{"nil constructor", "x", nil, "constructor is nil"},
		{"empty set", "x", func() []Step { return nil }, "empty"},
		{"nil step", "x", func() []Step { return []Step{nil} }, "is nil"},
		{"typed nil step", "x", func() []Step { return []Step{(*funcStep)(nil)} }, "is invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.set, tt.fn)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Register() error = %v, want %q", err, tt.wantErr)
			}
		})
	}

	if err := reg.Register("dup", valid); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("dup", valid); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if got := reg.Names(); !slices.Equal(got, []string{"dup"}) {
		t.Fatalf("Names() = %v", got)
	}
}
