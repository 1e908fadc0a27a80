package steps

import (
	"fmt"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

// NewStep creates a Step implementation from a StepConfig. Patterns and
// templates are compiled here so a bad step file fails before any run.
func NewStep(cfg api.StepConfig) (pipeline.Step, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("step name is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("step %q: %w", cfg.Name, err)
	}

	switch cfg.Type {
	case api.StepTypeReplace:
		return NewReplaceStep(cfg.Name, cfg.Replace)
	case api.StepTypeRemove:
		return NewRemoveStep(cfg.Name, cfg.Remove), nil
	case api.StepTypeRename:
		return NewRenameStep(cfg.Name, cfg.Rename), nil
	case api.StepTypeStripAttributes:
		return NewStripAttributesStep(cfg.Name, cfg.StripAttributes), nil
	case api.StepTypeSetAttribute:
		return NewSetAttributeStep(cfg.Name, cfg.SetAttribute)
	case api.StepTypeInsert:
		return NewInsertStep(cfg.Name, cfg.Insert)
	case api.StepTypeMergeStyles:
		return NewMergeStylesStep(cfg.Name, cfg.MergeStyles), nil
	case api.StepTypeBoilerplate:
		return NewBoilerplateStep(cfg.Name, cfg.Boilerplate), nil
	default:
		return nil, fmt.Errorf("unknown step type: %s", cfg.Type)
	}
}

// FromFile builds the ordered steps of a loaded step file.
func FromFile(f *api.StepFile) ([]pipeline.Step, error) {
	list := make([]pipeline.Step, 0, len(f.Steps))
	for _, cfg := range f.Steps {
		step, err := NewStep(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating step %q: %w", cfg.Name, err)
		}
		list = append(list, step)
	}
	return list, nil
}
