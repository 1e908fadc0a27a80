package api

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var validStepTypes = map[string]bool{
	StepTypeReplace:         true,
	StepTypeRemove:          true,
	StepTypeRename:          true,
	StepTypeStripAttributes: true,
	StepTypeSetAttribute:    true,
	StepTypeInsert:          true,
	StepTypeMergeStyles:     true,
	StepTypeBoilerplate:     true,
}

// Validate checks the step file for errors.
func (f *StepFile) Validate() error {
	if len(f.Steps) == 0 {
		return fmt.Errorf("step file has no steps")
	}

	names := make(map[string]int)

	for i, step := range f.Steps {
		if step.Name == "" {
			return fmt.Errorf("step %d: name is required", i)
		}
		if prev, exists := names[step.Name]; exists {
			return fmt.Errorf("step %d: duplicate step name %q (first defined at step %d)", i, step.Name, prev)
		}
		names[step.Name] = i

		if err := step.Validate(); err != nil {
			return fmt.Errorf("step %q: %w", step.Name, err)
		}
	}

	return nil
}

// Validate checks a single step configuration.
func (c StepConfig) Validate() error {
	if !validStepTypes[c.Type] {
		valid := make([]string, 0, len(validStepTypes))
		for k := range validStepTypes {
			valid = append(valid, k)
		}
		slices.Sort(valid)
		return fmt.Errorf("unknown type %q (valid: %s)", c.Type, strings.Join(valid, ", "))
	}

	switch c.Type {
	case StepTypeReplace:
		return validateReplaceConfig(c.Replace)
	case StepTypeRemove:
		return validateRemoveConfig(c.Remove)
	case StepTypeRename:
		return validateRenameConfig(c.Rename)
	case StepTypeStripAttributes:
		return validateStripAttributesConfig(c.StripAttributes)
	case StepTypeSetAttribute:
		return validateSetAttributeConfig(c.SetAttribute)
	case StepTypeInsert:
		return validateInsertConfig(c.Insert)
	case StepTypeMergeStyles:
		if c.MergeStyles != nil && c.MergeStyles.MaxBytes < 0 {
			return fmt.Errorf("mergeStyles.maxBytes must not be negative")
		}
	}
	// boilerplate config is optional
	return nil
}

func validateReplaceConfig(cfg *ReplaceConfig) error {
	if cfg == nil {
		return fmt.Errorf("replace config is required")
	}
	if cfg.Pattern == "" {
		return fmt.Errorf("replace.pattern is required")
	}
	if _, err := regexp.Compile(cfg.Pattern); err != nil {
		return fmt.Errorf("replace.pattern is not a valid regular expression: %w", err)
	}
	return nil
}

func validateRemoveConfig(cfg *RemoveConfig) error {
	if cfg == nil {
		return fmt.Errorf("remove config is required")
	}
	if len(cfg.Tags) == 0 {
		return fmt.Errorf("remove.tags is required")
	}
	for i, k := range cfg.Keep {
		if k.Name == "" {
			return fmt.Errorf("remove.keep[%d].name is required", i)
		}
	}
	return nil
}

func validateRenameConfig(cfg *RenameConfig) error {
	if cfg == nil {
		return fmt.Errorf("rename config is required")
	}
	if cfg.From == "" {
		return fmt.Errorf("rename.from is required")
	}
	if cfg.To == "" {
		return fmt.Errorf("rename.to is required")
	}
	return nil
}

func validateStripAttributesConfig(cfg *StripAttributesConfig) error {
	if cfg == nil {
		return fmt.Errorf("stripAttributes config is required")
	}
	if len(cfg.Patterns) == 0 {
		return fmt.Errorf("stripAttributes.patterns is required")
	}
	for _, p := range cfg.Patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("stripAttributes.patterns: invalid pattern %q", p)
		}
	}
	return nil
}

func validateSetAttributeConfig(cfg *SetAttributeConfig) error {
	if cfg == nil {
		return fmt.Errorf("setAttribute config is required")
	}
	if cfg.Tag == "" {
		return fmt.Errorf("setAttribute.tag is required")
	}
	if cfg.Attribute == "" {
		return fmt.Errorf("setAttribute.attribute is required")
	}
	return nil
}

func validateInsertConfig(cfg *InsertConfig) error {
	if cfg == nil {
		return fmt.Errorf("insert config is required")
	}
	if cfg.Target != TargetHead && cfg.Target != TargetBody {
		return fmt.Errorf("insert.target %q is not valid (valid: %s, %s)", cfg.Target, TargetHead, TargetBody)
	}
	if cfg.Position != "" && cfg.Position != PositionStart && cfg.Position != PositionEnd {
		return fmt.Errorf("insert.position %q is not valid (valid: %s, %s)", cfg.Position, PositionStart, PositionEnd)
	}
	if cfg.Template == "" {
		return fmt.Errorf("insert.template is required")
	}
	return nil
}
