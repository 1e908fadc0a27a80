package steps

import (
	"fmt"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
)

// DefaultSetName is the registry name of the default step list.
const DefaultSetName = "default"

// DefaultConfigs returns the configuration of the default step list.
func DefaultConfigs() []api.StepConfig {
	return []api.StepConfig{
		{Name: "amp-boilerplate", Type: api.StepTypeBoilerplate},
		{
			Name: "remove-scripts",
			Type: api.StepTypeRemove,
			Remove: &api.RemoveConfig{
				Tags: []string{"script"},
				Keep: []api.AttrMatch{
					{Name: "type", Value: "application/ld+json"},
					{Name: "src", Prefix: RuntimeURLPrefix},
				},
				Warn: true,
			},
		},
		{
			Name: "remove-disallowed-elements",
			Type: api.StepTypeRemove,
			Remove: &api.RemoveConfig{
				Tags: []string{"frame", "frameset", "object", "embed", "applet", "param"},
				Warn: true,
			},
		},
		{Name: "amp-img", Type: api.StepTypeRename, Rename: &api.RenameConfig{From: "img", To: "amp-img"}},
		{Name: "amp-iframe", Type: api.StepTypeRename, Rename: &api.RenameConfig{From: "iframe", To: "amp-iframe"}},
		{Name: "amp-video", Type: api.StepTypeRename, Rename: &api.RenameConfig{From: "video", To: "amp-video"}},
		{Name: "amp-audio", Type: api.StepTypeRename, Rename: &api.RenameConfig{From: "audio", To: "amp-audio"}},
		{
			Name: "strip-disallowed-attributes",
			Type: api.StepTypeStripAttributes,
			StripAttributes: &api.StripAttributesConfig{
				Patterns: []string{"style", "on?*"},
				Warn:     true,
			},
		},
		{Name: "merge-styles", Type: api.StepTypeMergeStyles},
	}
}

// Defaults builds the default step list. It is a fresh value on every call
// and is passed to the resolver explicitly.
func Defaults() []pipeline.Step {
	configs := DefaultConfigs()
	list := make([]pipeline.Step, 0, len(configs))
	for _, cfg := range configs {
		step, err := NewStep(cfg)
		if err != nil {
			panic(fmt.Sprintf("invalid default step %q: %v", cfg.Name, err))
		}
		list = append(list, step)
	}
	return list
}

// Register adds the built-in step sets to reg.
func Register(reg *pipeline.Registry) error {
	if err := reg.Register(DefaultSetName, Defaults); err != nil {
		return fmt.Errorf("registering built-in steps: %w", err)
	}
	return nil
}
