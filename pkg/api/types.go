package api

const (
	DefaultMaxStyleBytes = 75000

	StepTypeReplace         = "replace"
	StepTypeRemove          = "remove"
	StepTypeRename          = "rename"
	StepTypeStripAttributes = "stripAttributes"
	StepTypeSetAttribute    = "setAttribute"
	StepTypeInsert          = "insert"
	StepTypeMergeStyles     = "mergeStyles"
	StepTypeBoilerplate     = "boilerplate"

	TargetHead = "head"
	TargetBody = "body"

	PositionStart = "start"
	PositionEnd   = "end"
)

// StepFile is the YAML step module format.
type StepFile struct {
	Steps []StepConfig `yaml:"steps"`

	// Set by the loader, not from YAML.
	FilePath string `yaml:"-"`
}

// StepConfig defines a single step within a step file.
type StepConfig struct {
	Name            string                 `yaml:"name"`
	Type            string                 `yaml:"type"`
	Replace         *ReplaceConfig         `yaml:"replace,omitempty"`
	Remove          *RemoveConfig          `yaml:"remove,omitempty"`
	Rename          *RenameConfig          `yaml:"rename,omitempty"`
	StripAttributes *StripAttributesConfig `yaml:"stripAttributes,omitempty"`
	SetAttribute    *SetAttributeConfig    `yaml:"setAttribute,omitempty"`
	Insert          *InsertConfig          `yaml:"insert,omitempty"`
	MergeStyles     *MergeStylesConfig     `yaml:"mergeStyles,omitempty"`
	Boilerplate     *BoilerplateConfig     `yaml:"boilerplate,omitempty"`
}

// AttrMatch selects elements carrying an attribute. Value compares case
// insensitively, Prefix matches the start of the value; with neither set the
// attribute only has to be present.
type AttrMatch struct {
	Name   string `yaml:"name"`
	Value  string `yaml:"value"`
	Prefix string `yaml:"prefix"`
}

// ReplaceConfig configures the replace step.
type ReplaceConfig struct {
	Pattern         string `yaml:"pattern"`
	Replacement     string `yaml:"replacement"`
	WarnIfUnmatched bool   `yaml:"warnIfUnmatched"`
}

// RemoveConfig configures the remove step.
type RemoveConfig struct {
	Tags []string    `yaml:"tags"`
	Keep []AttrMatch `yaml:"keep"`
	Warn bool        `yaml:"warn"`
}

// RenameConfig configures the rename step.
type RenameConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// StripAttributesConfig configures the stripAttributes step.
type StripAttributesConfig struct {
	Patterns []string `yaml:"patterns"`
	Warn     bool     `yaml:"warn"`
}

// SetAttributeConfig configures the setAttribute step.
type SetAttributeConfig struct {
	Tag       string `yaml:"tag"`
	Attribute string `yaml:"attribute"`
	Value     string `yaml:"value"`
}

// InsertConfig configures the insert step.
type InsertConfig struct {
	Target   string `yaml:"target"`   // head or body
	Position string `yaml:"position"` // start or end, default end
	Template string `yaml:"template"`
}

// MergeStylesConfig configures the mergeStyles step.
type MergeStylesConfig struct {
	MaxBytes         int  `yaml:"maxBytes"`         // default DefaultMaxStyleBytes
	KeepLinkedStyles bool `yaml:"keepLinkedStyles"` // keep <link rel=stylesheet> instead of dropping it
}

// BoilerplateConfig configures the boilerplate step.
type BoilerplateConfig struct {
	Canonical string `yaml:"canonical"` // overrides the document URL as canonical target
	Viewport  string `yaml:"viewport"`
}
