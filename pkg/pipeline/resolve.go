package pipeline

import "fmt"

// Resolve composes the ordered step list for one run. A non-empty override
// replaces defaults entirely; supplemental steps always follow the active
// base list. The result never aliases an input slice.
func Resolve(defaults, override, supplemental []Step) []Step {
	base := defaults
	if len(override) > 0 {
		base = override
	}

	resolved := make([]Step, 0, len(base)+len(supplemental))
	resolved = append(resolved, base...)
	resolved = append(resolved, supplemental...)
	return resolved
}

// CheckSteps rejects sequences that cannot be executed as written.
func CheckSteps(steps []Step) error {
	if len(steps) == 0 {
		return fmt.Errorf("step sequence is empty")
	}
	for i, s := range steps {
		if s == nil {
			return fmt.Errorf("step %d is nil", i)
		}
		name, ok := nameOf(s)
		if !ok {
			return fmt.Errorf("step %d (%T) is invalid", i, s)
		}
		if name == "" {
			return fmt.Errorf("step %d has no name", i)
		}
	}
	return nil
}

// Names returns the step names in order.
func Names(steps []Step) []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, stepName(s))
	}
	return names
}
