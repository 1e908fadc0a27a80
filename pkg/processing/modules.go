package processing

import (
	"fmt"
	"log/slog"

	"github.com/systemstart/easy-amplify/pkg/api"
	"github.com/systemstart/easy-amplify/pkg/pipeline"
	"github.com/systemstart/easy-amplify/pkg/steps"
)

const opLoadStepModule = "load step module"

// LoadStepModule resolves a step source identifier to an ordered step
// sequence. Names registered in reg win over paths; anything else is a step
// file path or glob whose files are concatenated in order. An empty ref
// yields no steps. Failures are configuration errors.
func LoadStepModule(ref string, reg *pipeline.Registry) ([]pipeline.Step, error) {
	if ref == "" {
		return nil, nil
	}

	if reg != nil {
		list, ok, err := reg.Lookup(ref)
		if err != nil {
			return nil, api.ConfigurationError(opLoadStepModule, ref, err)
		}
		if ok {
			slog.Debug("using registered step set", "name", ref, "steps", len(list))
			return list, nil
		}
	}

	files, err := DiscoverStepFiles(ref)
	if err != nil {
		return nil, api.ConfigurationError(opLoadStepModule, ref, err)
	}
	if len(files) == 0 {
		return nil, api.ConfigurationError(opLoadStepModule, ref, fmt.Errorf("no step files match"))
	}

	var list []pipeline.Step
	for _, f := range files {
		sf, err := api.LoadStepFile(f)
		if err != nil {
			return nil, err
		}
		fileSteps, err := steps.FromFile(sf)
		if err != nil {
			return nil, api.ConfigurationError(opLoadStepModule, f, err)
		}
		slog.Debug("loaded step file", "path", sf.FilePath, "steps", len(fileSteps))
		list = append(list, fileSteps...)
	}

	if err := pipeline.CheckSteps(list); err != nil {
		return nil, api.ConfigurationError(opLoadStepModule, ref, err)
	}
	return list, nil
}
