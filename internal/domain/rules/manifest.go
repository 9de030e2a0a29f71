package rules

import (
	"fmt"

	"github.com/modguard/modguard/internal/domain"
)

// manifestCheck validates manifest existence and shape.
type manifestCheck struct{}

func (manifestCheck) Evaluate(mod *domain.Module) Outcome {
	f := findRootFile(mod, "package.json")
	if f == nil {
		return fail("no package.json manifest at module root")
	}
	if mod.Manifest == nil {
		o := fail("package.json exists but could not be parsed")
		o.FilePath = f.RelativePath
		return o
	}

	var missing []string
	if mod.Manifest.Name == "" {
		missing = append(missing, "name")
	}
	if mod.Manifest.Version == "" {
		missing = append(missing, "version")
	}
	if len(missing) > 0 {
		o := Outcome{
			Status:   domain.StatusPartial,
			Message:  fmt.Sprintf("manifest is missing required fields: %v", missing),
			FilePath: f.RelativePath,
			Context:  map[string]any{"missing_fields": missing},
		}
		return o
	}

	return pass(fmt.Sprintf("manifest declares %s@%s", mod.Manifest.Name, mod.Manifest.Version))
}

// buildScriptCheck requires a build entry in the manifest scripts block.
type buildScriptCheck struct{}

func (buildScriptCheck) Evaluate(mod *domain.Module) Outcome {
	if mod.Manifest == nil {
		return fail("no parseable manifest to declare a build script in")
	}
	if cmd, ok := mod.Manifest.Scripts["build"]; ok && cmd != "" {
		return pass("manifest declares a build script")
	}
	o := fail("manifest has no scripts.build entry")
	o.FilePath = "package.json"
	return o
}
