package rules

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/modguard/modguard/internal/domain"
)

// buildConfigCandidates are recognized type/build configuration files.
var buildConfigCandidates = []string{"tsconfig.json", "jsconfig.json"}

// optionsBlocks are the keys that mark a recognizable options block.
var optionsBlocks = []string{"compilerOptions", "options"}

// buildConfigCheck requires a build configuration file containing a
// recognizable options block.
type buildConfigCheck struct{}

func (buildConfigCheck) Evaluate(mod *domain.Module) Outcome {
	var found *domain.ModuleFile
	for _, name := range buildConfigCandidates {
		if f := findRootFile(mod, name); f != nil {
			found = f
			break
		}
	}
	if found == nil {
		return fail(fmt.Sprintf("no build configuration file (looked for %v)", buildConfigCandidates))
	}

	data, err := readCapped(filepath.Join(mod.Path, found.RelativePath))
	if err != nil {
		o := fail(fmt.Sprintf("%s unreadable: %v", found.RelativePath, err))
		o.FilePath = found.RelativePath
		return o
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return Outcome{
			Status:   domain.StatusPartial,
			Message:  fmt.Sprintf("%s is not valid JSON: %v", found.RelativePath, err),
			FilePath: found.RelativePath,
		}
	}

	for _, key := range optionsBlocks {
		if _, ok := doc[key]; ok {
			o := pass(fmt.Sprintf("%s contains a %s block", found.RelativePath, key))
			o.FilePath = found.RelativePath
			return o
		}
	}

	return Outcome{
		Status:   domain.StatusPartial,
		Message:  fmt.Sprintf("%s has no recognizable options block (expected one of %v)", found.RelativePath, optionsBlocks),
		FilePath: found.RelativePath,
	}
}
