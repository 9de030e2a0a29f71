package rules

import (
	"github.com/modguard/modguard/internal/domain"
)

// ignoreFileCheck requires a .gitignore at the module root.
type ignoreFileCheck struct{}

func (ignoreFileCheck) Evaluate(mod *domain.Module) Outcome {
	if f := findRootFile(mod, ".gitignore"); f != nil {
		o := pass(".gitignore present")
		o.FilePath = f.RelativePath
		return o
	}
	return fail("no .gitignore at module root")
}
