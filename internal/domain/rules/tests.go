package rules

import (
	"fmt"

	"github.com/modguard/modguard/internal/domain"
)

// testDirCheck requires one of the conventional test directories to exist
// and contain at least one file.
type testDirCheck struct{}

func (testDirCheck) Evaluate(mod *domain.Module) Outcome {
	for _, name := range testDirNames {
		dir := findRootDir(mod, name)
		if dir == nil {
			continue
		}
		files := filesUnder(mod, name)
		if len(files) == 0 {
			return Outcome{
				Status:   domain.StatusPartial,
				Message:  fmt.Sprintf("test directory %s/ exists but is empty", name),
				FilePath: name,
			}
		}
		o := pass(fmt.Sprintf("test directory %s/ contains %d file(s)", name, len(files)))
		o.FilePath = name
		return o
	}
	return fail(fmt.Sprintf("no test directory found (looked for %v)", testDirNames))
}
