package rules

import (
	"fmt"
	"path/filepath"

	"github.com/modguard/modguard/internal/domain"
)

// readmeCheck requires a README.md of at least MinLength characters.
type readmeCheck struct {
	MinLength int
}

func (c readmeCheck) Evaluate(mod *domain.Module) Outcome {
	f := findRootFile(mod, "README.md")
	if f == nil {
		return fail("no README.md at module root")
	}

	data, err := readCapped(filepath.Join(mod.Path, f.RelativePath))
	if err != nil {
		o := fail(fmt.Sprintf("README.md unreadable: %v", err))
		o.FilePath = f.RelativePath
		return o
	}

	if len(data) < c.MinLength {
		return Outcome{
			Status:   domain.StatusPartial,
			Message:  fmt.Sprintf("README.md has %d characters, minimum is %d", len(data), c.MinLength),
			FilePath: f.RelativePath,
			Context:  map[string]any{"length": len(data), "min_length": c.MinLength},
		}
	}

	o := pass(fmt.Sprintf("README.md present (%d characters)", len(data)))
	o.FilePath = f.RelativePath
	return o
}
