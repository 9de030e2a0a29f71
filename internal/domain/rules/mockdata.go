package rules

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/modguard/modguard/internal/domain"
)

var mockPattern = regexp.MustCompile(`(?i)\b(mock|fake|dummy|placeholder)\b`)

// mockDataCheck flags mock/fake/dummy/placeholder patterns in production
// sources. Files under conventional test naming are exempt.
type mockDataCheck struct{}

func (mockDataCheck) Evaluate(mod *domain.Module) Outcome {
	var violating []string
	for _, f := range mod.Files {
		if f.IsDir || f.IsGenerated {
			continue
		}
		rel := filepath.ToSlash(f.RelativePath)
		if !isSourceFile(rel) || isTestPath(rel) {
			continue
		}

		if mockPattern.MatchString(filepath.Base(rel)) {
			violating = append(violating, rel)
			continue
		}

		data, err := readCapped(filepath.Join(mod.Path, rel))
		if err != nil {
			continue
		}
		if mockPattern.Match(data) {
			violating = append(violating, rel)
		}
	}

	if len(violating) == 0 {
		return pass("no mock data patterns in production sources")
	}

	o := fail(fmt.Sprintf("%d file(s) contain mock data patterns", len(violating)))
	o.FilePath = violating[0]
	o.Context = map[string]any{"violating_files": violating}
	return o
}
