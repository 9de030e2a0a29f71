package rules

import (
	"fmt"
	"path/filepath"

	"github.com/modguard/modguard/internal/domain"
)

// fileSizeCheck flags non-generated source files exceeding MaxLines.
type fileSizeCheck struct {
	MaxLines int
}

func (c fileSizeCheck) Evaluate(mod *domain.Module) Outcome {
	var violating []string
	for _, f := range mod.Files {
		if f.IsDir || f.IsGenerated {
			continue
		}
		rel := filepath.ToSlash(f.RelativePath)
		if !isSourceFile(rel) {
			continue
		}

		lines := f.Lines
		if lines == 0 {
			data, err := readCapped(filepath.Join(mod.Path, rel))
			if err != nil {
				continue
			}
			lines = countLines(data)
		}
		if lines > c.MaxLines {
			violating = append(violating, fmt.Sprintf("%s (%d lines)", rel, lines))
		}
	}

	if len(violating) == 0 {
		return pass(fmt.Sprintf("all source files within %d lines", c.MaxLines))
	}

	o := fail(fmt.Sprintf("%d source file(s) exceed %d lines", len(violating), c.MaxLines))
	o.Context = map[string]any{"violating_files": violating, "max_lines": c.MaxLines}
	return o
}
