package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/modguard/modguard/internal/domain"
)

// secretPattern matches credential-like assignments: a key naming a secret
// followed by a quoted literal of plausible length. Heuristic by nature.
var secretPattern = regexp.MustCompile(
	`(?i)(api[_-]?key|secret|password|passwd|token|private[_-]?key)["']?\s*[:=]\s*["'][^"']{8,}["']`)

// configFileNames and configExtensions define which files count as
// configuration for the secret scan.
var configFileNames = map[string]bool{
	"package.json": true,
	".env":         true,
	".npmrc":       true,
}

var configExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
	".ini":  true,
	".env":  true,
}

func isConfigFile(relPath string) bool {
	base := strings.ToLower(filepath.Base(relPath))
	if configFileNames[base] {
		return true
	}
	if strings.HasPrefix(base, ".env.") {
		return true
	}
	return configExtensions[filepath.Ext(base)]
}

// secretsCheck scans configuration files for hard-coded credential-like
// strings.
type secretsCheck struct{}

func (secretsCheck) Evaluate(mod *domain.Module) Outcome {
	var violating []string
	for _, f := range mod.Files {
		if f.IsDir {
			continue
		}
		rel := filepath.ToSlash(f.RelativePath)
		if !isConfigFile(rel) || isTestPath(rel) {
			continue
		}

		data, err := readCapped(filepath.Join(mod.Path, rel))
		if err != nil {
			continue
		}
		if secretPattern.Match(data) {
			violating = append(violating, rel)
		}
	}

	if len(violating) == 0 {
		return pass("no credential-like strings in configuration files")
	}

	o := fail(fmt.Sprintf("%d configuration file(s) contain credential-like strings", len(violating)))
	o.FilePath = violating[0]
	o.Context = map[string]any{"violating_files": violating}
	return o
}
