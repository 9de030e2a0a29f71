package application

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Remediation templates for the built-in auto-fixable rules.

func fixManifest(modulePath string) ([]fileChange, error) {
	name := filepath.Base(modulePath)
	manifest := map[string]any{
		"name":    name,
		"version": "0.1.0",
		"scripts": map[string]string{
			"build": "echo \"no build step configured\" && exit 1",
			"test":  "echo \"no tests configured\" && exit 1",
		},
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	}
	return []fileChange{{
		RelPath:     "package.json",
		Content:     append(data, '\n'),
		Description: fmt.Sprintf("created templated manifest for %s", name),
	}}, nil
}

func fixReadme(modulePath string) ([]fileChange, error) {
	name := filepath.Base(modulePath)
	content := fmt.Sprintf("# %s\n\nDescribe what this module does, how to build it, and how to run its tests.\n", name)
	return []fileChange{{
		RelPath:     "README.md",
		Content:     []byte(content),
		Description: "created minimal README.md",
	}}, nil
}

func fixIgnoreFile(modulePath string) ([]fileChange, error) {
	content := "node_modules/\ndist/\nbuild/\ncoverage/\n*.log\n.env\n.modguard/\n"
	return []fileChange{{
		RelPath:     ".gitignore",
		Content:     []byte(content),
		Description: "created conventional .gitignore",
	}}, nil
}

func fixTestDirectory(modulePath string) ([]fileChange, error) {
	content := "describe('smoke', () => {\n  it('placeholder until real tests exist', () => {});\n});\n"
	return []fileChange{{
		RelPath:     filepath.Join("tests", "smoke.test.js"),
		Content:     []byte(content),
		Description: "created tests/ directory with a smoke test stub",
	}}, nil
}

// fixBuildScript inserts a build entry into the existing manifest's scripts
// block, preserving all other fields.
func fixBuildScript(modulePath string) ([]fileChange, error) {
	manifestPath := filepath.Join(modulePath, "package.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	scripts, _ := doc["scripts"].(map[string]any)
	if scripts == nil {
		scripts = make(map[string]any)
	}
	if cmd, ok := scripts["build"].(string); ok && cmd != "" {
		return nil, fmt.Errorf("manifest already has a build script")
	}
	scripts["build"] = "echo \"no build step configured\" && exit 1"
	doc["scripts"] = scripts

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return []fileChange{{
		RelPath:     "package.json",
		Content:     append(out, '\n'),
		Description: "added build entry to manifest scripts",
	}}, nil
}
