package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modguard/modguard/internal/adapters/inbound/cli"
	"github.com/modguard/modguard/internal/domain"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		abs := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	return root
}

func compliantFiles() map[string]string {
	return map[string]string{
		"package.json":          `{"name":"billing-service","version":"1.0.0","scripts":{"build":"tsc","test":"jest"}}`,
		"README.md":             "# billing-service\n\nHandles invoice generation and payment reconciliation.\n",
		"tsconfig.json":         `{"compilerOptions":{"strict":true}}`,
		".gitignore":            "node_modules/\ndist/\n",
		"src/index.ts":          "export const add = (a: number, b: number): number => a + b;\n",
		"tests/billing.test.ts": "test('adds', () => { expect(1 + 1).toBe(2); });\n",
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "modguard")
}

func TestValidateCommand_JSON(t *testing.T) {
	root := writeModule(t, compliantFiles())

	out, err := runCommand(t, "validate", root, "--json", "--no-history")
	require.NoError(t, err)

	var report domain.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 100, report.OverallScore)
	assert.Equal(t, domain.StatusPass, report.Status)
	assert.Equal(t, "billing-service", report.ModuleName)
	assert.Len(t, report.Results, 9)
}

func TestValidateCommand_RecordsHistory(t *testing.T) {
	root := writeModule(t, compliantFiles())

	_, err := runCommand(t, "validate", root, "--json")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, ".modguard", "history", "reports.json"))
}

func TestValidateCommand_CIModeFailsBelowMin(t *testing.T) {
	files := compliantFiles()
	delete(files, "README.md")
	delete(files, "tests/billing.test.ts")
	root := writeModule(t, files)

	_, err := runCommand(t, "validate", root, "--ci", "--min", "95", "--no-history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below minimum")
}

func TestValidateCommand_RuleFilterFlags(t *testing.T) {
	root := writeModule(t, compliantFiles())

	out, err := runCommand(t, "validate", root, "--json", "--no-history", "--rules", "DOC-001,CFG-002")
	require.NoError(t, err)

	var report domain.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Results, 2)
}

func TestValidateCommand_MissingModule(t *testing.T) {
	_, err := runCommand(t, "validate", t.TempDir(), "--no-history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateCommand_HonorsProjectConfig(t *testing.T) {
	files := compliantFiles()
	files[".modguard.yaml"] = "rules:\n  disabled:\n    - PERF-001\n"
	root := writeModule(t, files)

	out, err := runCommand(t, "validate", root, "--json", "--no-history")
	require.NoError(t, err)

	var report domain.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Results, 8)
	for _, r := range report.Results {
		assert.NotEqual(t, "PERF-001", r.RuleID)
	}
}

func TestBatchCommand_JSON(t *testing.T) {
	good := writeModule(t, compliantFiles())
	bad := t.TempDir()

	out, err := runCommand(t, "batch", good, bad, "--json", "--parallel", "2")
	require.NoError(t, err, "continue-on-error is the batch default")

	var result domain.BatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.TotalItems)
	assert.Len(t, result.Successes, 1)
	assert.Len(t, result.Failures, 1)
}

func TestBatchCommand_FailFast(t *testing.T) {
	good := writeModule(t, compliantFiles())
	bad := t.TempDir()

	_, err := runCommand(t, "batch", bad, good, "--fail-fast")
	require.Error(t, err)
}

func TestEcosystemCommand_JSONAndCI(t *testing.T) {
	root := t.TempDir()
	for file, content := range compliantFiles() {
		abs := filepath.Join(root, "packages", "billing", file)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}

	out, err := runCommand(t, "ecosystem", root, "--json")
	require.NoError(t, err)

	var result domain.BatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.TotalItems)
	assert.Len(t, result.Successes, 1)
}

func TestEcosystemCommand_EmptyTree(t *testing.T) {
	_, err := runCommand(t, "ecosystem", t.TempDir())
	require.Error(t, err)
}

func TestFixCommand_DryRun(t *testing.T) {
	root := writeModule(t, map[string]string{
		"package.json": `{"name":"billing-service","version":"1.0.0"}`,
	})

	out, err := runCommand(t, "fix", root, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "dry run")
	assert.NoFileExists(t, filepath.Join(root, "README.md"))
}

func TestFixCommand_AppliesFixes(t *testing.T) {
	root := writeModule(t, map[string]string{
		"package.json": `{"name":"billing-service","version":"1.0.0"}`,
	})

	out, err := runCommand(t, "fix", root)
	require.NoError(t, err)
	assert.Contains(t, out, "fixed")
	assert.FileExists(t, filepath.Join(root, "README.md"))
	assert.FileExists(t, filepath.Join(root, ".gitignore"))
	assert.FileExists(t, filepath.Join(root, "tests", "smoke.test.js"))
}

func TestRulesCommand_JSON(t *testing.T) {
	out, err := runCommand(t, "rules", "--json")
	require.NoError(t, err)

	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list, 9)

	ids := map[string]bool{}
	for _, r := range list {
		ids[r["id"].(string)] = true
	}
	assert.True(t, ids["STRUCT-001"])
	assert.True(t, ids["SEC-002"])
}

func TestHistoryCommand(t *testing.T) {
	root := writeModule(t, compliantFiles())

	_, err := runCommand(t, "validate", root, "--json")
	require.NoError(t, err)

	out, err := runCommand(t, "history", root, "--json")
	require.NoError(t, err)

	var entries []domain.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "billing-service", entries[0].ModuleName)
	assert.Equal(t, 100, entries[0].Score)
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCommand(t, "frobnicate")
	assert.Error(t, err)
}
