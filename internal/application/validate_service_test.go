package application_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modguard/modguard/internal/adapters/outbound/discovery"
	"github.com/modguard/modguard/internal/application"
	"github.com/modguard/modguard/internal/domain"
	"github.com/modguard/modguard/internal/domain/rules"
)

// writeModuleFiles materializes a module fixture under a temp dir.
func writeModuleFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		abs := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	return root
}

func compliantModuleFiles() map[string]string {
	return map[string]string{
		"package.json":          `{"name":"billing-service","version":"1.0.0","scripts":{"build":"tsc","test":"jest"}}`,
		"README.md":             "# billing-service\n\nHandles invoice generation and payment reconciliation.\n",
		"tsconfig.json":         `{"compilerOptions":{"strict":true}}`,
		".gitignore":            "node_modules/\ndist/\n",
		"src/index.ts":          "export const add = (a: number, b: number): number => a + b;\n",
		"tests/billing.test.ts": "test('adds', () => { expect(1 + 1).toBe(2); });\n",
	}
}

func newService(catalog *rules.Catalog) *application.ValidateService {
	return application.NewValidateService(discovery.New(), catalog, nil)
}

func TestValidateModule_CompliantModuleScores100(t *testing.T) {
	root := writeModuleFiles(t, compliantModuleFiles())

	report, err := newService(rules.NewCatalog()).ValidateModule(root, domain.ValidationOptions{})
	require.NoError(t, err)

	assert.Equal(t, 100, report.OverallScore)
	assert.Equal(t, domain.StatusPass, report.Status)
	assert.Equal(t, "A+", report.Grade())
	assert.Equal(t, "billing-service", report.ModuleName)
	assert.Len(t, report.Results, 9)
	assert.Len(t, report.Config.RulesRun, 9)
	assert.Empty(t, report.Recommendations)
	assert.NotEmpty(t, report.ReportID)
}

func TestValidateModule_ViolationsLowerScore(t *testing.T) {
	files := compliantModuleFiles()
	delete(files, "README.md")
	delete(files, ".gitignore")
	root := writeModuleFiles(t, files)

	report, err := newService(rules.NewCatalog()).ValidateModule(root, domain.ValidationOptions{})
	require.NoError(t, err)

	assert.Less(t, report.OverallScore, 100)
	assert.Equal(t, domain.StatusFail, report.Status)
	assert.NotEmpty(t, report.Recommendations)

	byID := map[string]domain.ValidationResult{}
	for _, r := range report.Results {
		byID[r.RuleID] = r
	}
	assert.Equal(t, domain.StatusFail, byID[rules.RuleReadmeMinLength].Status)
	assert.Equal(t, domain.StatusFail, byID[rules.RuleIgnoreFile].Status)
	assert.True(t, byID[rules.RuleReadmeMinLength].CanAutoFix)
}

func TestValidateModule_MissingManifestIsModuleNotFound(t *testing.T) {
	_, err := newService(rules.NewCatalog()).ValidateModule(t.TempDir(), domain.ValidationOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)
}

func TestValidateModule_MalformedManifestIsLoadError(t *testing.T) {
	root := writeModuleFiles(t, map[string]string{"package.json": "{not json"})

	_, err := newService(rules.NewCatalog()).ValidateModule(root, domain.ValidationOptions{})
	require.Error(t, err)

	var loadErr *domain.ModuleLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateModule_Idempotent(t *testing.T) {
	root := writeModuleFiles(t, compliantModuleFiles())
	svc := newService(rules.NewCatalog())

	first, err := svc.ValidateModule(root, domain.ValidationOptions{})
	require.NoError(t, err)
	second, err := svc.ValidateModule(root, domain.ValidationOptions{})
	require.NoError(t, err)

	assert.Equal(t, first.OverallScore, second.OverallScore)
	assert.Equal(t, first.Status, second.Status)
	require.Equal(t, len(first.Results), len(second.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].RuleID, second.Results[i].RuleID)
		assert.Equal(t, first.Results[i].Status, second.Results[i].Status)
	}
	assert.NotEqual(t, first.ReportID, second.ReportID)
}

type panicCheck struct{}

func (panicCheck) Evaluate(*domain.Module) rules.Outcome { panic("boom") }

func TestValidateModule_PanickingCheckBecomesErrorResult(t *testing.T) {
	catalog := rules.NewCatalog()
	require.NoError(t, catalog.Register(rules.Rule{
		ID:       "CUSTOM-PANIC",
		Name:     "panics",
		Category: domain.CategoryStructure,
		Severity: domain.SeverityError,
		Enabled:  true,
		Check:    panicCheck{},
	}))
	root := writeModuleFiles(t, compliantModuleFiles())

	report, err := newService(catalog).ValidateModule(root, domain.ValidationOptions{})
	require.NoError(t, err)

	var found domain.ValidationResult
	for _, r := range report.Results {
		if r.RuleID == "CUSTOM-PANIC" {
			found = r
		}
	}
	assert.Equal(t, domain.StatusError, found.Status)
	assert.Contains(t, found.Message, "check panicked")
	assert.Equal(t, domain.StatusError, report.Status, "a panicked check degrades the report, not the process")
}

type slowCheck struct{ delay time.Duration }

func (c slowCheck) Evaluate(*domain.Module) rules.Outcome {
	time.Sleep(c.delay)
	return rules.Outcome{Status: domain.StatusPass, Message: "too late"}
}

func TestValidateModule_OverrunningCheckHitsDeadline(t *testing.T) {
	catalog := rules.NewCatalog()
	require.NoError(t, catalog.Register(rules.Rule{
		ID:       "CUSTOM-SLOW",
		Name:     "slow",
		Category: domain.CategoryPerformance,
		Severity: domain.SeverityWarning,
		Enabled:  true,
		Check:    slowCheck{delay: 500 * time.Millisecond},
	}))
	root := writeModuleFiles(t, compliantModuleFiles())

	report, err := newService(catalog).ValidateModule(root, domain.ValidationOptions{
		IncludeRules: []string{"CUSTOM-SLOW"},
		RuleTimeout:  30 * time.Millisecond,
	})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, domain.StatusError, report.Results[0].Status)
	assert.Contains(t, report.Results[0].Message, "deadline")
}

func TestValidateModule_UnknownIncludedRuleFails(t *testing.T) {
	root := writeModuleFiles(t, compliantModuleFiles())

	report, err := newService(rules.NewCatalog()).ValidateModule(root, domain.ValidationOptions{
		IncludeRules: []string{rules.RuleReadmeMinLength, "NOPE-999"},
	})
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	var unknown domain.ValidationResult
	for _, r := range report.Results {
		if r.RuleID == "NOPE-999" {
			unknown = r
		}
	}
	assert.Equal(t, domain.StatusFail, unknown.Status)
	assert.Contains(t, unknown.Message, "not implemented")
}

func TestValidateModule_ExcludeRules(t *testing.T) {
	root := writeModuleFiles(t, compliantModuleFiles())

	report, err := newService(rules.NewCatalog()).ValidateModule(root, domain.ValidationOptions{
		ExcludeRules: []string{rules.RuleFileSizeLimit, rules.RuleNoMockData},
	})
	require.NoError(t, err)

	assert.Len(t, report.Results, 7)
	for _, r := range report.Results {
		assert.NotEqual(t, rules.RuleFileSizeLimit, r.RuleID)
		assert.NotEqual(t, rules.RuleNoMockData, r.RuleID)
	}
}

func TestValidateModule_WrapsDiscoveryError(t *testing.T) {
	_, err := newService(rules.NewCatalog()).ValidateModule(
		filepath.Join(t.TempDir(), "missing"), domain.ValidationOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrModuleNotFound))
	assert.Contains(t, err.Error(), "discovering module")
}
