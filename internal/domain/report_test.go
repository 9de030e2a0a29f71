package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modguard/modguard/internal/domain"
)

func result(id string, status domain.Status, severity domain.Severity) domain.ValidationResult {
	return domain.ValidationResult{
		RuleID:      id,
		Category:    domain.CategoryStructure,
		Status:      status,
		Severity:    severity,
		Remediation: "fix " + id,
	}
}

func TestComputeScore_AllPassIs100(t *testing.T) {
	results := []domain.ValidationResult{
		result("a", domain.StatusPass, domain.SeverityError),
		result("b", domain.StatusPass, domain.SeverityCritical),
	}
	assert.Equal(t, 100, domain.ComputeScore(results))
}

func TestComputeScore_WeightedDeductions(t *testing.T) {
	results := []domain.ValidationResult{
		result("a", domain.StatusFail, domain.SeverityCritical), // -25
		result("b", domain.StatusFail, domain.SeverityError),    // -15
		result("c", domain.StatusFail, domain.SeverityWarning),  // -5
	}
	assert.Equal(t, 55, domain.ComputeScore(results))
}

func TestComputeScore_PartialDeductsHalf(t *testing.T) {
	results := []domain.ValidationResult{
		result("a", domain.StatusPartial, domain.SeverityError), // -7
	}
	assert.Equal(t, 93, domain.ComputeScore(results))
}

func TestComputeScore_ClampedToZero(t *testing.T) {
	var results []domain.ValidationResult
	for i := 0; i < 10; i++ {
		results = append(results, result("r", domain.StatusFail, domain.SeverityCritical))
	}
	assert.Equal(t, 0, domain.ComputeScore(results))
}

func TestComputeScore_MonotonicallyNonIncreasing(t *testing.T) {
	var results []domain.ValidationResult
	prev := domain.ComputeScore(results)
	for i := 0; i < 8; i++ {
		results = append(results, result("r", domain.StatusFail, domain.SeverityError))
		score := domain.ComputeScore(results)
		assert.LessOrEqual(t, score, prev)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
		prev = score
	}
}

func TestAggregateStatus_WorstCasePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		statuses []domain.Status
		want     domain.Status
	}{
		{"empty is pass", nil, domain.StatusPass},
		{"all pass", []domain.Status{domain.StatusPass, domain.StatusPass}, domain.StatusPass},
		{"warning beats pass", []domain.Status{domain.StatusPass, domain.StatusWarning}, domain.StatusWarning},
		{"partial beats warning", []domain.Status{domain.StatusWarning, domain.StatusPartial}, domain.StatusPartial},
		{"fail beats partial", []domain.Status{domain.StatusPartial, domain.StatusFail}, domain.StatusFail},
		{"error beats fail", []domain.Status{domain.StatusFail, domain.StatusError, domain.StatusPass}, domain.StatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var results []domain.ValidationResult
			for _, s := range tt.statuses {
				results = append(results, result("r", s, domain.SeverityError))
			}
			assert.Equal(t, tt.want, domain.AggregateStatus(results))
		})
	}
}

func TestBuildReport_MetricsAndRecommendations(t *testing.T) {
	mod := &domain.Module{
		ID:   "billing",
		Name: "billing",
		Path: "/tmp/billing",
		Type: domain.ModuleBackend,
		Files: []domain.ModuleFile{
			{RelativePath: "package.json"},
			{RelativePath: "src", IsDir: true},
			{RelativePath: "src/index.js"},
		},
	}
	results := []domain.ValidationResult{
		result("a", domain.StatusFail, domain.SeverityError),
		result("a", domain.StatusFail, domain.SeverityError), // duplicate remediation
		result("b", domain.StatusPass, domain.SeverityWarning),
	}
	results[1].Remediation = results[0].Remediation

	report := domain.BuildReport(mod, results, domain.ConfigSummary{RulesRun: []string{"a", "b"}}, 50*time.Millisecond)

	require.NotEmpty(t, report.ReportID)
	assert.Equal(t, "billing", report.ModuleID)
	assert.Equal(t, domain.StatusFail, report.Status)
	assert.Equal(t, 2, report.Metrics.ByStatus[domain.StatusFail])
	assert.Equal(t, 1, report.Metrics.ByStatus[domain.StatusPass])
	assert.Equal(t, 3, report.Metrics.ByCategory[domain.CategoryStructure])
	assert.Equal(t, 2, report.Performance.FilesScanned, "directories are not scanned files")
	assert.Len(t, report.Recommendations, 1, "identical category+remediation deduplicates")
}

func TestBuildBatchMetrics_TopViolationsRankedByCount(t *testing.T) {
	mkReport := func(failedRules ...string) *domain.ValidationReport {
		var results []domain.ValidationResult
		for _, id := range failedRules {
			results = append(results, result(id, domain.StatusFail, domain.SeverityError))
		}
		return &domain.ValidationReport{Status: domain.AggregateStatus(results), Results: results}
	}

	batch := &domain.BatchResult{
		TotalItems: 3,
		Successes: []domain.BatchSuccess{
			{ModulePath: "a", Report: mkReport("DOC-001", "STRUCT-002")},
			{ModulePath: "b", Report: mkReport("DOC-001")},
			{ModulePath: "c", Report: mkReport()},
		},
	}
	metrics := domain.BuildBatchMetrics(batch, time.Second)

	require.Len(t, metrics.TopViolations, 2)
	assert.Equal(t, "DOC-001", metrics.TopViolations[0].RuleID)
	assert.Equal(t, 2, metrics.TopViolations[0].Count)
	assert.Equal(t, 1.0, metrics.SuccessRate)
	assert.Equal(t, 2, metrics.StatusCounts[domain.StatusFail])
	assert.Equal(t, 1, metrics.StatusCounts[domain.StatusPass])
}

func TestGradeFor(t *testing.T) {
	assert.Equal(t, "A+", domain.GradeFor(95))
	assert.Equal(t, "A", domain.GradeFor(85))
	assert.Equal(t, "B", domain.GradeFor(72))
	assert.Equal(t, "C", domain.GradeFor(60))
	assert.Equal(t, "D", domain.GradeFor(51))
	assert.Equal(t, "F", domain.GradeFor(10))
}
