package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Deduction weights per severity. Partial and Warning results count half.
const (
	deductionCritical = 25
	deductionError    = 15
	deductionWarning  = 5
	deductionAutoFix  = 5
)

// statusRank orders statuses worst-first for the aggregate report status.
var statusRank = map[Status]int{
	StatusError:   0,
	StatusFail:    1,
	StatusPartial: 2,
	StatusWarning: 3,
	StatusPass:    4,
}

// BuildReport aggregates rule results into a scored, statused report. Pure
// function of its inputs apart from the generated id and timestamp.
func BuildReport(mod *Module, results []ValidationResult, cfg ConfigSummary, elapsed time.Duration) *ValidationReport {
	report := &ValidationReport{
		ReportID:        uuid.NewString(),
		ModuleID:        mod.ID,
		ModuleName:      mod.Name,
		ModulePath:      mod.Path,
		ModuleType:      mod.Type,
		Timestamp:       time.Now().UTC(),
		OverallScore:    ComputeScore(results),
		Status:          AggregateStatus(results),
		Results:         results,
		Recommendations: buildRecommendations(results),
		Metrics:         buildMetrics(results),
		Config:          cfg,
	}

	filesScanned := 0
	for _, f := range mod.Files {
		if !f.IsDir {
			filesScanned++
		}
	}
	report.Performance = ReportPerformance{
		TotalMS:      elapsed.Milliseconds(),
		FilesScanned: filesScanned,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		report.Performance.RulesPerSecond = float64(len(results)) / secs
	}

	return report
}

// ComputeScore applies weighted deductions per failing result, clamped to
// [0,100]. Pass results contribute nothing; adding failures never raises
// the score.
func ComputeScore(results []ValidationResult) int {
	score := 100
	for _, r := range results {
		score -= deduction(r)
	}
	if score < 0 {
		return 0
	}
	return score
}

func deduction(r ValidationResult) int {
	base := deductionWarning
	switch r.Severity {
	case SeverityCritical:
		base = deductionCritical
	case SeverityError:
		base = deductionError
	case SeverityAutoFix:
		base = deductionAutoFix
	}

	switch r.Status {
	case StatusFail, StatusError:
		return base
	case StatusPartial, StatusWarning:
		return base / 2
	default:
		return 0
	}
}

// AggregateStatus returns the worst status present, with the deterministic
// precedence Error > Fail > Partial > Warning > Pass.
func AggregateStatus(results []ValidationResult) Status {
	worst := StatusPass
	for _, r := range results {
		if statusRank[r.Status] < statusRank[worst] {
			worst = r.Status
		}
	}
	return worst
}

func buildMetrics(results []ValidationResult) ReportMetrics {
	m := ReportMetrics{
		ByStatus:   make(map[Status]int),
		BySeverity: make(map[Severity]int),
		ByCategory: make(map[Category]int),
	}
	for _, r := range results {
		m.ByStatus[r.Status]++
		m.BySeverity[r.Severity]++
		m.ByCategory[r.Category]++
	}
	return m
}

// buildRecommendations produces one human-readable string per Fail/Error
// result, deduplicated by category+remediation so repeated violations of
// the same kind surface once.
func buildRecommendations(results []ValidationResult) []string {
	seen := make(map[string]bool)
	var recs []string
	for _, r := range results {
		if r.Status != StatusFail && r.Status != StatusError {
			continue
		}
		text := r.Remediation
		if text == "" {
			text = r.Message
		}
		key := string(r.Category) + "|" + text
		if seen[key] {
			continue
		}
		seen[key] = true
		recs = append(recs, fmt.Sprintf("[%s] %s", r.Category, text))
	}
	return recs
}

// BuildBatchMetrics finalizes the aggregate metrics of a batch run.
func BuildBatchMetrics(result *BatchResult, elapsed time.Duration) BatchMetrics {
	m := BatchMetrics{
		TotalMS:      elapsed.Milliseconds(),
		StatusCounts: make(map[Status]int),
	}
	if result.TotalItems > 0 {
		m.AvgMSPerItem = float64(m.TotalMS) / float64(result.TotalItems)
		m.SuccessRate = float64(len(result.Successes)) / float64(result.TotalItems)
	}
	if secs := elapsed.Seconds(); secs > 0 {
		m.ItemsPerSec = float64(result.TotalItems) / secs
	}

	violations := make(map[string]int)
	for _, s := range result.Successes {
		m.StatusCounts[s.Report.Status]++
		for _, r := range s.Report.Results {
			if r.Status == StatusFail || r.Status == StatusError {
				violations[r.RuleID]++
			}
		}
	}

	for id, n := range violations {
		m.TopViolations = append(m.TopViolations, ViolationCount{RuleID: id, Count: n})
	}
	sort.Slice(m.TopViolations, func(i, j int) bool {
		if m.TopViolations[i].Count != m.TopViolations[j].Count {
			return m.TopViolations[i].Count > m.TopViolations[j].Count
		}
		return m.TopViolations[i].RuleID < m.TopViolations[j].RuleID
	})

	return m
}

// SummarizeFixes tallies outcome counts into the summary.
func SummarizeFixes(summary *FixSummary) {
	for _, o := range summary.Outcomes {
		switch o.Status {
		case FixSuccess:
			summary.Fixed++
		case FixFailed:
			summary.Failed++
		case FixSkipped:
			summary.Skipped++
		}
	}
}
