package domain

import (
	"time"
)

// Status is the outcome of a single rule evaluation (or, aggregated, of a
// whole report). Values are part of the stable report contract.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusWarning Status = "warning"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

// Severity classifies how serious a rule violation is.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
	SeverityAutoFix  Severity = "autofix"
)

// Category groups rules by the concern they validate.
type Category string

const (
	CategoryStructure     Category = "structure"
	CategoryDocumentation Category = "documentation"
	CategoryConfiguration Category = "configuration"
	CategoryTesting       Category = "testing"
	CategorySecurity      Category = "security"
	CategoryPerformance   Category = "performance"
)

// RiskLevel classifies how likely an automated fix is to cause unintended
// side effects.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ModuleType is inferred from directory naming conventions and manifest hints.
type ModuleType string

const (
	ModuleBackend  ModuleType = "backend"
	ModuleFrontend ModuleType = "frontend"
	ModuleUtility  ModuleType = "utility"
	ModuleAPI      ModuleType = "api"
	ModuleCore     ModuleType = "core"
)

// Module is a directory subtree rooted at a manifest file, the unit of
// validation. Built once per validation invocation and immutable afterwards.
type Module struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Path     string       `json:"path"`
	Type     ModuleType   `json:"type"`
	Files    []ModuleFile `json:"files"`
	Manifest *Manifest    `json:"manifest,omitempty"`

	// StructuralScore is a discovery-time heuristic, independent of rule
	// evaluation. Diagnostic only; the report's OverallScore is authoritative.
	StructuralScore int `json:"structural_score"`
}

// ModuleFile describes one file or directory discovered inside a module.
type ModuleFile struct {
	Path         string `json:"path"`
	RelativePath string `json:"relative_path"`
	IsDir        bool   `json:"is_dir"`
	Size         int64  `json:"size"`
	Lines        int    `json:"lines,omitempty"`
	IsTest       bool   `json:"is_test"`
	IsGenerated  bool   `json:"is_generated"`
}

// Manifest is the parsed module manifest (package.json).
type Manifest struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Main    string            `json:"main,omitempty"`
	Scripts map[string]string `json:"scripts,omitempty"`
}

// ValidationResult is one rule's outcome for one module.
type ValidationResult struct {
	RuleID      string         `json:"rule_id"`
	RuleName    string         `json:"rule_name,omitempty"`
	Category    Category       `json:"category"`
	Status      Status         `json:"status"`
	Severity    Severity       `json:"severity"`
	Message     string         `json:"message"`
	FilePath    string         `json:"file_path,omitempty"`
	Line        int            `json:"line,omitempty"`
	Remediation string         `json:"remediation,omitempty"`
	CanAutoFix  bool           `json:"can_auto_fix"`
	ExecutionMS int64          `json:"execution_ms"`
	Context     map[string]any `json:"context,omitempty"`
}

// ReportMetrics aggregates result counts for a single module's report.
type ReportMetrics struct {
	ByStatus   map[Status]int   `json:"by_status"`
	BySeverity map[Severity]int `json:"by_severity"`
	ByCategory map[Category]int `json:"by_category"`
}

// ReportPerformance records how long a validation run took.
type ReportPerformance struct {
	TotalMS        int64   `json:"total_ms"`
	FilesScanned   int     `json:"files_scanned"`
	RulesPerSecond float64 `json:"rules_per_second"`
}

// ConfigSummary records which rules actually ran, so downstream consumers
// can tell a clean pass from a narrow one.
type ConfigSummary struct {
	RulesRun      []string `json:"rules_run"`
	RuleTimeoutMS int64    `json:"rule_timeout_ms"`
}

// ValidationReport is the scored, statused outcome of evaluating all
// applicable rules against one module. Immutable after construction; the
// unit exchanged across the system boundary.
type ValidationReport struct {
	ReportID        string             `json:"report_id"`
	ModuleID        string             `json:"module_id"`
	ModuleName      string             `json:"module_name"`
	ModulePath      string             `json:"module_path"`
	ModuleType      ModuleType         `json:"module_type"`
	CommitHash      string             `json:"commit_hash,omitempty"`
	Timestamp       time.Time          `json:"timestamp"`
	OverallScore    int                `json:"overall_score"`
	Status          Status             `json:"status"`
	Results         []ValidationResult `json:"results"`
	Recommendations []string           `json:"recommendations,omitempty"`
	Metrics         ReportMetrics      `json:"metrics"`
	Performance     ReportPerformance  `json:"performance"`
	Config          ConfigSummary      `json:"config"`
}

func (r *ValidationReport) Grade() string { return GradeFor(r.OverallScore) }

func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// BatchSuccess pairs a validated module path with its report.
type BatchSuccess struct {
	ModulePath string            `json:"module_path"`
	Report     *ValidationReport `json:"report"`
}

// BatchFailure records a module that could not be validated.
type BatchFailure struct {
	ModulePath string `json:"module_path"`
	Error      string `json:"error"`
}

// ViolationCount ranks a rule by how many modules it failed in.
type ViolationCount struct {
	RuleID string `json:"rule_id"`
	Count  int    `json:"count"`
}

// BatchMetrics aggregates timing and distribution across one batch invocation.
type BatchMetrics struct {
	TotalMS       int64            `json:"total_ms"`
	AvgMSPerItem  float64          `json:"avg_ms_per_item"`
	SuccessRate   float64          `json:"success_rate"`
	ItemsPerSec   float64          `json:"items_per_sec"`
	StatusCounts  map[Status]int   `json:"status_counts"`
	TopViolations []ViolationCount `json:"top_violations,omitempty"`
}

// BatchResult is one batch invocation's outcome.
type BatchResult struct {
	OperationID string         `json:"operation_id"`
	TotalItems  int            `json:"total_items"`
	Successes   []BatchSuccess `json:"successes"`
	Failures    []BatchFailure `json:"failures"`
	Metrics     BatchMetrics   `json:"metrics"`
}

// Progress is passed to the batch progress callback after every completion.
type Progress struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Failed     int     `json:"failed"`
	Percentage float64 `json:"percentage"`
}

// FixStatus is the outcome class of one auto-fix attempt.
type FixStatus string

const (
	FixSuccess FixStatus = "success"
	FixFailed  FixStatus = "failed"
	FixSkipped FixStatus = "skipped"
)

// FixOutcome is the per-violation result of an auto-fix attempt.
type FixOutcome struct {
	RuleID  string    `json:"rule_id"`
	Status  FixStatus `json:"status"`
	Risk    RiskLevel `json:"risk"`
	Applied []string  `json:"applied,omitempty"`
	Reason  string    `json:"reason,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// FixSummary aggregates one fix run.
type FixSummary struct {
	ModulePath     string       `json:"module_path"`
	DryRun         bool         `json:"dry_run"`
	Outcomes       []FixOutcome `json:"outcomes"`
	Fixed          int          `json:"fixed"`
	Failed         int          `json:"failed"`
	Skipped        int          `json:"skipped"`
	FilesModified  int          `json:"files_modified"`
	BackupsCreated int          `json:"backups_created"`
}

// HistoryEntry is the persisted summary of one validation run.
type HistoryEntry struct {
	ReportID   string    `json:"report_id"`
	ModulePath string    `json:"module_path"`
	ModuleName string    `json:"module_name"`
	Timestamp  time.Time `json:"timestamp"`
	Score      int       `json:"score"`
	Status     Status    `json:"status"`
	CommitHash string    `json:"commit_hash,omitempty"`
}
