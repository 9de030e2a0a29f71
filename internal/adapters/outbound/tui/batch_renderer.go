package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/modguard/modguard/internal/domain"
	"github.com/modguard/modguard/internal/domain/rules"
)

// RenderBatch renders a BatchResult as a styled terminal summary.
func RenderBatch(result *domain.BatchResult) string {
	var b strings.Builder

	title := headerStyle.Render("modguard batch")
	counts := fmt.Sprintf("%d modules  %s  %s",
		result.TotalItems,
		passStyle.Render(fmt.Sprintf("%d ok", len(result.Successes))),
		failStyle.Render(fmt.Sprintf("%d failed", len(result.Failures))),
	)
	b.WriteString(boxStyle.Render(title + "\n\n" + counts))
	b.WriteString("\n\n")

	for _, s := range result.Successes {
		grade := s.Report.Grade()
		scoreStyled := lipgloss.NewStyle().
			Bold(true).
			Foreground(gradeColor(grade)).
			Render(fmt.Sprintf("%3d %s", s.Report.OverallScore, grade))
		b.WriteString(fmt.Sprintf("  %s  %-12s %s\n",
			scoreStyled,
			statusStyle(s.Report.Status).Render(string(s.Report.Status)),
			titleStyle.Render(s.Report.ModuleName),
		))
	}
	for _, f := range result.Failures {
		b.WriteString(fmt.Sprintf("  %s  %s %s\n",
			failStyle.Render("  ✗ "),
			titleStyle.Render(f.ModulePath),
			dimStyle.Render(f.Error),
		))
	}

	if len(result.Metrics.TopViolations) > 0 {
		b.WriteString("\n" + separatorLine + "\n")
		b.WriteString("  " + sectionStyle.Render("Top violations") + "\n")
		for _, v := range result.Metrics.TopViolations {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				warnStyle.Render(fmt.Sprintf("%3d×", v.Count)),
				titleStyle.Render(v.RuleID),
			))
		}
	}

	b.WriteString("\n")
	b.WriteString("  " + faintStyle.Render(fmt.Sprintf(
		"%dms total, %.1f items/s, %.0f%% success",
		result.Metrics.TotalMS, result.Metrics.ItemsPerSec, result.Metrics.SuccessRate*100,
	)))
	b.WriteString("\n")

	return b.String()
}

// RenderFixSummary renders a FixSummary as a styled terminal string.
func RenderFixSummary(summary *domain.FixSummary) string {
	var b strings.Builder

	title := headerStyle.Render("modguard fix")
	mode := "applied"
	if summary.DryRun {
		mode = "dry run"
	}
	counts := fmt.Sprintf("%s  %s  %s  %s",
		dimStyle.Render(mode),
		passStyle.Render(fmt.Sprintf("%d fixed", summary.Fixed)),
		failStyle.Render(fmt.Sprintf("%d failed", summary.Failed)),
		skipStyle.Render(fmt.Sprintf("%d skipped", summary.Skipped)),
	)
	b.WriteString(boxStyle.Render(title + "\n\n" + counts))
	b.WriteString("\n\n")

	for _, o := range summary.Outcomes {
		var style lipgloss.Style
		var icon string
		switch o.Status {
		case domain.FixSuccess:
			style, icon = passStyle, "✓"
		case domain.FixFailed:
			style, icon = failStyle, "✗"
		default:
			style, icon = skipStyle, "→"
		}
		detail := o.Reason
		if o.Error != "" {
			detail = o.Error
		}
		if detail == "" && len(o.Applied) > 0 {
			detail = strings.Join(o.Applied, "; ")
		}
		b.WriteString(fmt.Sprintf("  %s %-10s %-12s %s\n",
			style.Render(icon),
			style.Render(string(o.Status)),
			titleStyle.Render(o.RuleID),
			dimStyle.Render(detail),
		))
	}

	b.WriteString("\n")
	b.WriteString("  " + faintStyle.Render(fmt.Sprintf(
		"%d file(s) modified, %d backup(s) created",
		summary.FilesModified, summary.BackupsCreated,
	)))
	if !summary.DryRun && summary.Fixed > 0 {
		b.WriteString("\n  " + hintStyle.Render("Re-run modguard validate to confirm remediation."))
	}
	b.WriteString("\n")

	return b.String()
}

// RenderRules renders the rule catalog as a table-ish listing.
func RenderRules(list []rules.Rule) string {
	var b strings.Builder

	b.WriteString("  " + sectionStyle.Render("Compliance rules") + "\n\n")
	for _, r := range list {
		fixTag := dimStyle.Render("manual")
		if r.CanAutoFix {
			fixTag = passStyle.Render("autofix:" + string(r.Risk))
		}
		b.WriteString(fmt.Sprintf("  %-10s %-22s %-14s %-9s %s\n",
			titleStyle.Render(r.ID),
			r.Name,
			dimStyle.Render(string(r.Category)),
			warnStyle.Render(string(r.Severity)),
			fixTag,
		))
	}

	return b.String()
}
