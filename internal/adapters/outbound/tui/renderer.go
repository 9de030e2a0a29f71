package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/modguard/modguard/internal/domain"
)

// ── warm terminal palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	skipCol = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	gradeColors = map[string]lipgloss.Color{
		"A+": success,
		"A":  success,
		"B":  lipgloss.Color("#A3E635"), // lime
		"C":  warning,
		"D":  lipgloss.Color("#FB923C"), // orange
		"F":  danger,
	}

	dimStyle     = lipgloss.NewStyle().Foreground(dim)
	faintStyle   = lipgloss.NewStyle().Foreground(faint)
	passStyle    = lipgloss.NewStyle().Foreground(success)
	failStyle    = lipgloss.NewStyle().Foreground(danger)
	warnStyle    = lipgloss.NewStyle().Foreground(warning)
	skipStyle    = lipgloss.NewStyle().Foreground(skipCol)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(fg)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle    = lipgloss.NewStyle().Foreground(dim).Italic(true)

	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

func gradeColor(grade string) lipgloss.Color {
	if c, ok := gradeColors[grade]; ok {
		return c
	}
	return danger
}

func statusStyle(s domain.Status) lipgloss.Style {
	switch s {
	case domain.StatusPass:
		return passStyle
	case domain.StatusWarning, domain.StatusPartial:
		return warnStyle
	default:
		return failStyle
	}
}

func statusIcon(s domain.Status) string {
	switch s {
	case domain.StatusPass:
		return "✓"
	case domain.StatusWarning, domain.StatusPartial:
		return "!"
	default:
		return "✗"
	}
}

// RenderReport renders a ValidationReport as a styled terminal string.
func RenderReport(report *domain.ValidationReport) string {
	var b strings.Builder

	grade := report.Grade()
	title := headerStyle.Render("modguard")
	subtitle := dimStyle.Render(fmt.Sprintf("%s (%s)", report.ModuleName, report.ModuleType))
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(fmt.Sprintf("%d / 100  %s", report.OverallScore, grade))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + scoreStyled))
	b.WriteString("\n\n")

	for _, r := range report.Results {
		style := statusStyle(r.Status)
		line := fmt.Sprintf("  %s %-10s %-22s %s",
			style.Render(statusIcon(r.Status)),
			style.Render(string(r.Status)),
			titleStyle.Render(r.RuleID),
			dimStyle.Render(r.Message),
		)
		b.WriteString(line + "\n")
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("\n" + separatorLine + "\n")
		b.WriteString("  " + sectionStyle.Render("Recommendations") + "\n")
		for _, rec := range report.Recommendations {
			b.WriteString("  " + warnStyle.Render("•") + " " + rec + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString("  " + faintStyle.Render(fmt.Sprintf(
		"%d rules in %dms, %d files scanned",
		len(report.Results), report.Performance.TotalMS, report.Performance.FilesScanned,
	)))
	if report.CommitHash != "" {
		b.WriteString(faintStyle.Render("  @ " + shortHash(report.CommitHash)))
	}
	b.WriteString("\n")

	return b.String()
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
