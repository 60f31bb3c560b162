// Package report renders audit results and trend reports for humans.
package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/NikhilVijayakumar/Tula/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// Markdown renders a result the way the latest.md artifact stores it.
func Markdown(r *domain.AuditResult) string {
	var sb strings.Builder

	sb.WriteString("# Code Audit Report\n\n")
	fmt.Fprintf(&sb, "**Date:** %s\n", r.Timestamp.Format(timeLayout))
	if r.Model != "" {
		fmt.Fprintf(&sb, "**Model:** %s\n", r.Model)
	}
	fmt.Fprintf(&sb, "**Strategy:** %s\n", r.Strategy)
	fmt.Fprintf(&sb, "**Run ID:** `%s`\n\n", r.RunID)

	if r.Approved {
		sb.WriteString("## Status: APPROVED\n\n")
	} else {
		sb.WriteString("## Status: NOT APPROVED\n\n")
	}
	fmt.Fprintf(&sb, "**%s**\n\n", r.Summary)

	fmt.Fprintf(&sb, "## Issues (%d)\n\n", len(r.Issues))
	if len(r.Issues) == 0 {
		sb.WriteString("No issues found.\n")
	}
	for i, f := range r.Issues {
		fmt.Fprintf(&sb, "%d. %s _(%s)_\n", i+1, f.Text, f.Source)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## Suggestions (%d)\n\n", len(r.Suggestions))
	if len(r.Suggestions) == 0 {
		sb.WriteString("No suggestions.\n")
	}
	for i, f := range r.Suggestions {
		fmt.Fprintf(&sb, "%d. %s _(%s)_\n", i+1, f.Text, f.Source)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## Scope\n\n- Units reviewed: %d\n- Chunks: %d\n", r.UnitCount, r.ChunkCount)
	if r.Error != "" {
		fmt.Fprintf(&sb, "- Error: %s\n", r.Error)
	}

	return sb.String()
}

// TrendMarkdown renders the historical comparison document.
func TrendMarkdown(t *domain.TrendReport) string {
	var sb strings.Builder

	sb.WriteString("# Historical Code Audit Comparison\n\n")
	fmt.Fprintf(&sb, "**Generated:** %s\n", t.GeneratedAt.Format(timeLayout))
	fmt.Fprintf(&sb, "**Reports Analyzed:** %d\n\n", len(t.Points))

	if len(t.Points) == 0 {
		sb.WriteString("No historical data available.\n")
		return sb.String()
	}

	sb.WriteString("## Summary Statistics\n\n")
	sb.WriteString("| Date | Model | Approved | Issues | Suggestions |\n")
	sb.WriteString("|------|-------|----------|--------|-------------|\n")
	for _, p := range t.Points {
		approved := "no"
		if p.Approved {
			approved = "yes"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %d | %d |\n",
			p.Timestamp.Format("2006-01-02"), p.Model, approved, p.Issues, p.Suggestions)
	}

	if t.Direction != "" {
		sb.WriteString("\n## Trend Analysis\n\n")
		fmt.Fprintf(&sb, "**Direction:** %s (%+d issues vs previous run)\n", t.Direction, t.IssueDelta)
	}

	if len(t.TopIssues) > 0 {
		sb.WriteString("\n## Most Common Issues\n\n")
		for _, issue := range t.TopIssues {
			fmt.Fprintf(&sb, "- **%dx** %s\n", issue.Count, issue.Text)
		}
	}

	return sb.String()
}

// HTML wraps the markdown rendering for email delivery.
func HTML(r *domain.AuditResult) string {
	return "<html><body><pre>" + html.EscapeString(Markdown(r)) + "</pre></body></html>"
}
