// Package report turns validation reports into human-readable output.
// The markdown form feeds the glamour renderer for interactive use; the
// plain form goes to pipes and CI logs.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/graft/internal/presentation/tui"
	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/rules"
)

// Markdown renders a validation report as a markdown document, grouped
// by category with one line per rule.
func Markdown(r *rules.Report) string {
	var sb strings.Builder

	if r.Success {
		sb.WriteString("# Validation passed\n\n")
	} else {
		sb.WriteString("# Validation failed\n\n")
	}
	fmt.Fprintf(&sb, "%d rules, %d passed, %d failed (%s)\n\n",
		r.TotalRules, r.Passed, r.Failed, r.Elapsed.Round(time.Millisecond))

	for _, cat := range rules.CategoryOrder {
		results := r.ByCategory(cat)
		if len(results) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n", titleCase(string(cat)))
		for _, res := range results {
			mark := "✅"
			if !res.Passed {
				switch res.Severity {
				case rules.SeverityError:
					mark = "❌"
				case rules.SeverityWarning:
					mark = "⚠️"
				default:
					mark = "ℹ️"
				}
			}
			fmt.Fprintf(&sb, "- %s `%s` %s\n", mark, res.RuleID, res.Message)
			for _, d := range res.Details {
				fmt.Fprintf(&sb, "  - %s\n", d)
			}
			for _, s := range res.Suggestions {
				fmt.Fprintf(&sb, "  - suggestion: %s\n", s)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Plain renders a compact one-line-per-finding report without markup.
func Plain(r *rules.Report) string {
	var sb strings.Builder
	status := "PASS"
	if !r.Success {
		status = "FAIL"
	}
	fmt.Fprintf(&sb, "%s: %d rules, %d passed, %d failed\n", status, r.TotalRules, r.Passed, r.Failed)
	for _, res := range r.Results {
		if res.Passed {
			continue
		}
		fmt.Fprintf(&sb, "  [%s] %s/%s: %s\n", res.Severity, res.Category, res.RuleID, res.Message)
		for _, d := range res.Details {
			fmt.Fprintf(&sb, "    %s\n", d)
		}
	}
	return sb.String()
}

// Summary renders a short colored status line for terminals.
func Summary(r *rules.Report) string {
	if r.Success {
		return tui.Colorize(fmt.Sprintf("✓ %d rules passed", r.Passed), tui.SeverityColor("ok"))
	}
	return tui.Colorize(fmt.Sprintf("✗ %d of %d rules failed", r.Failed, r.TotalRules), tui.SeverityColor("error"))
}

// Issues renders compiler issues one per line, prefixed with severity.
func Issues(label string, issues []contract.Issue) string {
	var sb strings.Builder
	for _, issue := range issues {
		if issue.Line > 0 {
			fmt.Fprintf(&sb, "%s: line %d: [%s] %s\n", label, issue.Line, issue.Code, issue.Message)
		} else {
			fmt.Fprintf(&sb, "%s: [%s] %s\n", label, issue.Code, issue.Message)
		}
	}
	return sb.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
