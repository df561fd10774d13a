// Package llm defines the optional language-model collaborator used to
// turn validation failures into human suggestions. The core pipeline
// never requires it; callers without a backend get the no-op completer
// and degrade to the rule engine's own suggestions.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/graft/pkg/rules"
)

// ErrUnavailable signals that no completion backend is configured.
var ErrUnavailable = errors.New("llm: no completion backend available")

// Completer produces a completion for a prompt. Implementations are
// expected to honor context cancellation.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Noop is the default Completer. Every call fails with ErrUnavailable.
type Noop struct{}

func (Noop) Complete(context.Context, string) (string, error) {
	return "", ErrUnavailable
}

// Explain asks the completer for advice on a failed validation report.
// It returns an empty string, not an error, when the completer is nil or
// unavailable, so callers can render the report unchanged.
func Explain(ctx context.Context, c Completer, report *rules.Report) (string, error) {
	if c == nil || report == nil || report.Success {
		return "", nil
	}

	out, err := c.Complete(ctx, failurePrompt(report))
	if errors.Is(err, ErrUnavailable) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("llm: explaining report: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// failurePrompt renders the failed results as a plain instruction block.
func failurePrompt(report *rules.Report) string {
	var b strings.Builder
	b.WriteString("The following workflow validation rules failed. ")
	b.WriteString("Suggest concrete fixes, one per rule, in plain language.\n\n")
	for _, r := range report.Results {
		if r.Passed {
			continue
		}
		fmt.Fprintf(&b, "- [%s/%s] %s: %s\n", r.Category, r.Severity, r.RuleID, r.Message)
		for _, s := range r.Suggestions {
			fmt.Fprintf(&b, "  already suggested: %s\n", s)
		}
	}
	return b.String()
}
