package main

import (
	"context"
	"testing"

	"github.com/aretw0/graft/pkg/llm"
	"github.com/aretw0/graft/pkg/rules"
)

func TestDefaultCompleterStaysSilent(t *testing.T) {
	report := &rules.Report{
		Success: false,
		Results: []rules.Result{
			{RuleID: "flow-single-trigger", Severity: rules.SeverityError, Passed: false, Message: "workflow has no trigger node"},
		},
	}

	advice, err := llm.Explain(context.Background(), completer, report)
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if advice != "" {
		t.Errorf("default backend produced advice: %q", advice)
	}
}

func TestValidateFlagsRegistered(t *testing.T) {
	for _, name := range []string{"category", "fail-fast", "max-errors", "plain", "explain"} {
		if validateCmd.Flags().Lookup(name) == nil {
			t.Errorf("validate is missing the --%s flag", name)
		}
	}
}
