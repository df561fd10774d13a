// Package rules validates generated workflows with a categorized,
// severity-aware rule engine. Rules run grouped by category in a fixed
// order so reports read front to back: input, structural, node, flow,
// output.
package rules

import (
	"time"

	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/workflow"
)

// Severity ranks how bad a failed rule is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Category groups rules by what part of the pipeline they inspect.
type Category string

const (
	CategoryInput      Category = "input"
	CategoryStructural Category = "structural"
	CategoryNode       Category = "node"
	CategoryFlow       Category = "flow"
	CategoryOutput     Category = "output"
)

// CategoryOrder is the execution order the engine follows.
var CategoryOrder = []Category{
	CategoryInput,
	CategoryStructural,
	CategoryNode,
	CategoryFlow,
	CategoryOutput,
}

// Context is what a rule gets to look at. Contract may be nil when the
// caller validates a workflow obtained elsewhere.
type Context struct {
	Contract *contract.Contract
	Workflow *workflow.Workflow

	// TargetVersion is the runtime version the workflow targets, when
	// the contract declared one.
	TargetVersion string

	// Strict enables checks that only make sense when the caller asked
	// for an unambiguous contract, such as the input ambiguity scan.
	Strict bool
}

// Result is the outcome of one rule against one workflow.
type Result struct {
	RuleID      string   `json:"rule_id"`
	Category    Category `json:"category"`
	Passed      bool     `json:"passed"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Details     []string `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Rule is a single validation check. Check must not mutate the context.
type Rule struct {
	ID       string
	Name     string
	Category Category
	Severity Severity
	Enabled  bool
	Check    func(*Context) Result
}

// Report aggregates a full engine run.
type Report struct {
	Success    bool          `json:"success"`
	TotalRules int           `json:"total_rules"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
	Results    []Result      `json:"results"`
	Errors     []string      `json:"errors,omitempty"`
	Warnings   []string      `json:"warnings,omitempty"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// ByCategory filters the report's results.
func (r *Report) ByCategory(c Category) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Category == c {
			out = append(out, res)
		}
	}
	return out
}

// pass and fail build results with the rule's identity filled in by the
// engine; rules only provide outcome and message.
func pass(message string) Result {
	return Result{Passed: true, Message: message}
}

func fail(message string, details ...string) Result {
	return Result{Passed: false, Message: message, Details: details}
}

func failWith(message string, details []string, suggestions []string) Result {
	return Result{Passed: false, Message: message, Details: details, Suggestions: suggestions}
}
