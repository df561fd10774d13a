package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/graft/internal/logging"
)

// Registry holds rules grouped by category. The zero value is not usable;
// call NewRegistry or DefaultRegistry.
type Registry struct {
	byCategory map[Category][]Rule
	byID       map[string]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byCategory: map[Category][]Rule{},
		byID:       map[string]bool{},
	}
}

// DefaultRegistry returns a registry loaded with every built-in rule.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, rule := range builtinRules() {
		r.Register(rule)
	}
	return r
}

// Register adds a rule. A rule with a duplicate ID replaces the earlier
// registration.
func (r *Registry) Register(rule Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("rule has no id")
	}
	if rule.Check == nil {
		return fmt.Errorf("rule %s has no check function", rule.ID)
	}
	if rule.Category == "" {
		return fmt.Errorf("rule %s has no category", rule.ID)
	}
	if r.byID[rule.ID] {
		r.Unregister(rule.ID)
	}
	r.byCategory[rule.Category] = append(r.byCategory[rule.Category], rule)
	r.byID[rule.ID] = true
	return nil
}

// Unregister removes a rule by ID. Removing an unknown ID is a no-op.
func (r *Registry) Unregister(id string) {
	if !r.byID[id] {
		return
	}
	delete(r.byID, id)
	for cat, rules := range r.byCategory {
		kept := rules[:0]
		for _, rule := range rules {
			if rule.ID != id {
				kept = append(kept, rule)
			}
		}
		r.byCategory[cat] = kept
	}
}

// Category returns the rules registered under one category, in
// registration order.
func (r *Registry) Category(c Category) []Rule {
	return r.byCategory[c]
}

// IDs returns every registered rule ID, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports how many rules are registered.
func (r *Registry) Len() int { return len(r.byID) }

// Engine runs registered rules against a workflow.
type Engine struct {
	registry   *Registry
	logger     *slog.Logger
	failFast   bool
	maxErrors  int
	categories []Category
	observer   func(Result)
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFailFast stops execution after the first error-severity failure.
func WithFailFast() EngineOption {
	return func(e *Engine) { e.failFast = true }
}

// WithMaxErrors caps how many error-severity failures are collected
// before the run stops. Zero means unlimited.
func WithMaxErrors(n int) EngineOption {
	return func(e *Engine) { e.maxErrors = n }
}

// WithCategories restricts execution to a subset of categories. Order
// still follows CategoryOrder, not the argument order.
func WithCategories(cats ...Category) EngineOption {
	return func(e *Engine) { e.categories = cats }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithObserver installs a callback invoked once per rule result, in
// execution order. Useful for metrics.
func WithObserver(fn func(Result)) EngineOption {
	return func(e *Engine) { e.observer = fn }
}

// NewEngine builds an engine over a registry. A nil registry gets the
// built-in rule set.
func NewEngine(registry *Registry, opts ...EngineOption) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	e := &Engine{
		registry: registry,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs every enabled rule category by category and returns the
// aggregate report. The report's Success is true when no error-severity
// rule failed; warnings and info findings never fail a run.
func (e *Engine) Execute(ctx *Context) *Report {
	start := time.Now()
	report := &Report{Success: true}

	if ctx == nil || (ctx.Workflow == nil && ctx.Contract == nil) {
		report.Success = false
		report.Errors = append(report.Errors, "no workflow to validate")
		report.Elapsed = time.Since(start)
		return report
	}

	order := e.order()
	if ctx.Workflow == nil {
		// Contract-only context: everything past the input category needs
		// a graph to inspect.
		order = restrictTo(order, CategoryInput)
		report.Warnings = append(report.Warnings, "no workflow supplied, only input rules ran")
	}

	errorCount := 0
	stopped := false

	for _, cat := range order {
		if stopped {
			break
		}
		for _, rule := range e.registry.Category(cat) {
			if !rule.Enabled {
				continue
			}
			res := e.runRule(rule, ctx)
			report.Results = append(report.Results, res)
			report.TotalRules++
			if e.observer != nil {
				e.observer(res)
			}

			if res.Passed {
				report.Passed++
				continue
			}
			report.Failed++

			switch res.Severity {
			case SeverityError:
				report.Success = false
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", res.RuleID, res.Message))
				errorCount++
				e.logger.Error("rule failed", "rule", res.RuleID, "category", res.Category, "err", res.Message)
				if e.failFast || (e.maxErrors > 0 && errorCount >= e.maxErrors) {
					if e.maxErrors > 0 && errorCount >= e.maxErrors && !e.failFast {
						report.Warnings = append(report.Warnings,
							fmt.Sprintf("stopped after %d errors, remaining rules skipped", e.maxErrors))
					}
					stopped = true
				}
			case SeverityWarning, SeverityInfo:
				report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %s", res.RuleID, res.Message))
				e.logger.Warn("rule flagged", "rule", res.RuleID, "category", res.Category, "msg", res.Message)
			}
			if stopped {
				break
			}
		}
	}

	report.Elapsed = time.Since(start)
	e.logger.Info("validation finished",
		"rules", report.TotalRules,
		"passed", report.Passed,
		"failed", report.Failed,
		"success", report.Success,
	)
	return report
}

// ExecuteCategory runs only one category, honoring the same semantics as
// Execute.
func (e *Engine) ExecuteCategory(ctx *Context, cat Category) *Report {
	scoped := NewEngine(e.registry, WithCategories(cat), WithLogger(e.logger))
	scoped.failFast = e.failFast
	scoped.maxErrors = e.maxErrors
	scoped.observer = e.observer
	return scoped.Execute(ctx)
}

func restrictTo(cats []Category, keep Category) []Category {
	var out []Category
	for _, c := range cats {
		if c == keep {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) order() []Category {
	if len(e.categories) == 0 {
		return CategoryOrder
	}
	want := map[Category]bool{}
	for _, c := range e.categories {
		want[c] = true
	}
	var out []Category
	for _, c := range CategoryOrder {
		if want[c] {
			out = append(out, c)
		}
	}
	return out
}

// runRule executes a single rule, converting panics into error results so
// one broken check cannot take the whole run down.
func (e *Engine) runRule(rule Rule, ctx *Context) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("rule panicked", "rule", rule.ID, "panic", r)
			res = Result{
				RuleID:   rule.ID,
				Category: rule.Category,
				Passed:   false,
				Severity: SeverityError,
				Message:  fmt.Sprintf("rule execution error: %v", r),
				Details:  []string{"RULE_EXECUTION_ERROR"},
			}
		}
	}()

	res = rule.Check(ctx)
	res.RuleID = rule.ID
	res.Category = rule.Category
	if res.Severity == "" {
		res.Severity = rule.Severity
	}
	return res
}
