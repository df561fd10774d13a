package graft

import (
	"log/slog"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/dsl"
	"github.com/aretw0/graft/pkg/rules"
	"github.com/aretw0/graft/pkg/workflow"
)

// Version is the module version, overridable at build time.
var Version = "0.1.0"

// Engine runs the full compile, generate and validate pipeline.
type Engine struct {
	logger   *slog.Logger
	strict   bool
	fastPath bool
	registry *rules.Registry
	genOpts  workflow.Options
	ruleOpts []rules.EngineOption
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the pipeline logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithStrict makes the transformer treat a missing meta section as an
// error and lets rules tighten their own checks.
func WithStrict() Option {
	return func(e *Engine) { e.strict = true }
}

// WithFastPath compiles through the regex sketch extractor instead of
// the lexer and parser. Best effort; hostile input belongs on the
// canonical path.
func WithFastPath() Option {
	return func(e *Engine) { e.fastPath = true }
}

// WithRegistry replaces the built-in rule set.
func WithRegistry(r *rules.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithGenerateOptions overrides workflow generation options.
func WithGenerateOptions(opts workflow.Options) Option {
	return func(e *Engine) { e.genOpts = opts }
}

// WithRuleOptions forwards options to the validation engine, such as
// rules.WithFailFast or rules.WithObserver.
func WithRuleOptions(opts ...rules.EngineOption) Option {
	return func(e *Engine) { e.ruleOpts = append(e.ruleOpts, opts...) }
}

// New builds an Engine. Without options it uses the default rule
// registry, default layout and a no-op logger.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:  logging.NewNop(),
		genOpts: workflow.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = rules.DefaultRegistry()
	}
	return e
}

// CompileResult is the outcome of the DSL to contract stage.
type CompileResult struct {
	Contract *contract.Contract
	Errors   []contract.Issue
	Warnings []contract.Issue

	// Canonical is the contract formatted back as DSL text. Compiling
	// it again yields the same contract.
	Canonical string
}

// Success reports whether compilation produced a usable contract.
func (r *CompileResult) Success() bool { return len(r.Errors) == 0 && r.Contract != nil }

// GenerateResult is the outcome of the full pipeline.
type GenerateResult struct {
	Compile  *CompileResult
	Workflow *workflow.Workflow
	JSON     []byte
	Report   *rules.Report
	Stats    workflow.Stats
	Warnings []contract.Issue
}

// Success reports whether every stage, validation included, passed.
func (r *GenerateResult) Success() bool {
	return r.Compile.Success() && r.Workflow != nil && r.Report != nil && r.Report.Success
}

// Compile turns DSL source into a contract. Syntax errors from the lexer
// and parser surface as issues with line information; the result always
// carries whatever partial contract the transformer could build.
func (e *Engine) Compile(src string) *CompileResult {
	res := &CompileResult{}

	var doc *dsl.Document
	if e.fastPath {
		sres := contract.Sketch(src, contract.Options{Strict: e.strict})
		res.Contract = sres.Contract
		res.Errors = sres.Errors
		res.Warnings = sres.Warnings
	} else {
		scan := dsl.Tokenize(src, dsl.ScanOptions{IgnoreComments: true})
		res.Errors = append(res.Errors, syntaxIssues(scan.Errors)...)
		res.Warnings = append(res.Warnings, syntaxIssues(scan.Warnings)...)

		parsed := dsl.Parse(scan.Tokens, dsl.ParseOptions{})
		res.Errors = append(res.Errors, syntaxIssues(parsed.Errors)...)
		res.Warnings = append(res.Warnings, syntaxIssues(parsed.Warnings)...)
		doc = parsed.Document

		tres := contract.Transform(doc, contract.Options{Strict: e.strict})
		res.Contract = tres.Contract
		res.Errors = append(res.Errors, tres.Errors...)
		res.Warnings = append(res.Warnings, tres.Warnings...)
	}

	if res.Success() {
		res.Canonical = contract.Format(res.Contract)
	}
	e.logger.Info("compiled contract",
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
		"fast_path", e.fastPath,
	)
	return res
}

// Generate runs the whole pipeline on DSL source: compile, build the
// graph, validate it, and serialize it. A failed compile stops early; a
// failed validation still returns the workflow and its JSON so callers
// can inspect what went wrong.
func (e *Engine) Generate(src string) *GenerateResult {
	out := &GenerateResult{Compile: e.Compile(src)}
	if !out.Compile.Success() {
		return out
	}

	gen := workflow.Generate(out.Compile.Contract, e.genOpts)
	out.Warnings = append(out.Warnings, gen.Warnings...)
	out.Stats = gen.Stats
	if !gen.Success() {
		out.Compile.Errors = append(out.Compile.Errors, gen.Errors...)
		return out
	}
	out.Workflow = gen.Workflow

	out.Report = e.Validate(out.Workflow, out.Compile.Contract)

	data, err := workflow.EncodeJSON(out.Workflow)
	if err != nil {
		e.logger.Error("workflow serialization failed", "err", err)
		out.Compile.Errors = append(out.Compile.Errors, contract.Issue{
			Code:    contract.CodeSyntax,
			Message: "workflow serialization failed: " + err.Error(),
		})
		return out
	}
	out.JSON = data

	e.logger.Info("generated workflow",
		"nodes", out.Stats.Nodes,
		"connections", out.Stats.Connections,
		"valid", out.Report.Success,
	)
	return out
}

// Validate runs the rule engine over a workflow. The contract may be nil
// when validating a workflow that was not compiled here.
func (e *Engine) Validate(w *workflow.Workflow, c *contract.Contract) *rules.Report {
	opts := append([]rules.EngineOption{rules.WithLogger(e.logger)}, e.ruleOpts...)
	engine := rules.NewEngine(e.registry, opts...)
	ctx := &rules.Context{Contract: c, Workflow: w, Strict: e.strict}
	if c != nil {
		ctx.TargetVersion = c.Meta.RuntimeVersion
	}
	return engine.Execute(ctx)
}

// ValidateCategory runs a single rule category.
func (e *Engine) ValidateCategory(w *workflow.Workflow, c *contract.Contract, cat rules.Category) *rules.Report {
	opts := append([]rules.EngineOption{rules.WithLogger(e.logger)}, e.ruleOpts...)
	engine := rules.NewEngine(e.registry, opts...)
	ctx := &rules.Context{Contract: c, Workflow: w, Strict: e.strict}
	return engine.ExecuteCategory(ctx, cat)
}

// syntaxIssues converts lexer and parser errors to contract issues so
// the whole pipeline reports through one shape.
func syntaxIssues(errs []*dsl.ParseError) []contract.Issue {
	var out []contract.Issue
	for _, err := range errs {
		out = append(out, contract.Issue{
			Code:    contract.CodeSyntax,
			Message: err.Message,
			Line:    err.Pos.Line,
		})
	}
	return out
}
