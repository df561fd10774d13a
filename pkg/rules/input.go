package rules

import (
	"fmt"
	"strings"

	"github.com/aretw0/graft/pkg/contract"
)

// builtinRules returns every rule the default registry ships with.
func builtinRules() []Rule {
	var rules []Rule
	rules = append(rules, inputRules()...)
	rules = append(rules, structuralRules()...)
	rules = append(rules, nodeRules()...)
	rules = append(rules, flowRules()...)
	rules = append(rules, outputRules()...)
	return rules
}

// Input rules check the contract the workflow was generated from. They
// all pass when the caller validates a workflow without its contract.
func inputRules() []Rule {
	return []Rule{
		{
			ID:       "input-trigger-present",
			Name:     "contract declares a trigger",
			Category: CategoryInput,
			Severity: SeverityError,
			Enabled:  true,
			Check:    checkInputTrigger,
		},
		{
			ID:       "input-steps-present",
			Name:     "contract declares workflow steps",
			Category: CategoryInput,
			Severity: SeverityError,
			Enabled:  true,
			Check:    checkInputSteps,
		},
		{
			ID:       "input-step-numbering",
			Name:     "steps are numbered without duplicates",
			Category: CategoryInput,
			Severity: SeverityWarning,
			Enabled:  true,
			Check:    checkInputStepNumbers,
		},
		{
			ID:       "input-ambiguities",
			Name:     "strict mode finds no ambiguous declarations",
			Category: CategoryInput,
			Severity: SeverityError,
			Enabled:  true,
			Check:    checkInputAmbiguities,
		},
		{
			ID:       "input-constraints-honored",
			Name:     "node types respect contract constraints",
			Category: CategoryInput,
			Severity: SeverityError,
			Enabled:  true,
			Check:    checkInputConstraints,
		},
	}
}

func checkInputTrigger(ctx *Context) Result {
	if ctx.Contract == nil {
		return pass("no contract supplied, skipping")
	}
	if !contract.KnownTriggerKind(ctx.Contract.Trigger.Kind) {
		return fail(fmt.Sprintf("trigger kind %q is not recognized", ctx.Contract.Trigger.Kind))
	}
	return pass("trigger declared")
}

func checkInputSteps(ctx *Context) Result {
	if ctx.Contract == nil {
		return pass("no contract supplied, skipping")
	}
	if len(ctx.Contract.Steps) == 0 {
		return fail("contract has no workflow steps")
	}
	return pass(fmt.Sprintf("%d steps declared", len(ctx.Contract.Steps)))
}

func checkInputStepNumbers(ctx *Context) Result {
	if ctx.Contract == nil {
		return pass("no contract supplied, skipping")
	}
	seen := map[int]bool{}
	var dups []string
	for _, s := range ctx.Contract.Steps {
		if seen[s.Number] {
			dups = append(dups, fmt.Sprintf("step %d appears more than once", s.Number))
		}
		seen[s.Number] = true
	}
	if len(dups) > 0 {
		return fail("duplicate step numbers", dups...)
	}
	return pass("step numbering is consistent")
}

// checkInputAmbiguities is the strict-mode scan: declarations the lenient
// compiler accepts with a default are errors here because the caller
// asked for an unambiguous contract.
func checkInputAmbiguities(ctx *Context) Result {
	if ctx.Contract == nil {
		return pass("no contract supplied, skipping")
	}
	if !ctx.Strict {
		return pass("strict mode off, ambiguity scan skipped")
	}

	c := ctx.Contract
	var details []string
	if c.Meta == (contract.Meta{}) {
		details = append(details, "meta section is missing or empty")
	}
	if c.Trigger.Kind == contract.TriggerWebhook && c.Trigger.Path == "" {
		details = append(details, "webhook trigger declares no path")
	}
	for _, s := range c.Steps {
		if s.NodeType == "" && strings.TrimSpace(s.Action) == "" {
			details = append(details, fmt.Sprintf("step %d has neither a node type nor action text", s.Number))
		}
	}

	if len(details) > 0 {
		return failWith("ambiguous contract declarations", details,
			[]string{"fill in the flagged fields or compile without strict mode"})
	}
	return pass("no ambiguous declarations")
}

// checkInputConstraints enforces allowed-types, forbidden-types and
// max-nodes from the contract's constraints block against the generated
// graph.
func checkInputConstraints(ctx *Context) Result {
	if ctx.Contract == nil || ctx.Contract.Constraints == nil {
		return pass("no constraints declared")
	}
	cons := ctx.Contract.Constraints

	var details []string
	allowed := map[string]bool{}
	for _, t := range cons.AllowedTypes {
		allowed[normalizeType(t)] = true
	}
	forbidden := map[string]bool{}
	for _, t := range cons.ForbiddenTypes {
		forbidden[normalizeType(t)] = true
	}

	if ctx.Workflow != nil {
		for _, n := range ctx.Workflow.Nodes {
			short := normalizeType(n.Type)
			if len(allowed) > 0 && !allowed[short] {
				details = append(details, fmt.Sprintf("node %q uses type %s outside the allowed list", n.Name, n.Type))
			}
			if forbidden[short] {
				details = append(details, fmt.Sprintf("node %q uses forbidden type %s", n.Name, n.Type))
			}
		}
		if cons.MaxNodes > 0 && len(ctx.Workflow.Nodes) > cons.MaxNodes {
			details = append(details, fmt.Sprintf("workflow has %d nodes, constraint allows %d", len(ctx.Workflow.Nodes), cons.MaxNodes))
		}
	}

	if len(details) > 0 {
		return failWith("contract constraints violated", details,
			[]string{"relax the constraints block or adjust the workflow steps"})
	}
	return pass("constraints satisfied")
}

// normalizeType compares "httpRequest" and "n8n-nodes-base.httpRequest"
// as the same thing, case-insensitively.
func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.LastIndex(t, "."); i >= 0 {
		t = t[i+1:]
	}
	return t
}
