package rules

import (
	"fmt"
	"strings"

	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/workflow"
)

// defaultMaxNodes caps workflow size when the contract sets no limit.
const defaultMaxNodes = 100

// Flow rules validate execution semantics: exactly one trigger, no
// cycles, no silent dead ends, and a sane graph size.
func flowRules() []Rule {
	return []Rule{
		{
			ID:       "flow-single-trigger",
			Name:     "workflow has exactly one trigger",
			Category: CategoryFlow,
			Severity: SeverityError,
			Enabled:  true,
			Check:    checkSingleTrigger,
		},
		{
			ID:       "flow-no-cycles",
			Name:     "workflow graph is acyclic",
			Category: CategoryFlow,
			Severity: SeverityError,
			Enabled:  true,
			Check:    checkCycles,
		},
		{
			ID:       "flow-dead-ends",
			Name:     "paths end at terminal nodes",
			Category: CategoryFlow,
			Severity: SeverityInfo,
			Enabled:  true,
			Check:    checkDeadEnds,
		},
		{
			ID:       "flow-size",
			Name:     "workflow stays within the node limit",
			Category: CategoryFlow,
			Severity: SeverityWarning,
			Enabled:  true,
			Check:    checkSize,
		},
	}
}

func checkSingleTrigger(ctx *Context) Result {
	var triggers []string
	for _, n := range ctx.Workflow.Nodes {
		if workflow.IsTriggerType(n.Type) {
			triggers = append(triggers, n.Name)
		}
	}
	switch len(triggers) {
	case 1:
		return pass(fmt.Sprintf("single trigger %q", triggers[0]))
	case 0:
		return failWith("workflow has no trigger node", nil,
			[]string{"declare a trigger section so the workflow can start"})
	default:
		return failWith(
			fmt.Sprintf("workflow has %d trigger nodes, expected one", len(triggers)),
			[]string{"triggers: " + strings.Join(triggers, ", ")},
			[]string{"split the extra triggers into separate workflows"})
	}
}

// checkCycles runs a depth first walk with a recursion stack. The first
// cycle found is reported with its member nodes.
func checkCycles(ctx *Context) Result {
	adj := adjacency(ctx.Workflow)

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := map[string]int{}
	var stack []string
	var cycle []string

	var walk func(name string) bool
	walk = func(name string) bool {
		state[name] = visiting
		stack = append(stack, name)
		for _, next := range adj[name] {
			switch state[next] {
			case visiting:
				// Slice the stack from the first occurrence of next to
				// get the cycle members in walk order.
				for i, s := range stack {
					if s == next {
						cycle = append([]string(nil), stack[i:]...)
						cycle = append(cycle, next)
						break
					}
				}
				return true
			case unvisited:
				if walk(next) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return false
	}

	for _, n := range ctx.Workflow.Nodes {
		if state[n.Name] == unvisited {
			if walk(n.Name) {
				return failWith("workflow contains a cycle",
					[]string{"cycle: " + strings.Join(cycle, " -> ")},
					[]string{"break the loop or route it through a conditional exit"})
			}
		}
	}
	return pass("graph is acyclic")
}

// checkDeadEnds flags nodes without outgoing connections unless they are
// terminal by nature or the empty false branch of a conditional.
func checkDeadEnds(ctx *Context) Result {
	w := ctx.Workflow
	adj := adjacency(w)

	var details []string
	for _, n := range w.Nodes {
		if len(adj[n.Name]) > 0 {
			continue
		}
		if workflow.IsTerminalType(n.Type) {
			continue
		}
		if n.Type == contract.NodeIf {
			// A conditional with no successors at all is still a dead
			// end; one with only an empty false branch is not, and that
			// case has successors and never reaches here.
			details = append(details, fmt.Sprintf("conditional %q has no connected branches", n.Name))
			continue
		}
		details = append(details, fmt.Sprintf("node %q ends the flow without a terminal action", n.Name))
	}
	if len(details) > 0 {
		return failWith("possible dead ends", details,
			[]string{"finish paths with a response, notification or other terminal node"})
	}
	return pass("all paths end deliberately")
}

func checkSize(ctx *Context) Result {
	limit := defaultMaxNodes
	if ctx.Contract != nil && ctx.Contract.Constraints != nil && ctx.Contract.Constraints.MaxNodes > 0 {
		limit = ctx.Contract.Constraints.MaxNodes
	}
	if n := len(ctx.Workflow.Nodes); n > limit {
		return fail(fmt.Sprintf("workflow has %d nodes, limit is %d", n, limit))
	}
	return pass("workflow size is within limits")
}
