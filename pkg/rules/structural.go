package rules

import (
	"fmt"
	"sort"

	"github.com/aretw0/graft/pkg/workflow"
)

// Structural rules look at the graph shape: every connection endpoint
// must resolve, names must be unique, and non-trigger nodes must be
// reachable from a trigger.
func structuralRules() []Rule {
	return []Rule{
		{
			ID:       "structural-unique-names",
			Name:     "node names are unique",
			Category: CategoryStructural,
			Severity: SeverityError,
			Enabled:  true,
			Check:    checkUniqueNames,
		},
		{
			ID:       "structural-connections-resolve",
			Name:     "connections reference existing nodes",
			Category: CategoryStructural,
			Severity: SeverityError,
			Enabled:  true,
			Check:    checkConnectionsResolve,
		},
		{
			ID:       "structural-no-orphans",
			Name:     "non-trigger nodes have an inbound connection",
			Category: CategoryStructural,
			Severity: SeverityWarning,
			Enabled:  true,
			Check:    checkOrphans,
		},
		{
			ID:       "structural-reachability",
			Name:     "every node is reachable from a trigger",
			Category: CategoryStructural,
			Severity: SeverityWarning,
			Enabled:  true,
			Check:    checkReachability,
		},
	}
}

func checkUniqueNames(ctx *Context) Result {
	seen := map[string]bool{}
	var dups []string
	for _, n := range ctx.Workflow.Nodes {
		if seen[n.Name] {
			dups = append(dups, fmt.Sprintf("name %q used by more than one node", n.Name))
		}
		seen[n.Name] = true
	}
	if len(dups) > 0 {
		return failWith("duplicate node names", dups,
			[]string{"rename the duplicated nodes so connections stay unambiguous"})
	}
	return pass("all node names are unique")
}

func checkConnectionsResolve(ctx *Context) Result {
	w := ctx.Workflow
	exists := map[string]bool{}
	for _, n := range w.Nodes {
		exists[n.Name] = true
	}

	var details []string
	sources := make([]string, 0, len(w.Connections))
	for from := range w.Connections {
		sources = append(sources, from)
	}
	sort.Strings(sources)

	for _, from := range sources {
		if !exists[from] {
			details = append(details, fmt.Sprintf("connection source %q is not a node", from))
		}
		for _, outputs := range w.Connections[from] {
			for _, links := range outputs {
				for _, link := range links {
					if !exists[link.Node] {
						details = append(details, fmt.Sprintf("connection from %q targets missing node %q", from, link.Node))
					}
				}
			}
		}
	}
	if len(details) > 0 {
		return fail("unresolved connection endpoints", details...)
	}
	return pass("all connections resolve")
}

func checkOrphans(ctx *Context) Result {
	w := ctx.Workflow
	inbound := inboundSet(w)

	var details []string
	for _, n := range w.Nodes {
		if workflow.IsTriggerType(n.Type) {
			continue
		}
		if !inbound[n.Name] {
			details = append(details, fmt.Sprintf("node %q has no inbound connection", n.Name))
		}
	}
	if len(details) > 0 {
		return failWith("orphan nodes", details,
			[]string{"connect the node into the flow or remove it"})
	}
	return pass("no orphan nodes")
}

// checkReachability walks the graph breadth first from every trigger
// node and flags anything the walk never visits.
func checkReachability(ctx *Context) Result {
	w := ctx.Workflow

	var queue []string
	visited := map[string]bool{}
	for _, n := range w.Nodes {
		if workflow.IsTriggerType(n.Type) {
			queue = append(queue, n.Name)
			visited[n.Name] = true
		}
	}
	if len(queue) == 0 {
		// The flow category reports the missing trigger.
		return pass("no trigger to walk from")
	}

	adj := adjacency(w)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	var details []string
	for _, n := range w.Nodes {
		if !visited[n.Name] {
			details = append(details, fmt.Sprintf("node %q is unreachable from any trigger", n.Name))
		}
	}
	if len(details) > 0 {
		return fail("unreachable nodes", details...)
	}
	return pass("every node is reachable")
}

// adjacency builds a name -> successor-names map in deterministic order.
func adjacency(w *workflow.Workflow) map[string][]string {
	adj := map[string][]string{}
	for _, e := range w.Edges() {
		adj[e.From] = append(adj[e.From], e.To)
	}
	return adj
}

func inboundSet(w *workflow.Workflow) map[string]bool {
	inbound := map[string]bool{}
	for _, e := range w.Edges() {
		inbound[e.To] = true
	}
	return inbound
}
