package rules

import (
	"fmt"
	"sort"

	"github.com/aretw0/graft/pkg/schema"
	"github.com/aretw0/graft/pkg/workflow"
)

// Node rules validate individual nodes: types against the catalog,
// required parameters, id uniqueness and layout sanity.
func nodeRules() []Rule {
	return []Rule{
		{
			ID:       "node-known-type",
			Name:     "node types exist in the catalog",
			Category: CategoryNode,
			Severity: SeverityWarning,
			Enabled:  true,
			Check:    checkKnownTypes,
		},
		{
			ID:       "node-required-parameters",
			Name:     "required node parameters are set",
			Category: CategoryNode,
			Severity: SeverityError,
			Enabled:  true,
			Check:    checkRequiredParameters,
		},
		{
			ID:       "node-unique-ids",
			Name:     "node ids are unique and non-empty",
			Category: CategoryNode,
			Severity: SeverityError,
			Enabled:  true,
			Check:    checkNodeIDs,
		},
		{
			ID:       "node-positions",
			Name:     "nodes sit inside the canvas at distinct positions",
			Category: CategoryNode,
			Severity: SeverityInfo,
			Enabled:  true,
			Check:    checkPositions,
		},
	}
}

func checkKnownTypes(ctx *Context) Result {
	var details []string
	for _, n := range ctx.Workflow.Nodes {
		if !workflow.KnownType(n.Type) {
			details = append(details, fmt.Sprintf("node %q has unrecognized type %s", n.Name, n.Type))
		}
	}
	if len(details) > 0 {
		return failWith("unknown node types", details,
			[]string{"unknown types still export, but the runtime may refuse to import them"})
	}
	return pass("all node types are known")
}

// checkRequiredParameters validates each known node's parameters against
// the catalog's schema. Unknown types are skipped here; the known-type
// rule already flags them.
func checkRequiredParameters(ctx *Context) Result {
	var details []string
	for _, n := range ctx.Workflow.Nodes {
		spec, ok := workflow.Spec(n.Type)
		if !ok {
			continue
		}
		if err := schema.Validate(spec.Required, n.Parameters); err != nil {
			for _, ve := range schema.ValidationErrors(err) {
				details = append(details, fmt.Sprintf("node %q: %s", n.Name, ve.Error()))
			}
		}
	}
	if len(details) > 0 {
		// Schema iteration order is not stable, keep reports readable.
		sort.Strings(details)
		return failWith("missing or invalid node parameters", details,
			[]string{"fill the parameters in the workflow section or rely on catalog defaults"})
	}
	return pass("all required parameters are set")
}

func checkNodeIDs(ctx *Context) Result {
	seen := map[string]bool{}
	var details []string
	for i, n := range ctx.Workflow.Nodes {
		if n.ID == "" {
			details = append(details, fmt.Sprintf("node %d (%q) has an empty id", i, n.Name))
			continue
		}
		if seen[n.ID] {
			details = append(details, fmt.Sprintf("id %q used by more than one node", n.ID))
		}
		seen[n.ID] = true
	}
	if len(details) > 0 {
		return fail("bad node ids", details...)
	}
	return pass("node ids are unique")
}

// maxCanvasCoord bounds node coordinates; editors place freely but far
// off-canvas nodes are invisible after import.
const maxCanvasCoord = 10000

func checkPositions(ctx *Context) Result {
	seen := map[[2]int]string{}
	var details []string
	for _, n := range ctx.Workflow.Nodes {
		x, y := n.Position[0], n.Position[1]
		if x < 0 || y < 0 || x > maxCanvasCoord || y > maxCanvasCoord {
			details = append(details, fmt.Sprintf("node %q sits off canvas at %v", n.Name, n.Position))
		}
		if other, ok := seen[n.Position]; ok {
			details = append(details, fmt.Sprintf("nodes %q and %q overlap at %v", other, n.Name, n.Position))
			continue
		}
		seen[n.Position] = n.Name
	}
	if len(details) > 0 {
		return failWith("node layout problems", details,
			[]string{"enable auto layout so nodes spread across the canvas"})
	}
	return pass("node positions are distinct and on canvas")
}
