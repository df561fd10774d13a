package rules

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/graft/pkg/workflow"
)

// Output rules guard the export format: the document must serialize,
// survive a round trip, and keep the connection link shape consumers
// expect.
func outputRules() []Rule {
	return []Rule{
		{
			ID:       "output-serializable",
			Name:     "workflow serializes to JSON",
			Category: CategoryOutput,
			Severity: SeverityError,
			Enabled:  true,
			Check:    checkSerializable,
		},
		{
			ID:       "output-round-trip",
			Name:     "encoding preserves the graph",
			Category: CategoryOutput,
			Severity: SeverityError,
			Enabled:  true,
			Check:    checkRoundTrip,
		},
		{
			ID:       "output-link-shape",
			Name:     "connection links carry node, type and index",
			Category: CategoryOutput,
			Severity: SeverityError,
			Enabled:  true,
			Check:    checkLinkShape,
		},
	}
}

func checkSerializable(ctx *Context) Result {
	if _, err := workflow.EncodeJSON(ctx.Workflow); err != nil {
		return fail(fmt.Sprintf("workflow does not serialize: %v", err))
	}
	return pass("workflow serializes")
}

func checkRoundTrip(ctx *Context) Result {
	out, err := workflow.EncodeJSON(ctx.Workflow)
	if err != nil {
		return fail(fmt.Sprintf("encode failed: %v", err))
	}
	back, err := workflow.DecodeJSON(out)
	if err != nil {
		return fail(fmt.Sprintf("decode failed: %v", err))
	}

	var details []string
	if len(back.Nodes) != len(ctx.Workflow.Nodes) {
		details = append(details, fmt.Sprintf("node count changed from %d to %d", len(ctx.Workflow.Nodes), len(back.Nodes)))
	}
	if back.ConnectionCount() != ctx.Workflow.ConnectionCount() {
		details = append(details, fmt.Sprintf("connection count changed from %d to %d", ctx.Workflow.ConnectionCount(), back.ConnectionCount()))
	}
	if len(details) > 0 {
		return fail("round trip lost structure", details...)
	}
	return pass("round trip preserves the graph")
}

// checkLinkShape re-reads the serialized document as raw JSON and checks
// each link object carries the three expected keys with sane values.
func checkLinkShape(ctx *Context) Result {
	out, err := workflow.EncodeJSON(ctx.Workflow)
	if err != nil {
		return fail(fmt.Sprintf("encode failed: %v", err))
	}
	var doc struct {
		Connections map[string]map[string][][]map[string]any `json:"connections"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		return fail(fmt.Sprintf("connections block is malformed: %v", err))
	}

	var details []string
	for from, ports := range doc.Connections {
		for port, outputs := range ports {
			for i, links := range outputs {
				for _, link := range links {
					node, _ := link["node"].(string)
					typ, _ := link["type"].(string)
					idx, hasIdx := link["index"]
					if node == "" || typ == "" || !hasIdx {
						details = append(details, fmt.Sprintf("link from %s/%s output %d lacks node, type or index", from, port, i))
						continue
					}
					if f, ok := idx.(float64); !ok || f < 0 {
						details = append(details, fmt.Sprintf("link from %s/%s output %d has a bad index", from, port, i))
					}
				}
			}
		}
	}
	if len(details) > 0 {
		return fail("malformed connection links", details...)
	}
	return pass("connection links are well formed")
}
