package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/graft/pkg/contract"
)

// Options controls graph generation.
type Options struct {
	// Name overrides the generated workflow name. When empty a name is
	// derived from the trigger kind.
	Name string

	// AutoLayout positions nodes left to right. Disabled nodes all land
	// at the origin offset.
	AutoLayout bool

	StartX   int
	StartY   int
	SpacingX int
}

// DefaultOptions are the values the CLI and the HTTP adapter use.
func DefaultOptions() Options {
	return Options{
		AutoLayout: true,
		StartX:     250,
		StartY:     300,
		SpacingX:   220,
	}
}

// Stats summarizes a generation run.
type Stats struct {
	Nodes       int   `json:"node_count"`
	Connections int   `json:"connection_count"`
	ElapsedMS   int64 `json:"elapsed_ms"`
}

// Result carries the generated workflow plus anything worth telling the
// caller about. Warnings never block generation; a non-empty Errors slice
// means Workflow is nil.
type Result struct {
	Workflow *Workflow
	Errors   []contract.Issue
	Warnings []contract.Issue
	Stats    Stats
}

// Success reports whether generation produced a workflow.
func (r *Result) Success() bool { return len(r.Errors) == 0 && r.Workflow != nil }

// maxNodeNameLen is the longest step action kept verbatim as a node name.
// Longer actions get a synthetic "<DisplayName> <step>" name instead.
const maxNodeNameLen = 50

// Generate turns a contract into a workflow graph. The trigger becomes the
// first node, each step becomes one node, and nodes are chained in step
// order. Conditional nodes route the next step through their true branch
// and leave the false branch empty.
func Generate(c *contract.Contract, opts Options) Result {
	start := time.Now()
	res := Result{}

	if c == nil {
		res.Errors = append(res.Errors, contract.Issue{
			Code:    contract.CodeEmptyContract,
			Message: "nothing to generate from a nil contract",
		})
		return res
	}
	if len(c.Steps) == 0 {
		res.Errors = append(res.Errors, contract.Issue{
			Code:    contract.CodeEmptyWorkflow,
			Message: "contract has no workflow steps",
		})
		return res
	}

	g := &generator{opts: opts, used: map[string]bool{}}

	w := &Workflow{
		Name:        workflowName(c, opts),
		Connections: map[string]Ports{},
		Active:      false,
		Settings:    map[string]any{},
	}

	trigger, warns := g.triggerNode(c.Trigger)
	res.Warnings = append(res.Warnings, warns...)
	w.Nodes = append(w.Nodes, trigger)

	prev := trigger
	prevConditional := false
	for _, step := range c.Steps {
		node, warn := g.stepNode(step)
		if warn != nil {
			res.Warnings = append(res.Warnings, *warn)
		}
		w.Nodes = append(w.Nodes, node)

		w.Connect(prev.Name, 0, node.Name, 0)
		if prevConditional {
			// The true branch just got wired; reserve an empty false
			// branch so downstream consumers see both outputs.
			ensureOutputs(w, prev.Name, 2)
		}

		prev = node
		prevConditional = node.Type == contract.NodeIf
	}
	if prevConditional {
		ensureOutputs(w, prev.Name, 2)
	}

	res.Workflow = w
	res.Stats = Stats{
		Nodes:       len(w.Nodes),
		Connections: w.ConnectionCount(),
		ElapsedMS:   time.Since(start).Milliseconds(),
	}
	return res
}

type generator struct {
	opts  Options
	seq   int
	used  map[string]bool
	index int
}

func (g *generator) nextID() string {
	g.seq++
	return fmt.Sprintf("graft-%03d", g.seq)
}

// uniqueName reserves a node name, suffixing a counter on collision so the
// connections map stays unambiguous. The suffixed candidate is checked
// too: "Foo", "Foo", "Foo 2" must not hand out "Foo 2" twice.
func (g *generator) uniqueName(name string) string {
	candidate := name
	for i := 2; g.used[candidate]; i++ {
		candidate = fmt.Sprintf("%s %d", name, i)
	}
	g.used[candidate] = true
	return candidate
}

func (g *generator) position() [2]int {
	pos := [2]int{g.opts.StartX, g.opts.StartY}
	if g.opts.AutoLayout {
		pos[0] += g.index * g.opts.SpacingX
	}
	g.index++
	return pos
}

func (g *generator) triggerNode(t contract.Trigger) (*Node, []contract.Issue) {
	var warns []contract.Issue

	typ := ""
	switch t.Kind {
	case contract.TriggerWebhook:
		typ = contract.NodeWebhook
	case contract.TriggerSchedule:
		typ = contract.NodeScheduleTrigger
	case contract.TriggerManual:
		typ = contract.NodeManualTrigger
	default:
		if custom := t.Options["node"]; custom != "" {
			typ = custom
		} else {
			typ = contract.NodeManualTrigger
			warns = append(warns, contract.Issue{
				Code:    contract.CodeUnknownTrigger,
				Message: "custom trigger without a node type, falling back to a manual trigger",
				Section: "trigger",
			})
		}
	}

	node := &Node{
		ID:          g.nextID(),
		Type:        typ,
		TypeVersion: 1,
		Position:    g.position(),
		Parameters:  map[string]any{},
	}

	if spec, ok := Spec(typ); ok {
		node.Name = g.uniqueName(spec.DisplayName)
		node.TypeVersion = spec.Version
		node.Parameters = spec.Defaults()
	} else {
		node.Name = g.uniqueName("Trigger")
	}

	switch t.Kind {
	case contract.TriggerWebhook:
		if t.Path != "" {
			node.Parameters["path"] = strings.TrimPrefix(t.Path, "/")
		}
		if t.Method != "" {
			node.Parameters["httpMethod"] = t.Method
		}
	case contract.TriggerSchedule:
		if t.Schedule != "" {
			node.Parameters["rule"] = map[string]any{
				"interval": []any{map[string]any{
					"field":      "cronExpression",
					"expression": t.Schedule,
				}},
			}
		}
	}
	return node, warns
}

func (g *generator) stepNode(step contract.Step) (*Node, *contract.Issue) {
	var warn *contract.Issue

	typ := step.NodeType
	if typ == "" {
		typ = contract.Classify(step.Action)
	}
	if typ == "" {
		typ = contract.NodeSet
		warn = &contract.Issue{
			Code:    contract.CodeBadField,
			Message: fmt.Sprintf("step %d %q matched no known node type, using a set node", step.Number, step.Action),
			Section: "workflow",
			Line:    step.Number,
		}
	}

	node := &Node{
		ID:          g.nextID(),
		Type:        typ,
		TypeVersion: 1,
		Position:    g.position(),
		Parameters:  map[string]any{},
	}

	display := "Step"
	if spec, ok := Spec(typ); ok {
		display = spec.DisplayName
		node.TypeVersion = spec.Version
		node.Parameters = spec.Defaults()
	}

	name := step.Action
	if len(name) > maxNodeNameLen || name == "" {
		name = fmt.Sprintf("%s %d", display, step.Number)
	}
	node.Name = g.uniqueName(name)

	if typ == contract.NodeIf && step.Condition != "" {
		node.Parameters["conditions"] = map[string]any{
			"conditions": []any{map[string]any{
				"leftValue":  "={{ $json.value }}",
				"rightValue": step.Condition,
				"operator":   map[string]any{"type": "string", "operation": "equals"},
			}},
		}
	}
	return node, warn
}

// ensureOutputs grows a node's main port list to at least n output slots.
func ensureOutputs(w *Workflow, name string, n int) {
	ports, ok := w.Connections[name]
	if !ok {
		ports = Ports{}
		w.Connections[name] = ports
	}
	outs := ports[MainPort]
	for len(outs) < n {
		outs = append(outs, []Link{})
	}
	ports[MainPort] = outs
}

func workflowName(c *contract.Contract, opts Options) string {
	if opts.Name != "" {
		return opts.Name
	}
	kind := string(c.Trigger.Kind)
	if kind == "" {
		kind = "manual"
	}
	return fmt.Sprintf("Generated %s workflow", kind)
}
