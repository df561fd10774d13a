package rules

import (
	"strings"
	"testing"

	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/workflow"
)

// graphOf builds a workflow by hand so structural defects can be staged
// without fighting the generator's guarantees.
func graphOf(nodes []*workflow.Node, connect func(w *workflow.Workflow)) *workflow.Workflow {
	w := &workflow.Workflow{
		Name:        "test",
		Nodes:       nodes,
		Connections: map[string]workflow.Ports{},
		Settings:    map[string]any{},
	}
	if connect != nil {
		connect(w)
	}
	return w
}

func node(id, name, typ string) *workflow.Node {
	n := &workflow.Node{ID: id, Name: name, Type: typ, TypeVersion: 1, Parameters: map[string]any{}}
	if spec, ok := workflow.Spec(typ); ok {
		n.TypeVersion = spec.Version
		n.Parameters = spec.Defaults()
	}
	return n
}

func resultFor(t *testing.T, report *Report, ruleID string) Result {
	t.Helper()
	for _, res := range report.Results {
		if res.RuleID == ruleID {
			return res
		}
	}
	t.Fatalf("rule %s produced no result", ruleID)
	return Result{}
}

func TestCycleDetection(t *testing.T) {
	w := graphOf([]*workflow.Node{
		node("graft-001", "Webhook", contract.NodeWebhook),
		node("graft-002", "A", contract.NodeSet),
		node("graft-003", "B", contract.NodeSet),
		node("graft-004", "C", contract.NodeSet),
	}, func(w *workflow.Workflow) {
		w.Connect("Webhook", 0, "A", 0)
		w.Connect("A", 0, "B", 0)
		w.Connect("B", 0, "C", 0)
		w.Connect("C", 0, "A", 0)
	})

	report := NewEngine(nil).Execute(&Context{Workflow: w})
	res := resultFor(t, report, "flow-no-cycles")
	if res.Passed {
		t.Fatal("cycle went undetected")
	}
	if len(res.Details) == 0 || !strings.Contains(res.Details[0], "A") {
		t.Errorf("cycle report should name its members: %v", res.Details)
	}
	if report.Success {
		t.Error("a cycle must fail the run")
	}
}

func TestAcyclicGraphPassesCycleRule(t *testing.T) {
	report := NewEngine(nil).Execute(&Context{Workflow: validChain()})
	if res := resultFor(t, report, "flow-no-cycles"); !res.Passed {
		t.Errorf("acyclic graph flagged: %s", res.Message)
	}
}

func TestMultipleTriggers(t *testing.T) {
	w := graphOf([]*workflow.Node{
		node("graft-001", "Webhook", contract.NodeWebhook),
		node("graft-002", "Cron", contract.NodeScheduleTrigger),
		node("graft-003", "Slack", contract.NodeSlack),
	}, func(w *workflow.Workflow) {
		w.Connect("Webhook", 0, "Slack", 0)
		w.Connect("Cron", 0, "Slack", 0)
	})

	report := NewEngine(nil).Execute(&Context{Workflow: w})
	res := resultFor(t, report, "flow-single-trigger")
	if res.Passed {
		t.Fatal("two triggers should fail the single trigger rule")
	}
	if report.Success {
		t.Error("run should fail")
	}
}

func TestMissingTrigger(t *testing.T) {
	w := graphOf([]*workflow.Node{
		node("graft-001", "Slack", contract.NodeSlack),
	}, nil)

	report := NewEngine(nil).Execute(&Context{Workflow: w})
	if res := resultFor(t, report, "flow-single-trigger"); res.Passed {
		t.Error("missing trigger should fail")
	}
}

func TestOrphanNode(t *testing.T) {
	w := graphOf([]*workflow.Node{
		node("graft-001", "Webhook", contract.NodeWebhook),
		node("graft-002", "Slack", contract.NodeSlack),
		node("graft-003", "Loner", contract.NodeSet),
	}, func(w *workflow.Workflow) {
		w.Connect("Webhook", 0, "Slack", 0)
	})

	report := NewEngine(nil).Execute(&Context{Workflow: w})
	res := resultFor(t, report, "structural-no-orphans")
	if res.Passed {
		t.Fatal("orphan went unnoticed")
	}
	if res.Severity != SeverityWarning {
		t.Errorf("orphans are a warning, got %s", res.Severity)
	}
	// A warning alone must not fail the run, but the orphan is also
	// unreachable, which is another warning. Still no errors.
	if !report.Success {
		t.Errorf("warnings should not fail the run: %v", report.Errors)
	}
}

func TestUnresolvedConnection(t *testing.T) {
	w := graphOf([]*workflow.Node{
		node("graft-001", "Webhook", contract.NodeWebhook),
	}, func(w *workflow.Workflow) {
		w.Connect("Webhook", 0, "Ghost", 0)
	})

	report := NewEngine(nil).Execute(&Context{Workflow: w})
	res := resultFor(t, report, "structural-connections-resolve")
	if res.Passed {
		t.Fatal("dangling connection went unnoticed")
	}
	if report.Success {
		t.Error("unresolved endpoints must fail the run")
	}
}

func TestDuplicateNodeNames(t *testing.T) {
	w := graphOf([]*workflow.Node{
		node("graft-001", "Webhook", contract.NodeWebhook),
		node("graft-002", "Same", contract.NodeSet),
		node("graft-003", "Same", contract.NodeSlack),
	}, func(w *workflow.Workflow) {
		w.Connect("Webhook", 0, "Same", 0)
	})

	report := NewEngine(nil).Execute(&Context{Workflow: w})
	if res := resultFor(t, report, "structural-unique-names"); res.Passed {
		t.Error("duplicate names should fail")
	}
}

func TestUnknownNodeTypeIsWarning(t *testing.T) {
	w := graphOf([]*workflow.Node{
		node("graft-001", "Webhook", contract.NodeWebhook),
		node("graft-002", "Odd", "n8n-nodes-base.futuristicGadget"),
	}, func(w *workflow.Workflow) {
		w.Connect("Webhook", 0, "Odd", 0)
	})

	report := NewEngine(nil).Execute(&Context{Workflow: w})
	res := resultFor(t, report, "node-known-type")
	if res.Passed {
		t.Fatal("unknown type went unnoticed")
	}
	if res.Severity != SeverityWarning {
		t.Errorf("unknown types warn, got %s", res.Severity)
	}
}

func TestMissingRequiredParameter(t *testing.T) {
	bad := node("graft-002", "Call", contract.NodeHTTPRequest)
	delete(bad.Parameters, "url")
	w := graphOf([]*workflow.Node{
		node("graft-001", "Webhook", contract.NodeWebhook),
		bad,
	}, func(w *workflow.Workflow) {
		w.Connect("Webhook", 0, "Call", 0)
	})

	report := NewEngine(nil).Execute(&Context{Workflow: w})
	res := resultFor(t, report, "node-required-parameters")
	if res.Passed {
		t.Fatal("missing url went unnoticed")
	}
	if report.Success {
		t.Error("missing required parameters must fail the run")
	}
}

func TestDeadEndExemptions(t *testing.T) {
	// Slack is terminal, no finding. Set is not, finding at info level.
	w := graphOf([]*workflow.Node{
		node("graft-001", "Webhook", contract.NodeWebhook),
		node("graft-002", "Transform", contract.NodeSet),
	}, func(w *workflow.Workflow) {
		w.Connect("Webhook", 0, "Transform", 0)
	})

	report := NewEngine(nil).Execute(&Context{Workflow: w})
	res := resultFor(t, report, "flow-dead-ends")
	if res.Passed {
		t.Fatal("non-terminal dead end went unnoticed")
	}
	if res.Severity != SeverityInfo {
		t.Errorf("dead ends are informational, got %s", res.Severity)
	}
	if !report.Success {
		t.Errorf("info findings must not fail the run: %v", report.Errors)
	}

	if r := resultFor(t, NewEngine(nil).Execute(&Context{Workflow: validChain()}), "flow-dead-ends"); !r.Passed {
		t.Errorf("terminal slack node flagged as dead end: %s", r.Message)
	}
}

func TestConditionalFalseBranchIsNotDeadEnd(t *testing.T) {
	c := &contract.Contract{
		Trigger: contract.Trigger{Kind: contract.TriggerWebhook, Path: "/x"},
		Steps: []contract.Step{
			{Number: 1, Action: "if amount is high", NodeType: contract.NodeIf, Condition: "amount is high"},
			{Number: 2, Action: "notify slack", NodeType: contract.NodeSlack},
		},
	}
	w := workflow.Generate(c, workflow.DefaultOptions()).Workflow

	report := NewEngine(nil).Execute(&Context{Workflow: w})
	if res := resultFor(t, report, "flow-dead-ends"); !res.Passed {
		t.Errorf("connected conditional flagged: %v", res.Details)
	}
}

func TestMaxNodesConstraint(t *testing.T) {
	c := &contract.Contract{
		Trigger: contract.Trigger{Kind: contract.TriggerWebhook, Path: "/x"},
		Steps: []contract.Step{
			{Number: 1, Action: "call api", NodeType: contract.NodeHTTPRequest},
			{Number: 2, Action: "notify slack", NodeType: contract.NodeSlack},
		},
		Constraints: &contract.Constraints{MaxNodes: 2},
	}
	w := workflow.Generate(c, workflow.DefaultOptions()).Workflow

	report := NewEngine(nil).Execute(&Context{Contract: c, Workflow: w})
	if res := resultFor(t, report, "flow-size"); res.Passed {
		t.Error("three nodes against a limit of two should warn")
	}
}

func TestForbiddenTypeConstraint(t *testing.T) {
	c := &contract.Contract{
		Trigger: contract.Trigger{Kind: contract.TriggerWebhook, Path: "/x"},
		Steps: []contract.Step{
			{Number: 1, Action: "run code", NodeType: contract.NodeCode},
		},
		Constraints: &contract.Constraints{ForbiddenTypes: []string{"code"}},
	}
	w := workflow.Generate(c, workflow.DefaultOptions()).Workflow

	report := NewEngine(nil).Execute(&Context{Contract: c, Workflow: w})
	res := resultFor(t, report, "input-constraints-honored")
	if res.Passed {
		t.Fatal("forbidden type went unnoticed")
	}
	if report.Success {
		t.Error("constraint violations must fail the run")
	}
}

func TestDuplicateStepNumbersWarn(t *testing.T) {
	c := &contract.Contract{
		Trigger: contract.Trigger{Kind: contract.TriggerWebhook, Path: "/x"},
		Steps: []contract.Step{
			{Number: 1, Action: "call api", NodeType: contract.NodeHTTPRequest},
			{Number: 1, Action: "notify slack", NodeType: contract.NodeSlack},
		},
	}
	w := workflow.Generate(c, workflow.DefaultOptions()).Workflow

	report := NewEngine(nil).Execute(&Context{Contract: c, Workflow: w})
	if res := resultFor(t, report, "input-step-numbering"); res.Passed {
		t.Error("duplicate step numbers should warn")
	}
}

func TestStrictAmbiguityScan(t *testing.T) {
	c := &contract.Contract{
		Trigger: contract.Trigger{Kind: contract.TriggerWebhook},
		Steps:   []contract.Step{{Number: 1, Action: "   "}},
	}

	report := NewEngine(nil).Execute(&Context{Contract: c, Strict: true})
	res := resultFor(t, report, "input-ambiguities")
	if res.Passed {
		t.Fatal("strict mode should flag the ambiguous contract")
	}
	if len(res.Details) != 3 {
		t.Errorf("details = %v, want meta, path and step findings", res.Details)
	}
	if report.Success {
		t.Error("strict ambiguities must fail the run")
	}

	report = NewEngine(nil).Execute(&Context{Contract: c, Strict: false})
	if res := resultFor(t, report, "input-ambiguities"); !res.Passed {
		t.Errorf("ambiguity scan ran without strict mode: %v", res)
	}
}

func TestOffCanvasPositions(t *testing.T) {
	w := graphOf([]*workflow.Node{
		node("graft-001", "Webhook", contract.NodeWebhook),
		node("graft-002", "Slack", contract.NodeSlack),
	}, func(w *workflow.Workflow) {
		w.Connect("Webhook", 0, "Slack", 0)
	})
	w.Nodes[1].Position = [2]int{-40, 300}

	report := NewEngine(nil).Execute(&Context{Workflow: w})
	res := resultFor(t, report, "node-positions")
	if res.Passed {
		t.Fatal("negative coordinates went unflagged")
	}
	if !strings.Contains(res.Details[0], "off canvas") {
		t.Errorf("details = %v", res.Details)
	}
	if !report.Success {
		t.Error("position findings are info, the run should still pass")
	}
}

func TestOutputRulesOnGeneratedWorkflow(t *testing.T) {
	report := NewEngine(nil).Execute(&Context{Workflow: validChain()})
	for _, id := range []string{"output-serializable", "output-round-trip", "output-link-shape"} {
		if res := resultFor(t, report, id); !res.Passed {
			t.Errorf("%s failed on a generated workflow: %s", id, res.Message)
		}
	}
}
