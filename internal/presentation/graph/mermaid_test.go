package graph

import (
	"strings"
	"testing"

	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/workflow"
)

func TestGenerateMermaid(t *testing.T) {
	c := &contract.Contract{
		Trigger: contract.Trigger{Kind: contract.TriggerWebhook, Path: "/x"},
		Steps: []contract.Step{
			{Number: 1, Action: "if amount is high", NodeType: contract.NodeIf, Condition: "amount is high"},
			{Number: 2, Action: "notify slack", NodeType: contract.NodeSlack},
		},
	}
	w := workflow.Generate(c, workflow.DefaultOptions()).Workflow

	out := GenerateMermaid(w)
	if !strings.HasPrefix(out, "graph TD\n") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, `Webhook(("Webhook"))`) {
		t.Errorf("trigger should render as a circle:\n%s", out)
	}
	if !strings.Contains(out, `{"if amount is high"}`) {
		t.Errorf("conditional should render as a diamond:\n%s", out)
	}
	if !strings.Contains(out, `[["notify slack"]]`) {
		t.Errorf("terminal should render as a subroutine:\n%s", out)
	}
	if !strings.Contains(out, `-- "true" -->`) {
		t.Errorf("true branch should be labeled:\n%s", out)
	}
}

func TestGenerateMermaidSanitizesNames(t *testing.T) {
	w := &workflow.Workflow{
		Nodes: []*workflow.Node{
			{ID: "a", Name: `say "hi" there`, Type: "n8n-nodes-base.set"},
		},
		Connections: map[string]workflow.Ports{},
	}
	out := GenerateMermaid(w)
	if !strings.Contains(out, "say__hi__there") {
		t.Errorf("id not sanitized:\n%s", out)
	}
	if strings.Contains(out, `"say "hi"`) {
		t.Errorf("label quotes not escaped:\n%s", out)
	}
}

func TestGenerateMermaidNil(t *testing.T) {
	if out := GenerateMermaid(nil); out != "graph TD\n" {
		t.Errorf("nil workflow = %q", out)
	}
}
