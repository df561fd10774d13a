package graft

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/rules"
	"github.com/aretw0/graft/pkg/workflow"
)

const orderPipeline = `
@meta
version: 1.0

@trigger
type: webhook
path: /orders
method: post

@workflow
1. fetch order data from the api
2. notify slack channel

@constraints
max_nodes: 10

@assumptions
error_policy: retry
retries: 3
`

func TestPipelineEndToEnd(t *testing.T) {
	res := New().Generate(orderPipeline)
	if !res.Success() {
		t.Fatalf("pipeline failed: compile=%v report=%+v", res.Compile.Errors, res.Report)
	}

	if res.Stats.Nodes != 3 {
		t.Errorf("nodes = %d, want trigger plus two steps", res.Stats.Nodes)
	}
	if res.Stats.Connections != 2 {
		t.Errorf("connections = %d, want 2", res.Stats.Connections)
	}

	var doc map[string]any
	if err := json.Unmarshal(res.JSON, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := doc["connections"]; !ok {
		t.Error("serialized workflow lacks connections")
	}

	if res.Compile.Contract.Trigger.Method != "POST" {
		t.Errorf("method = %q, want upper-cased POST", res.Compile.Contract.Trigger.Method)
	}
}

func TestCompileRoundTrip(t *testing.T) {
	e := New()
	first := e.Compile(orderPipeline)
	if !first.Success() {
		t.Fatalf("compile failed: %v", first.Errors)
	}
	second := e.Compile(first.Canonical)
	if !second.Success() {
		t.Fatalf("recompile failed: %v", second.Errors)
	}
	if !reflect.DeepEqual(first.Contract, second.Contract) {
		t.Errorf("canonical form does not round trip:\n%s", first.Canonical)
	}
}

func TestFastPathMatchesCanonical(t *testing.T) {
	slow := New().Compile(orderPipeline)
	fast := New(WithFastPath()).Compile(orderPipeline)
	if !slow.Success() || !fast.Success() {
		t.Fatalf("compile failed: slow=%v fast=%v", slow.Errors, fast.Errors)
	}
	if !reflect.DeepEqual(slow.Contract, fast.Contract) {
		t.Errorf("fast path diverges:\nslow: %+v\nfast: %+v", slow.Contract, fast.Contract)
	}
}

func TestMissingTriggerFailsCompile(t *testing.T) {
	res := New().Compile("@workflow\n1. do something with the api\n")
	if res.Success() {
		t.Fatal("compile should fail without a trigger")
	}
	found := false
	for _, issue := range res.Errors {
		if issue.Code == contract.CodeMissingTrigger {
			found = true
		}
	}
	if !found {
		t.Errorf("errors lack %s: %v", contract.CodeMissingTrigger, res.Errors)
	}
}

func TestStrictModeRequiresMeta(t *testing.T) {
	src := "@trigger\ntype: manual\n\n@workflow\n1. run the cleanup script\n"
	if res := New().Compile(src); !res.Success() {
		t.Fatalf("lenient compile failed: %v", res.Errors)
	}
	if res := New(WithStrict()).Compile(src); res.Success() {
		t.Error("strict compile should fail without @meta")
	}
}

func TestGenerateStopsOnCompileFailure(t *testing.T) {
	res := New().Generate("@trigger\ntype: webhook\npath: /x\n")
	if res.Success() {
		t.Fatal("empty workflow should fail")
	}
	if res.Workflow != nil {
		t.Error("no workflow should be generated from a failed compile")
	}
}

func TestValidateStandaloneWorkflow(t *testing.T) {
	w := &workflow.Workflow{
		Name: "imported",
		Nodes: []*workflow.Node{
			{ID: "a", Name: "Webhook", Type: contract.NodeWebhook, TypeVersion: 2,
				Parameters: map[string]any{"path": "x", "httpMethod": "GET"}},
			{ID: "b", Name: "Slack", Type: contract.NodeSlack, TypeVersion: 2,
				Parameters: map[string]any{"channel": "#x", "text": "hi", "resource": "message", "operation": "post"}},
		},
		Connections: map[string]workflow.Ports{},
		Settings:    map[string]any{},
	}
	w.Connect("Webhook", 0, "Slack", 0)

	report := New().Validate(w, nil)
	if !report.Success {
		t.Errorf("imported workflow failed validation: %v", report.Errors)
	}
}

func TestValidateCategory(t *testing.T) {
	res := New().Generate(orderPipeline)
	report := New().ValidateCategory(res.Workflow, res.Compile.Contract, rules.CategoryFlow)
	for _, r := range report.Results {
		if r.Category != rules.CategoryFlow {
			t.Errorf("unexpected category %s", r.Category)
		}
	}
	if report.TotalRules == 0 {
		t.Error("flow category ran no rules")
	}
}

func TestBilingualSource(t *testing.T) {
	src := `
@gatilho
tipo: webhook
caminho: /pedidos
método: post

@fluxo
1. buscar pedido na api
2. se valor alto, verificar aprovação
3. notificar canal slack
`
	res := New().Generate(src)
	if !res.Success() {
		t.Fatalf("bilingual pipeline failed: %v / %v", res.Compile.Errors, res.Report)
	}
	if res.Stats.Nodes != 4 {
		t.Errorf("nodes = %d, want 4", res.Stats.Nodes)
	}

	var foundIf bool
	for _, n := range res.Workflow.Nodes {
		if n.Type == contract.NodeIf {
			foundIf = true
		}
	}
	if !foundIf {
		t.Error("conditional step did not become an if node")
	}
}

func TestCanonicalFormatIsStable(t *testing.T) {
	e := New()
	first := e.Compile(orderPipeline)
	second := e.Compile(first.Canonical)
	if first.Canonical != second.Canonical {
		t.Errorf("canonical text drifts:\n--- first\n%s\n--- second\n%s", first.Canonical, second.Canonical)
	}
}

func TestSyntaxErrorsCarryLineNumbers(t *testing.T) {
	src := "@trigger\ntype: webhook\npath: \"/unterminated\n\n@workflow\n1. call the api\n"
	res := New().Compile(src)
	var found bool
	for _, issue := range append(res.Errors, res.Warnings...) {
		if issue.Code == contract.CodeSyntax && issue.Line == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a syntax issue on line 3, got errors=%v warnings=%v", res.Errors, res.Warnings)
	}
}

func TestWorkflowNameOption(t *testing.T) {
	opts := workflow.DefaultOptions()
	opts.Name = "Order intake"
	res := New(WithGenerateOptions(opts)).Generate(orderPipeline)
	if !res.Success() {
		t.Fatalf("pipeline failed: %v", res.Compile.Errors)
	}
	if res.Workflow.Name != "Order intake" {
		t.Errorf("name = %q", res.Workflow.Name)
	}
	if !strings.Contains(string(res.JSON), "Order intake") {
		t.Error("name missing from serialized output")
	}
}
