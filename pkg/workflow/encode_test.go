package workflow

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/aretw0/graft/pkg/contract"
)

func TestEncodeJSONShape(t *testing.T) {
	c := webhookContract(
		contract.Step{Number: 1, Action: "call api", NodeType: contract.NodeHTTPRequest},
	)
	res := Generate(c, DefaultOptions())
	if !res.Success() {
		t.Fatal("generation failed")
	}

	out, err := EncodeJSON(res.Workflow)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"name", "nodes", "connections", "active", "settings"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	nodes := doc["nodes"].([]any)
	first := nodes[0].(map[string]any)
	for _, key := range []string{"id", "name", "type", "typeVersion", "position", "parameters"} {
		if _, ok := first[key]; !ok {
			t.Errorf("node missing key %q", key)
		}
	}
	if pos, ok := first["position"].([]any); !ok || len(pos) != 2 {
		t.Errorf("position = %v, want a 2-element array", first["position"])
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := webhookContract(
		contract.Step{Number: 1, Action: "if amount is high", NodeType: contract.NodeIf, Condition: "amount is high"},
		contract.Step{Number: 2, Action: "notify slack", NodeType: contract.NodeSlack},
	)
	res := Generate(c, DefaultOptions())
	if !res.Success() {
		t.Fatal("generation failed")
	}

	out, err := EncodeJSON(res.Workflow)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeJSON(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(back.Connections, res.Workflow.Connections) {
		t.Errorf("connections changed across the round trip")
	}
	if len(back.Nodes) != len(res.Workflow.Nodes) {
		t.Errorf("node count changed: %d vs %d", len(back.Nodes), len(res.Workflow.Nodes))
	}
}

func TestEncodeYAML(t *testing.T) {
	c := webhookContract(
		contract.Step{Number: 1, Action: "call api", NodeType: contract.NodeHTTPRequest},
	)
	res := Generate(c, DefaultOptions())
	out, err := EncodeYAML(res.Workflow)
	if err != nil {
		t.Fatalf("encode yaml: %v", err)
	}
	if !strings.Contains(string(out), "nodes:") {
		t.Errorf("yaml output looks wrong:\n%s", out)
	}
}

func TestEncodeNil(t *testing.T) {
	if _, err := EncodeJSON(nil); err == nil {
		t.Error("nil workflow should error")
	}
	if _, err := EncodeYAML(nil); err == nil {
		t.Error("nil workflow should error")
	}
}

func TestDecodeJSONBadInput(t *testing.T) {
	if _, err := DecodeJSON([]byte("{not json")); err == nil {
		t.Error("expected a decode error")
	}
	w, err := DecodeJSON([]byte(`{"name":"x"}`))
	if err != nil {
		t.Fatalf("decode minimal: %v", err)
	}
	if w.Connections == nil || w.Settings == nil {
		t.Error("decode should initialize empty maps")
	}
}
