package contract

import (
	"reflect"
	"testing"
)

func TestSketch_MatchesCanonicalPath(t *testing.T) {
	src := "@trigger\ntype: webhook\npath: /x\n@workflow\n1. Call http api\n2. Send slack message"

	canonical := compile(t, src, Options{})
	fast := Sketch(src, Options{})

	if !fast.Success() {
		t.Fatalf("Sketch() errors = %v", fast.Errors)
	}
	if !reflect.DeepEqual(canonical.Contract, fast.Contract) {
		t.Errorf("fast path diverged from canonical path.\ncanonical: %+v\nfast:      %+v", canonical.Contract, fast.Contract)
	}
}

func TestSketch_ToleratesSloppyInput(t *testing.T) {
	// Indentation noise and decorated headers that would produce warnings
	// in the canonical path.
	src := "  @trigger  \n    type:webhook\n  path : /x\n@workflow\n  1.  Call http api"

	res := Sketch(src, Options{})
	if !res.Success() {
		t.Fatalf("Sketch() errors = %v", res.Errors)
	}
	if res.Contract.Trigger.Kind != TriggerWebhook {
		t.Errorf("kind = %q, want webhook", res.Contract.Trigger.Kind)
	}
	if len(res.Contract.Steps) != 1 {
		t.Errorf("steps = %d, want 1", len(res.Contract.Steps))
	}
}

func TestSketch_MissingWorkflowStillFails(t *testing.T) {
	res := Sketch("@trigger\ntype: manual", Options{})
	if res.Success() {
		t.Fatal("the fast path must enforce the same completeness checks")
	}
}
