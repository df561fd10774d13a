package workflow

import (
	"sort"
	"testing"

	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/schema"
)

func TestCatalogDefaultsSatisfyRequired(t *testing.T) {
	for _, typ := range KnownTypes() {
		spec, _ := Spec(typ)
		missing := schema.Missing(spec.Required, spec.Defaults())
		if len(missing) > 0 {
			t.Errorf("%s defaults leave required parameters unset: %v", typ, missing)
		}
	}
}

func TestCatalogFlags(t *testing.T) {
	if !IsTriggerType(contract.NodeWebhook) {
		t.Error("webhook should be a trigger")
	}
	if IsTriggerType(contract.NodeSlack) {
		t.Error("slack is not a trigger")
	}
	if !IsTerminalType(contract.NodeEmailSend) {
		t.Error("email send should be terminal")
	}
	if IsTerminalType(contract.NodeIf) {
		t.Error("if is not terminal")
	}
	if KnownType("n8n-nodes-base.nonexistent") {
		t.Error("unknown type reported as known")
	}
}

func TestKnownTypesSorted(t *testing.T) {
	types := KnownTypes()
	if len(types) == 0 {
		t.Fatal("catalog is empty")
	}
	if !sort.StringsAreSorted(types) {
		t.Errorf("types not sorted: %v", types)
	}
}
