package workflow

import (
	"sort"

	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/schema"
)

// TypeSpec describes one known node type: its wire name, current type
// version, the parameters the runtime requires, and default parameter
// values the generator seeds. The catalog is intentionally incomplete —
// it models a representative subset of the runtime's node palette, and
// validation treats unknown types as warnings, never errors.
type TypeSpec struct {
	Type        string
	Version     int
	DisplayName string
	Trigger     bool
	Terminal    bool
	Required    schema.Schema
	Defaults    func() map[string]any
}

var catalog = map[string]TypeSpec{
	contract.NodeWebhook: {
		Type:        contract.NodeWebhook,
		Version:     2,
		DisplayName: "Webhook",
		Trigger:     true,
		Required:    schema.Schema{"path": schema.String(), "httpMethod": schema.String()},
		Defaults: func() map[string]any {
			return map[string]any{
				"path":         "/webhook",
				"httpMethod":   "POST",
				"responseMode": "onReceived",
			}
		},
	},
	contract.NodeScheduleTrigger: {
		Type:        contract.NodeScheduleTrigger,
		Version:     1,
		DisplayName: "Schedule Trigger",
		Trigger:     true,
		Required:    schema.Schema{"rule": schema.Map()},
		Defaults: func() map[string]any {
			return map[string]any{
				"rule": map[string]any{
					"interval": []any{map[string]any{"field": "hours"}},
				},
			}
		},
	},
	contract.NodeManualTrigger: {
		Type:        contract.NodeManualTrigger,
		Version:     1,
		DisplayName: "Manual Trigger",
		Trigger:     true,
		Defaults:    func() map[string]any { return map[string]any{} },
	},
	contract.NodeHTTPRequest: {
		Type:        contract.NodeHTTPRequest,
		Version:     4,
		DisplayName: "HTTP Request",
		Required:    schema.Schema{"url": schema.String(), "method": schema.String()},
		Defaults: func() map[string]any {
			return map[string]any{
				"url":    "https://example.com/api",
				"method": "GET",
			}
		},
	},
	contract.NodeEmailSend: {
		Type:        contract.NodeEmailSend,
		Version:     2,
		DisplayName: "Send Email",
		Terminal:    true,
		Required:    schema.Schema{"toEmail": schema.String(), "subject": schema.String()},
		Defaults: func() map[string]any {
			return map[string]any{
				"fromEmail": "noreply@example.com",
				"toEmail":   "user@example.com",
				"subject":   "Workflow notification",
				"text":      "={{ $json }}",
			}
		},
	},
	contract.NodeSlack: {
		Type:        contract.NodeSlack,
		Version:     2,
		DisplayName: "Slack",
		Terminal:    true,
		Required:    schema.Schema{"channel": schema.String(), "text": schema.String()},
		Defaults: func() map[string]any {
			return map[string]any{
				"resource":  "message",
				"operation": "post",
				"channel":   "#general",
				"text":      "={{ $json }}",
			}
		},
	},
	contract.NodeIf: {
		Type:        contract.NodeIf,
		Version:     2,
		DisplayName: "If",
		Required:    schema.Schema{"conditions": schema.Map()},
		Defaults: func() map[string]any {
			return map[string]any{
				"conditions": map[string]any{
					"combinator": "and",
					"conditions": []any{
						map[string]any{
							"leftValue":  "={{ $json.value }}",
							"rightValue": "",
							"operator":   map[string]any{"type": "string", "operation": "equals"},
						},
					},
				},
			}
		},
	},
	contract.NodeSet: {
		Type:        contract.NodeSet,
		Version:     3,
		DisplayName: "Edit Fields",
		Required:    schema.Schema{"assignments": schema.Map()},
		Defaults: func() map[string]any {
			return map[string]any{
				"assignments": map[string]any{
					"assignments": []any{
						map[string]any{
							"name":  "data",
							"value": "={{ $json }}",
							"type":  "object",
						},
					},
				},
			}
		},
	},
	contract.NodeCode: {
		Type:        contract.NodeCode,
		Version:     2,
		DisplayName: "Code",
		Required:    schema.Schema{"jsCode": schema.String()},
		Defaults: func() map[string]any {
			return map[string]any{
				"jsCode": "return items;",
			}
		},
	},
	contract.NodePostgres: {
		Type:        contract.NodePostgres,
		Version:     2,
		DisplayName: "Postgres",
		Required:    schema.Schema{"operation": schema.String()},
		Defaults: func() map[string]any {
			return map[string]any{
				"operation": "executeQuery",
				"query":     "SELECT 1;",
			}
		},
	},
	contract.NodeRespondWebhook: {
		Type:        contract.NodeRespondWebhook,
		Version:     1,
		DisplayName: "Respond to Webhook",
		Terminal:    true,
		Defaults: func() map[string]any {
			return map[string]any{
				"respondWith": "json",
			}
		},
	},
}

// Spec returns the catalog entry for a node type name.
func Spec(typeName string) (TypeSpec, bool) {
	s, ok := catalog[typeName]
	return s, ok
}

// KnownType reports whether the type name is in the catalog.
func KnownType(typeName string) bool {
	_, ok := catalog[typeName]
	return ok
}

// IsTriggerType reports whether the type starts a workflow.
func IsTriggerType(typeName string) bool {
	s, ok := catalog[typeName]
	return ok && s.Trigger
}

// IsTerminalType reports whether a node of this type is an expected end of
// a branch (no outgoing connections is not a dead end).
func IsTerminalType(typeName string) bool {
	s, ok := catalog[typeName]
	return ok && s.Terminal
}

// KnownTypes returns all catalog type names, sorted.
func KnownTypes() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
