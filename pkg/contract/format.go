package contract

import (
	"fmt"
	"sort"
	"strings"
)

// Format serializes a contract back to canonical DSL text. Compiling the
// output again yields an equal contract: sections appear in fixed order,
// fields use canonical English keys, trigger options are sorted.
func Format(c *Contract) string {
	if c == nil {
		return ""
	}
	var b strings.Builder

	if c.Meta != (Meta{}) {
		b.WriteString("@meta\n")
		writeField(&b, "version", c.Meta.RuntimeVersion)
		writeField(&b, "format", c.Meta.OutputFormat)
		if c.Meta.Strict {
			b.WriteString("strict: true\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("@trigger\n")
	fmt.Fprintf(&b, "type: %s\n", c.Trigger.Kind)
	writeField(&b, "method", c.Trigger.Method)
	writeField(&b, "path", c.Trigger.Path)
	writeField(&b, "schedule", c.Trigger.Schedule)
	optKeys := make([]string, 0, len(c.Trigger.Options))
	for key := range c.Trigger.Options {
		optKeys = append(optKeys, key)
	}
	sort.Strings(optKeys)
	for _, key := range optKeys {
		writeField(&b, key, c.Trigger.Options[key])
	}
	b.WriteString("\n")

	b.WriteString("@workflow\n")
	for _, step := range c.Steps {
		fmt.Fprintf(&b, "%d. %s\n", step.Number, step.Action)
	}

	if cons := c.Constraints; cons != nil && !constraintsEmpty(cons) {
		b.WriteString("\n@constraints\n")
		if cons.MaxNodes > 0 {
			fmt.Fprintf(&b, "max_nodes: %d\n", cons.MaxNodes)
		}
		writeField(&b, "allowed_types", strings.Join(cons.AllowedTypes, ", "))
		writeField(&b, "forbidden_types", strings.Join(cons.ForbiddenTypes, ", "))
		if cons.RequireCredentials {
			b.WriteString("require_credentials: true\n")
		}
		if cons.TimeoutSeconds > 0 {
			fmt.Fprintf(&b, "timeout: %d\n", cons.TimeoutSeconds)
		}
		for _, rule := range cons.CustomRules {
			fmt.Fprintf(&b, "- %s\n", rule)
		}
	}

	if assume := c.Assumptions; assume != nil && !assumptionsEmpty(assume) {
		b.WriteString("\n@assumptions\n")
		writeField(&b, "error_policy", assume.ErrorPolicy)
		if assume.Retries > 0 {
			fmt.Fprintf(&b, "retries: %d\n", assume.Retries)
		}
		if assume.AssumeCredentials {
			b.WriteString("assume_credentials: true\n")
		}
		writeField(&b, "env", strings.Join(assume.EnvVars, ", "))
		for _, custom := range assume.Custom {
			fmt.Fprintf(&b, "- %s\n", custom)
		}
	}

	return b.String()
}

func writeField(b *strings.Builder, key, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s: %s\n", key, value)
	}
}

func constraintsEmpty(c *Constraints) bool {
	return c.MaxNodes == 0 && len(c.AllowedTypes) == 0 && len(c.ForbiddenTypes) == 0 &&
		!c.RequireCredentials && c.TimeoutSeconds == 0 && len(c.CustomRules) == 0
}

func assumptionsEmpty(a *Assumptions) bool {
	return a.ErrorPolicy == "" && a.Retries == 0 && !a.AssumeCredentials &&
		len(a.EnvVars) == 0 && len(a.Custom) == 0
}
