package contract

import (
	"sort"
	"strings"

	"github.com/aretw0/graft/pkg/dsl"
	"github.com/mitchellh/mapstructure"
)

// Options configures Transform.
type Options struct {
	// Strict promotes a missing @meta section to an error and enables the
	// ambiguity checks downstream rules run against the contract.
	Strict bool
}

// Result is the output of one Transform call. Contract is nil when Errors
// is non-empty.
type Result struct {
	Contract *Contract `json:"contract,omitempty"`
	Errors   []Issue   `json:"errors,omitempty"`
	Warnings []Issue   `json:"warnings,omitempty"`
}

// Success reports whether a usable contract was produced.
func (r Result) Success() bool { return r.Contract != nil && len(r.Errors) == 0 }

// sectionAliases maps localized section names to canonical ones.
var sectionAliases = map[string]string{
	"meta":        "meta",
	"trigger":     "trigger",
	"gatilho":     "trigger",
	"workflow":    "workflow",
	"fluxo":       "workflow",
	"constraints": "constraints",
	"restricoes":  "constraints",
	"restrições":  "constraints",
	"assumptions": "assumptions",
	"premissas":   "assumptions",
}

// fieldAliases maps localized field keys to canonical ones. Matching is
// case-insensitive; unmapped keys pass through lowercased.
var fieldAliases = map[string]string{
	"tipo":                "type",
	"método":              "method",
	"metodo":              "method",
	"caminho":             "path",
	"rota":                "path",
	"quando":              "schedule",
	"agenda":              "schedule",
	"cron":                "schedule",
	"versão":              "version",
	"versao":              "version",
	"runtime":             "version",
	"formato":             "format",
	"saida":               "format",
	"saída":               "format",
	"estrito":             "strict",
	"max":                 "max_nodes",
	"maximo":              "max_nodes",
	"máximo":              "max_nodes",
	"max_nós":             "max_nodes",
	"allowed":             "allowed_types",
	"permitidos":          "allowed_types",
	"forbidden":           "forbidden_types",
	"proibidos":           "forbidden_types",
	"credenciais":         "require_credentials",
	"credentials":         "require_credentials",
	"timeout_seconds":     "timeout",
	"tempo_limite":        "timeout",
	"politica_erro":       "error_policy",
	"política_erro":       "error_policy",
	"on_error":            "error_policy",
	"tentativas":          "retries",
	"retry":               "retries",
	"assume_creds":        "assume_credentials",
	"variaveis":           "env",
	"variáveis":           "env",
	"env_vars":            "env",
}

func canonicalKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := fieldAliases[key]; ok {
		return alias
	}
	return key
}

// Transform walks the AST and produces a typed Prompt Contract. Each known
// section is handed to a dedicated extractor; unknown sections produce a
// warning and are otherwise ignored.
//
// Missing @trigger or an empty @workflow is a hard error: a workflow graph
// cannot be meaningfully generated without them. Missing @meta is an error
// only under Options.Strict. Missing @constraints/@assumptions default to
// empty records with a warning.
func Transform(doc *dsl.Document, opts Options) Result {
	var res Result
	if doc == nil {
		res.Errors = append(res.Errors, issuef(CodeEmptyContract, "", "nothing to transform"))
		return res
	}

	c := &Contract{
		Trigger: Trigger{Kind: TriggerManual},
	}
	seen := map[string]bool{}

	for _, sec := range doc.Sections {
		name, ok := sectionAliases[sec.Name]
		if !ok {
			res.Warnings = append(res.Warnings, issuef(CodeUnknownSection, sec.Name, "unknown section; ignored"))
			continue
		}
		if seen[name] {
			// The parser already warned; first declaration wins.
			continue
		}
		seen[name] = true

		switch name {
		case "meta":
			extractMeta(sec, c, &res)
		case "trigger":
			extractTrigger(sec, c, &res)
		case "workflow":
			extractWorkflow(sec, c, &res)
		case "constraints":
			extractConstraints(sec, c, &res)
		case "assumptions":
			extractAssumptions(sec, c, &res)
		}
	}

	if !seen["meta"] {
		if opts.Strict {
			res.Errors = append(res.Errors, issuef(CodeMissingMeta, "meta", "strict mode requires a @meta section"))
		} else {
			res.Warnings = append(res.Warnings, issuef(CodeMissingMeta, "meta", "no @meta section; using runtime defaults"))
		}
	}
	if !seen["trigger"] {
		res.Errors = append(res.Errors, issuef(CodeMissingTrigger, "trigger", "a @trigger section is required"))
	}
	if !seen["workflow"] {
		res.Errors = append(res.Errors, issuef(CodeEmptyWorkflow, "workflow", "a @workflow section with at least one step is required"))
	} else if len(c.Steps) == 0 {
		res.Errors = append(res.Errors, issuef(CodeEmptyWorkflow, "workflow", "@workflow declares no steps"))
	}
	if !seen["constraints"] {
		res.Warnings = append(res.Warnings, issuef(CodeMissingSection, "constraints", "no @constraints section; none applied"))
		c.Constraints = &Constraints{}
	}
	if !seen["assumptions"] {
		res.Warnings = append(res.Warnings, issuef(CodeMissingSection, "assumptions", "no @assumptions section; none applied"))
		c.Assumptions = &Assumptions{}
	}

	if len(res.Errors) > 0 {
		return res
	}
	res.Contract = c
	return res
}

// fieldMap flattens a section's fields into canonical-keyed values.
// Later duplicates overwrite earlier ones.
func fieldMap(sec *dsl.Section) map[string]any {
	out := make(map[string]any, len(sec.Fields))
	for _, f := range sec.Fields {
		out[canonicalKey(f.Name)] = f.Value
	}
	return out
}

// decode fills target from fields using weakly typed conversion, so
// "true" becomes a bool and "10" becomes an int where the target asks
// for one.
func decode(fields map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(fields)
}

func extractMeta(sec *dsl.Section, c *Contract, res *Result) {
	fields := fieldMap(sec)
	if err := decode(fields, &c.Meta); err != nil {
		res.Warnings = append(res.Warnings, issuef(CodeBadField, "meta", "could not decode fields: %v", err))
	}
}

func extractTrigger(sec *dsl.Section, c *Contract, res *Result) {
	fields := fieldMap(sec)

	kindText, _ := fields["type"].(string)
	c.Trigger.Kind = triggerKind(kindText)
	if kindText != "" && c.Trigger.Kind == TriggerCustom && !isCustomKeyword(kindText) {
		res.Warnings = append(res.Warnings, issuef(CodeUnknownTrigger, "trigger", "unrecognized trigger type %q; treating as custom", kindText))
	}
	delete(fields, "type")

	if err := decode(fields, &c.Trigger); err != nil {
		res.Warnings = append(res.Warnings, issuef(CodeBadField, "trigger", "could not decode fields: %v", err))
	}

	// Everything without a dedicated slot lands in Options, sorted for
	// deterministic output.
	known := map[string]bool{"method": true, "path": true, "schedule": true}
	var extra []string
	for key := range fields {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		if c.Trigger.Options == nil {
			c.Trigger.Options = make(map[string]string)
		}
		value, _ := fields[key].(string)
		c.Trigger.Options[key] = value
	}

	if c.Trigger.Kind == TriggerWebhook && c.Trigger.Method != "" {
		c.Trigger.Method = strings.ToUpper(c.Trigger.Method)
	}
}

func triggerKind(text string) TriggerKind {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "webhook", "http", "hook":
		return TriggerWebhook
	case "schedule", "scheduled", "cron", "timer", "agendado", "agendamento":
		return TriggerSchedule
	case "manual", "":
		return TriggerManual
	default:
		return TriggerCustom
	}
}

func isCustomKeyword(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "custom", "customizado":
		return true
	}
	return false
}

func extractWorkflow(sec *dsl.Section, c *Contract, res *Result) {
	for _, step := range sec.Steps {
		s := Step{
			Number: step.Number,
			Action: step.Text,
		}
		s.NodeType = Classify(step.Text)
		if IsConditional(step.Text) {
			s.Condition = step.Text
			if s.NodeType == "" {
				s.NodeType = NodeIf
			}
		}
		c.Steps = append(c.Steps, s)
	}
}

func extractConstraints(sec *dsl.Section, c *Contract, res *Result) {
	fields := fieldMap(sec)
	splitListField(fields, "allowed_types")
	splitListField(fields, "forbidden_types")

	cons := &Constraints{}
	if err := decode(fields, cons); err != nil {
		res.Warnings = append(res.Warnings, issuef(CodeBadField, "constraints", "could not decode fields: %v", err))
	}
	for _, item := range sec.Items {
		cons.CustomRules = append(cons.CustomRules, item.Text)
	}
	c.Constraints = cons
}

func extractAssumptions(sec *dsl.Section, c *Contract, res *Result) {
	fields := fieldMap(sec)
	splitListField(fields, "env")

	assume := &Assumptions{}
	if err := decode(fields, assume); err != nil {
		res.Warnings = append(res.Warnings, issuef(CodeBadField, "assumptions", "could not decode fields: %v", err))
	}
	for _, item := range sec.Items {
		assume.Custom = append(assume.Custom, item.Text)
	}
	c.Assumptions = assume
}

// splitListField turns a comma-separated field value into a []string so
// mapstructure can decode it into a slice target.
func splitListField(fields map[string]any, key string) {
	raw, ok := fields[key].(string)
	if !ok || raw == "" {
		return
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	fields[key] = out
}
