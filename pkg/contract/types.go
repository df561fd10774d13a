package contract

// TriggerKind identifies how a generated workflow starts.
type TriggerKind string

const (
	TriggerWebhook  TriggerKind = "webhook"
	TriggerSchedule TriggerKind = "schedule"
	TriggerManual   TriggerKind = "manual"
	TriggerCustom   TriggerKind = "custom"
)

// KnownTriggerKind reports whether k is one of the recognized kinds.
func KnownTriggerKind(k TriggerKind) bool {
	switch k {
	case TriggerWebhook, TriggerSchedule, TriggerManual, TriggerCustom:
		return true
	}
	return false
}

// Runtime node type names for the representative subset Graft models.
// The classifier and the generator both speak these names.
const (
	NodeWebhook         = "n8n-nodes-base.webhook"
	NodeScheduleTrigger = "n8n-nodes-base.scheduleTrigger"
	NodeManualTrigger   = "n8n-nodes-base.manualTrigger"
	NodeHTTPRequest     = "n8n-nodes-base.httpRequest"
	NodeEmailSend       = "n8n-nodes-base.emailSend"
	NodeSlack           = "n8n-nodes-base.slack"
	NodeIf              = "n8n-nodes-base.if"
	NodeSet             = "n8n-nodes-base.set"
	NodeCode            = "n8n-nodes-base.code"
	NodePostgres        = "n8n-nodes-base.postgres"
	NodeRespondWebhook  = "n8n-nodes-base.respondToWebhook"
)

// Meta carries document-level settings from the @meta section.
type Meta struct {
	RuntimeVersion string `json:"runtime_version,omitempty" mapstructure:"version"`
	OutputFormat   string `json:"output_format,omitempty" mapstructure:"format"`
	Strict         bool   `json:"strict,omitempty" mapstructure:"strict"`
}

// Trigger describes the workflow entry point. Kind is always set; the
// transformer defaults to manual when @trigger declares no recognizable
// type. Options keeps fields that have no dedicated slot.
type Trigger struct {
	Kind     TriggerKind       `json:"kind" mapstructure:"-"`
	Method   string            `json:"method,omitempty" mapstructure:"method"`
	Path     string            `json:"path,omitempty" mapstructure:"path"`
	Schedule string            `json:"schedule,omitempty" mapstructure:"schedule"`
	Options  map[string]string `json:"options,omitempty" mapstructure:"-"`
}

// Step is one ordered workflow action. NodeType is the inferred runtime
// node type, empty when classification found no keyword match. Condition
// holds the raw text of conditional steps.
type Step struct {
	Number    int    `json:"number"`
	Action    string `json:"action"`
	NodeType  string `json:"node_type,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// Constraints gathers limits from the @constraints section.
type Constraints struct {
	MaxNodes           int      `json:"max_nodes,omitempty" mapstructure:"max_nodes"`
	AllowedTypes       []string `json:"allowed_types,omitempty" mapstructure:"allowed_types"`
	ForbiddenTypes     []string `json:"forbidden_types,omitempty" mapstructure:"forbidden_types"`
	RequireCredentials bool     `json:"require_credentials,omitempty" mapstructure:"require_credentials"`
	TimeoutSeconds     int      `json:"timeout_seconds,omitempty" mapstructure:"timeout"`
	CustomRules        []string `json:"custom_rules,omitempty" mapstructure:"-"`
}

// Assumptions gathers defaults from the @assumptions section.
type Assumptions struct {
	ErrorPolicy       string   `json:"error_policy,omitempty" mapstructure:"error_policy"`
	Retries           int      `json:"retries,omitempty" mapstructure:"retries"`
	AssumeCredentials bool     `json:"assume_credentials,omitempty" mapstructure:"assume_credentials"`
	EnvVars           []string `json:"env_vars,omitempty" mapstructure:"env"`
	Custom            []string `json:"custom,omitempty" mapstructure:"-"`
}

// Contract is the compiler's output record. Steps is non-empty on any
// successful transform; Constraints and Assumptions default to empty
// records when their sections are absent.
type Contract struct {
	Meta        Meta         `json:"meta"`
	Trigger     Trigger      `json:"trigger"`
	Steps       []Step       `json:"steps"`
	Constraints *Constraints `json:"constraints,omitempty"`
	Assumptions *Assumptions `json:"assumptions,omitempty"`
}
