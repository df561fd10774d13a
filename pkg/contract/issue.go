package contract

import "fmt"

// Issue codes used across the pipeline. Syntax problems are produced by the
// dsl front end and re-tagged by callers; the transformer emits the
// completeness codes.
const (
	CodeSyntax         = "syntax"
	CodeMissingMeta    = "missing-meta"
	CodeMissingTrigger = "missing-trigger"
	CodeEmptyWorkflow  = "empty-workflow"
	CodeUnknownSection = "unknown-section"
	CodeUnknownTrigger = "unknown-trigger-kind"
	CodeBadField       = "bad-field-value"
	CodeMissingSection = "missing-section"
	CodeEmptyContract  = "empty-contract"
)

// Issue is one structured compile diagnostic. Line is zero when the issue
// is not anchored to a source location (e.g. a missing section).
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Section string `json:"section,omitempty"`
	Line    int    `json:"line,omitempty"`
}

func (i Issue) String() string {
	switch {
	case i.Line > 0 && i.Section != "":
		return fmt.Sprintf("[%s] line %d (@%s): %s", i.Code, i.Line, i.Section, i.Message)
	case i.Line > 0:
		return fmt.Sprintf("[%s] line %d: %s", i.Code, i.Line, i.Message)
	case i.Section != "":
		return fmt.Sprintf("[%s] @%s: %s", i.Code, i.Section, i.Message)
	default:
		return fmt.Sprintf("[%s] %s", i.Code, i.Message)
	}
}

func issuef(code, section string, format string, args ...any) Issue {
	return Issue{Code: code, Section: section, Message: fmt.Sprintf(format, args...)}
}
