package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// EncodeJSON renders the workflow in the wire format automation runtimes
// accept. Output is indented and ends with a newline.
func EncodeJSON(w *Workflow) ([]byte, error) {
	if w == nil {
		return nil, fmt.Errorf("encode: nil workflow")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(w); err != nil {
		return nil, fmt.Errorf("encode workflow: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeJSON parses a workflow previously produced by EncodeJSON, or any
// document with the same shape.
func DecodeJSON(data []byte) (*Workflow, error) {
	var w Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode workflow: %w", err)
	}
	if w.Connections == nil {
		w.Connections = map[string]Ports{}
	}
	if w.Settings == nil {
		w.Settings = map[string]any{}
	}
	return &w, nil
}

// EncodeYAML renders the workflow as YAML. Handy for review diffs; the
// JSON form remains the interchange format.
func EncodeYAML(w *Workflow) ([]byte, error) {
	if w == nil {
		return nil, fmt.Errorf("encode: nil workflow")
	}
	out, err := yaml.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode workflow: %w", err)
	}
	return out, nil
}
