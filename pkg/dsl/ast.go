package dsl

import "strings"

// Span records the source region a node was built from.
type Span struct {
	Start Position
	End   Position
}

// Document is the root of the AST. It exclusively owns its subtree; nothing
// is shared or mutated after Parse returns.
type Document struct {
	Sections []*Section
}

// Section returns the first section with the given name (case-insensitive,
// with or without the leading '@'), or nil.
func (d *Document) Section(name string) *Section {
	want := strings.ToLower(strings.TrimPrefix(name, "@"))
	for _, s := range d.Sections {
		if s.Name == want {
			return s
		}
	}
	return nil
}

// Section groups the fields, steps and list items declared between one
// section marker and the next. Name is lowercased and stripped of '@'.
type Section struct {
	Name   string
	Fields []*Field
	Steps  []*Step
	Items  []*ListItem
	Span   Span
}

// Field returns the first field with the given name (case-insensitive) and
// whether it was found.
func (s *Section) Field(name string) (*Field, bool) {
	want := strings.ToLower(name)
	for _, f := range s.Fields {
		if strings.ToLower(f.Name) == want {
			return f, true
		}
	}
	return nil, false
}

// Field is a "key: value" declaration. Value is empty when the line carried
// no value; that is not an error.
type Field struct {
	Name  string
	Value string
	Span  Span
}

// Step is a numbered workflow step. Numbers need not be contiguous;
// declaration order is preserved by the parent section.
type Step struct {
	Number int
	Text   string
	Span   Span
}

// ListItem is a "- text" entry.
type ListItem struct {
	Text string
	Span Span
}
