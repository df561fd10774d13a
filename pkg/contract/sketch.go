package contract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/graft/pkg/dsl"
)

var (
	sketchSectionRe = regexp.MustCompile(`(?m)^\s*@([\wÀ-ÿ]+)\s*$`)
	sketchFieldRe   = regexp.MustCompile(`(?m)^\s*([\wÀ-ÿ-]+)\s*:\s*(.*)$`)
	sketchStepRe    = regexp.MustCompile(`(?m)^\s*(\d+)[.)]\s+(.*)$`)
	sketchItemRe    = regexp.MustCompile(`(?m)^\s*-\s+(.*)$`)
	sketchCommentRe = regexp.MustCompile(`(?m)#[^\n]*`)
)

// Sketch is the regex-based fast path: it extracts a contract directly
// from raw text without tokenizing. It accepts sloppier input than the
// canonical pipeline and reports no source positions. Callers opt into it
// explicitly; Transform remains the authoritative path.
func Sketch(text string, opts Options) Result {
	text = sketchCommentRe.ReplaceAllString(text, "")

	doc := &dsl.Document{}
	var cur *dsl.Section

	for _, line := range strings.Split(text, "\n") {
		if m := sketchSectionRe.FindStringSubmatch(line); m != nil {
			cur = &dsl.Section{Name: strings.ToLower(m[1])}
			doc.Sections = append(doc.Sections, cur)
			continue
		}
		if cur == nil {
			continue
		}
		if m := sketchStepRe.FindStringSubmatch(line); m != nil {
			number, _ := strconv.Atoi(m[1])
			cur.Steps = append(cur.Steps, &dsl.Step{
				Number: number,
				Text:   strings.TrimSpace(m[2]),
			})
			continue
		}
		if m := sketchItemRe.FindStringSubmatch(line); m != nil {
			cur.Items = append(cur.Items, &dsl.ListItem{Text: strings.TrimSpace(m[1])})
			continue
		}
		if m := sketchFieldRe.FindStringSubmatch(line); m != nil {
			cur.Fields = append(cur.Fields, &dsl.Field{
				Name:  m[1],
				Value: strings.TrimSpace(m[2]),
			})
		}
	}

	// Same back end as the canonical path; only the front end differs.
	return Transform(doc, opts)
}
