/*
Package dsl implements the front end of the Graft compiler: a lexer and an
AST builder for the section-based prompt language.

The language is line oriented. A document is a sequence of sections, each
introduced by a marker (@meta, @trigger, @workflow, @constraints,
@assumptions). Inside a section, "key: value" lines declare fields,
"N. text" lines declare numbered workflow steps and "- text" lines declare
list items. Lines starting with '#' are comments.

The scanner and the builder are lenient: malformed input produces position
tagged errors and warnings, never a panic or an aborted scan. Downstream
stages always receive a structurally complete document.

	scan := dsl.Tokenize(src, dsl.ScanOptions{IgnoreComments: true})
	res := dsl.Parse(scan.Tokens, dsl.ParseOptions{})
	for _, sec := range res.Document.Sections {
		// ...
	}
*/
package dsl
