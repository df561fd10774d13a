package dsl

import (
	"strconv"
	"strings"
)

// ParseOptions configures the AST builder.
type ParseOptions struct {
	// ContinuationIndent is the minimum column at which a line is treated
	// as the continuation of the previous field or step. Defaults to 3.
	ContinuationIndent int
}

// ParseResult is the full output of one Parse call. Document is never nil,
// even for empty or heavily malformed input.
type ParseResult struct {
	Document *Document
	Errors   []*ParseError
	Warnings []*ParseError
}

// Parse groups a token stream into the section/field/step hierarchy.
//
// A section marker closes the previous section (if any) and opens a new
// one; everything that follows attaches to the open section until the next
// marker or end of stream. No section ever contains tokens from another
// section, even under malformed input: all forward scans stop at section
// boundaries.
func Parse(tokens []Token, opts ParseOptions) ParseResult {
	if opts.ContinuationIndent <= 0 {
		opts.ContinuationIndent = 3
	}
	p := &parser{tokens: tokens, opts: opts, doc: &Document{}}
	p.run()
	return ParseResult{Document: p.doc, Errors: p.errors, Warnings: p.warnings}
}

type parser struct {
	tokens   []Token
	pos      int
	opts     ParseOptions
	doc      *Document
	cur      *Section
	errors   []*ParseError
	warnings []*ParseError
}

func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) run() {
	for {
		t := p.peek()
		switch t.Kind {
		case TokenEOF:
			p.closeSection(t)
			return
		case TokenNewline, TokenComment:
			p.next()
		case TokenSection:
			p.next()
			p.openSection(t)
		case TokenField:
			p.next()
			p.field(t)
		case TokenStep:
			p.next()
			p.step(t)
		case TokenList:
			p.next()
			p.listItem(t)
		default:
			if p.cur == nil {
				p.warnings = append(p.warnings, errorf(t.Line, t.Column, "content before any section marker: %q", t.Text))
			} else {
				p.warnings = append(p.warnings, errorf(t.Line, t.Column, "stray token %q in section @%s", t.Text, p.cur.Name))
			}
			p.skipLine()
		}
	}
}

func (p *parser) openSection(t Token) {
	p.closeSection(t)

	name := strings.ToLower(strings.TrimPrefix(t.Text, "@"))
	if p.doc.Section(name) != nil {
		p.warnings = append(p.warnings, errorf(t.Line, t.Column, "duplicate section @%s; later content is kept separate", name))
	}
	p.cur = &Section{
		Name: name,
		Span: Span{Start: Position{Line: t.Line, Column: t.Column}},
	}
	p.doc.Sections = append(p.doc.Sections, p.cur)
	p.skipLine()
}

func (p *parser) closeSection(t Token) {
	if p.cur != nil {
		p.cur.Span.End = Position{Line: t.Line, Column: t.Column}
		p.cur = nil
	}
}

func (p *parser) field(t Token) {
	if p.cur == nil {
		p.warnings = append(p.warnings, errorf(t.Line, t.Column, "field %q outside any section", t.Text))
		p.skipLine()
		return
	}
	value, end := p.collectText()
	p.cur.Fields = append(p.cur.Fields, &Field{
		Name:  t.Text,
		Value: value,
		Span:  span(t, end),
	})
}

func (p *parser) step(t Token) {
	if p.cur == nil {
		p.warnings = append(p.warnings, errorf(t.Line, t.Column, "step %s. outside any section", t.Text))
		p.skipLine()
		return
	}
	number, err := strconv.Atoi(t.Text)
	if err != nil {
		// The lexer only emits digits here; defensive fallback to order.
		number = len(p.cur.Steps) + 1
	}
	text, end := p.collectText()
	if text == "" {
		p.warnings = append(p.warnings, errorf(t.Line, t.Column, "step %d has no action text", number))
	}
	p.cur.Steps = append(p.cur.Steps, &Step{
		Number: number,
		Text:   text,
		Span:   span(t, end),
	})
}

func (p *parser) listItem(t Token) {
	if p.cur == nil {
		p.warnings = append(p.warnings, errorf(t.Line, t.Column, "list item outside any section"))
		p.skipLine()
		return
	}
	text, end := p.collectText()
	p.cur.Items = append(p.cur.Items, &ListItem{
		Text: text,
		Span: span(t, end),
	})
}

// collectText gathers the remainder of the current line, plus any indented
// continuation lines, into a single space-joined string. It stops at the
// next field, list or step marker, at a section marker, or at a newline
// whose following line is not indented continuation content.
func (p *parser) collectText() (string, Token) {
	var words []string
	last := p.peek()

	for {
		t := p.peek()
		switch t.Kind {
		case TokenEOF, TokenSection, TokenField, TokenStep, TokenList:
			return strings.Join(words, " "), last
		case TokenComment:
			p.next()
		case TokenNewline:
			p.next()
			if !p.continues() {
				return strings.Join(words, " "), last
			}
		default:
			words = append(words, t.Text)
			last = t
			p.next()
		}
	}
}

// continues reports whether the upcoming line continues the value being
// collected: its first token must be plain content (not a marker) and must
// be indented past the continuation threshold.
func (p *parser) continues() bool {
	t := p.peek()
	switch t.Kind {
	case TokenIdent, TokenString, TokenNumber, TokenBool, TokenArrow, TokenCond:
		return t.Column >= p.opts.ContinuationIndent
	default:
		return false
	}
}

func (p *parser) skipLine() {
	for {
		t := p.next()
		if t.Kind == TokenNewline || t.Kind == TokenEOF {
			return
		}
	}
}

func span(start, end Token) Span {
	s := Span{
		Start: Position{Line: start.Line, Column: start.Column},
		End:   Position{Line: start.Line, Column: start.Column + start.Length},
	}
	if end.Line > 0 {
		s.End = Position{Line: end.Line, Column: end.Column + end.Length}
	}
	return s
}
