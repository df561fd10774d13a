package dsl

import (
	"regexp"
	"strings"
)

// ScanOptions configures the lexer.
type ScanOptions struct {
	// IgnoreComments drops comment tokens instead of emitting them.
	IgnoreComments bool
}

// ScanResult is the full output of one Tokenize call.
type ScanResult struct {
	Tokens   []Token
	Errors   []*ParseError
	Warnings []*ParseError
}

var numberRe = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// Tokenize converts source text into a flat, position-tagged token stream.
// It scans line by line, left to right, attempting each token pattern in a
// fixed priority order. Unmatched characters are skipped with a warning so
// one malformed token never aborts the whole scan. A Newline token is
// emitted at every line boundary and a terminal EOF token closes the stream.
func Tokenize(src string, opts ScanOptions) ScanResult {
	l := &lexer{opts: opts}

	lines := strings.Split(src, "\n")
	for i, line := range lines {
		l.scanLine(line, i+1)
		l.emit(Token{
			Kind:   TokenNewline,
			Text:   "\n",
			Line:   i + 1,
			Column: len([]rune(line)) + 1,
			Length: 1,
		})
	}

	last := len(lines)
	l.emit(Token{
		Kind:   TokenEOF,
		Line:   last,
		Column: len([]rune(lines[last-1])) + 2,
	})

	return ScanResult{Tokens: l.tokens, Errors: l.errors, Warnings: l.warnings}
}

type lexer struct {
	opts     ScanOptions
	tokens   []Token
	errors   []*ParseError
	warnings []*ParseError
}

func (l *lexer) emit(t Token) {
	l.tokens = append(l.tokens, t)
}

func (l *lexer) scanLine(line string, lineNo int) {
	runes := []rune(line)
	col := 0
	first := true

	for col < len(runes) {
		ch := runes[col]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			col++
			continue
		}

		switch {
		case ch == '#':
			text := string(runes[col:])
			if !l.opts.IgnoreComments {
				l.emit(Token{Kind: TokenComment, Text: text, Line: lineNo, Column: col + 1, Length: len(runes) - col})
			}
			return
		case ch == '"':
			col = l.scanString(runes, col, lineNo)
		default:
			col = l.scanWord(runes, col, lineNo, first)
		}
		first = false
	}
}

// scanString consumes a quoted literal starting at runes[start] and returns
// the column index after it. An unterminated string is recovered by taking
// the rest of the line as its content.
func (l *lexer) scanString(runes []rune, start, lineNo int) int {
	var sb strings.Builder
	i := start + 1
	for i < len(runes) {
		ch := runes[i]
		if ch == '"' {
			l.emit(Token{
				Kind:   TokenString,
				Text:   sb.String(),
				Line:   lineNo,
				Column: start + 1,
				Length: i - start + 1,
			})
			return i + 1
		}
		if ch == '\\' && i+1 < len(runes) {
			i++
			switch runes[i] {
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune('\\')
				sb.WriteRune(runes[i])
			}
			i++
			continue
		}
		sb.WriteRune(ch)
		i++
	}

	l.errors = append(l.errors, errorf(lineNo, start+1, "unterminated string"))
	l.emit(Token{
		Kind:   TokenString,
		Text:   sb.String(),
		Line:   lineNo,
		Column: start + 1,
		Length: len(runes) - start,
	})
	return len(runes)
}

// scanWord consumes a whitespace-delimited word starting at runes[start],
// classifies it and returns the column index after it. Classification
// priority: section marker, field name, list marker, step marker, arrow,
// number, boolean, conditional keyword, identifier.
func (l *lexer) scanWord(runes []rune, start, lineNo int, first bool) int {
	end := start
	for end < len(runes) && runes[end] != ' ' && runes[end] != '\t' && runes[end] != '\r' {
		end++
	}
	word := string(runes[start:end])
	length := end - start
	col := start + 1

	switch {
	case strings.HasPrefix(word, "@") && len(word) > 1 && hasAlnum(word[1:]):
		l.emit(Token{Kind: TokenSection, Text: word, Line: lineNo, Column: col, Length: length})
	case strings.HasSuffix(word, ":") && len(word) > 1 && hasAlnum(word[:len(word)-1]):
		l.emit(Token{Kind: TokenField, Text: word[:len(word)-1], Line: lineNo, Column: col, Length: length})
	case first && word == "-":
		l.emit(Token{Kind: TokenList, Text: word, Line: lineNo, Column: col, Length: length})
	case first && isStepMarker(word):
		l.emit(Token{Kind: TokenStep, Text: word[:len(word)-1], Line: lineNo, Column: col, Length: length})
	case word == "->":
		l.emit(Token{Kind: TokenArrow, Text: word, Line: lineNo, Column: col, Length: length})
	case numberRe.MatchString(word):
		l.emit(Token{Kind: TokenNumber, Text: word, Line: lineNo, Column: col, Length: length})
	case word == "true" || word == "false":
		l.emit(Token{Kind: TokenBool, Text: word, Line: lineNo, Column: col, Length: length})
	case conditionalWords[strings.ToLower(word)]:
		l.emit(Token{Kind: TokenCond, Text: word, Line: lineNo, Column: col, Length: length})
	case !isJunk(word):
		l.emit(Token{Kind: TokenIdent, Text: word, Line: lineNo, Column: col, Length: length})
	default:
		// Punctuation-only garbage: skip it, keep scanning.
		l.warnings = append(l.warnings, errorf(lineNo, col, "skipped unrecognized text %q", word))
	}
	return end
}

// isJunk reports whether a word consists solely of separator punctuation.
// Glyphs that legitimately appear in field values (cron stars, slashes,
// braces in expressions) are kept as identifiers.
func isJunk(s string) bool {
	for _, ch := range s {
		switch ch {
		case ':', ';', ',', '.', '!', '?', '(', ')', '[', ']', '|', '~', '^':
		default:
			return false
		}
	}
	return true
}

// isStepMarker reports whether word looks like "12." (digits plus a
// trailing dot or closing paren).
func isStepMarker(word string) bool {
	if len(word) < 2 {
		return false
	}
	tail := word[len(word)-1]
	if tail != '.' && tail != ')' {
		return false
	}
	for _, ch := range word[:len(word)-1] {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func hasAlnum(s string) bool {
	for _, ch := range s {
		if ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch > 127 {
			return true
		}
	}
	return false
}
