package dsl

// TokenKind identifies the type of a lexical token.
type TokenKind int

const (
	TokenEOF     TokenKind = iota
	TokenSection           // @meta, @trigger, ...
	TokenField             // identifier immediately followed by ':'
	TokenList              // '-' list item marker at the start of a line
	TokenStep              // 'N.' numbered step marker at the start of a line
	TokenString            // "..." with escape processing
	TokenNumber            // -?[0-9]+(.[0-9]+)?
	TokenBool              // true / false
	TokenArrow             // ->
	TokenCond              // conditional keyword (if, when, se, quando, ...)
	TokenComment           // # to end of line
	TokenIdent             // bare word fallback
	TokenNewline           // line boundary
)

var tokenNames = map[TokenKind]string{
	TokenEOF:     "EOF",
	TokenSection: "section marker",
	TokenField:   "field name",
	TokenList:    "list item",
	TokenStep:    "step number",
	TokenString:  "string",
	TokenNumber:  "number",
	TokenBool:    "boolean",
	TokenArrow:   "'->'",
	TokenCond:    "conditional keyword",
	TokenComment: "comment",
	TokenIdent:   "identifier",
	TokenNewline: "newline",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is a single lexical unit. Text holds the decoded content: section
// markers keep their '@', field names drop their trailing ':', strings drop
// their quotes, step markers keep only the digits.
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int // 1-based
	Column int // 1-based
	Length int // length of the original source text in runes
}

// conditionalWords are recognized in both English and Portuguese.
var conditionalWords = map[string]bool{
	"if":     true,
	"when":   true,
	"unless": true,
	"se":     true,
	"quando": true,
	"caso":   true,
}
