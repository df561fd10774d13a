package contract

import (
	"regexp"
	"strings"
)

// keywordFamily maps an ordered set of action keywords to a runtime node
// type. Families are matched in declaration order: the first family with a
// keyword hit wins, so HTTP beats the generic transform family for "call
// the api and format the result".
type keywordFamily struct {
	nodeType string
	words    []string
}

var families = []keywordFamily{
	{NodeHTTPRequest, []string{"http", "https", "api", "rest", "request", "fetch", "endpoint", "webhook call", "chamar api", "requisição"}},
	{NodeEmailSend, []string{"email", "e-mail", "mail", "smtp", "correio"}},
	{NodeSlack, []string{"slack", "notify", "notification", "message", "channel", "telegram", "discord", "notificar", "mensagem"}},
	{NodeIf, []string{"if", "when", "unless", "condition", "check", "verify", "se", "quando", "caso", "verificar"}},
	{NodeSet, []string{"transform", "map", "format", "convert", "rename", "extract", "set", "transformar", "formatar"}},
	{NodeCode, []string{"code", "script", "javascript", "function", "execute", "run", "executar", "código"}},
	{NodePostgres, []string{"database", "db", "sql", "postgres", "query", "insert", "select", "table", "banco", "consulta"}},
}

var conditionalRe = regexp.MustCompile(`(?i)(^|\s)(if|when|unless|se|quando|caso)(\s|$)`)

// Classify infers a runtime node type from a step's action text. It
// returns the empty string when no keyword family matches; the generator
// falls back to a generic transform node in that case.
func Classify(action string) string {
	text := " " + strings.ToLower(action) + " "
	for _, fam := range families {
		for _, word := range fam.words {
			if strings.Contains(text, " "+word+" ") || strings.Contains(text, " "+word+",") || strings.Contains(text, " "+word+".") {
				return fam.nodeType
			}
		}
	}
	return ""
}

// IsConditional reports whether the action text reads as a branching step.
func IsConditional(action string) bool {
	return conditionalRe.MatchString(action)
}
