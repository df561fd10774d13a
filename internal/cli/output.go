package cli

import (
	"fmt"
	"os"

	"github.com/aretw0/graft/internal/presentation/report"
	"github.com/aretw0/graft/internal/presentation/tui"
	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/rules"
)

// PrintReport writes a validation report to stdout. On a terminal the
// markdown form goes through glamour; otherwise the plain form is used.
func PrintReport(r *rules.Report, plain bool) {
	if plain || !StdoutIsTerminal() {
		fmt.Print(report.Plain(r))
		return
	}

	render := tui.NewRenderer()
	out, err := render(report.Markdown(r))
	if err != nil {
		fmt.Print(report.Plain(r))
		return
	}
	fmt.Print(out)
	fmt.Println(report.Summary(r))
}

// PrintIssues writes compile diagnostics to stderr.
func PrintIssues(errors, warnings []contract.Issue) {
	if out := report.Issues("error", errors); out != "" {
		fmt.Fprint(os.Stderr, out)
	}
	if out := report.Issues("warning", warnings); out != "" {
		fmt.Fprint(os.Stderr, out)
	}
}
