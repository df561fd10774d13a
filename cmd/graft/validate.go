package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/cli"
	"github.com/aretw0/graft/pkg/llm"
	"github.com/aretw0/graft/pkg/rules"
	"github.com/aretw0/graft/pkg/workflow"
)

// completer is the advice backend for --explain. The default produces
// nothing; embedders swap in a real llm.Completer at build time.
var completer llm.Completer = llm.Noop{}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate an existing workflow JSON document",
	Long: `Reads a workflow JSON document and runs the rule engine against
it. Use --category to restrict the run to one rule category.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := cli.ReadSource(sourceArg(args))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		w, err := workflow.DecodeJSON([]byte(data))
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid workflow document: %v\n", err)
			os.Exit(1)
		}

		failFast, _ := cmd.Flags().GetBool("fail-fast")
		maxErrors, _ := cmd.Flags().GetInt("max-errors")
		category, _ := cmd.Flags().GetString("category")
		plain, _ := cmd.Flags().GetBool("plain")

		var ruleOpts []rules.EngineOption
		if failFast {
			ruleOpts = append(ruleOpts, rules.WithFailFast())
		}
		if maxErrors > 0 {
			ruleOpts = append(ruleOpts, rules.WithMaxErrors(maxErrors))
		}

		engine := graft.New(
			graft.WithLogger(cli.NewLogger(mustBool(cmd, "debug"))),
			graft.WithRuleOptions(ruleOpts...),
		)

		var report *rules.Report
		if category != "" {
			report = engine.ValidateCategory(w, nil, rules.Category(category))
		} else {
			report = engine.Validate(w, nil)
		}

		cli.PrintReport(report, plain)
		if !report.Success {
			if explain, _ := cmd.Flags().GetBool("explain"); explain {
				advice, err := llm.Explain(context.Background(), completer, report)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
				} else if advice != "" {
					fmt.Println(advice)
				}
			}
			os.Exit(1)
		}
	},
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("category", "", "Run only one rule category (input, structural, node, flow, output)")
	validateCmd.Flags().Bool("fail-fast", false, "Stop at the first error-severity failure")
	validateCmd.Flags().Int("max-errors", 0, "Stop after this many errors (0 means no limit)")
	validateCmd.Flags().Bool("plain", false, "Plain text output, no markdown rendering")
	validateCmd.Flags().Bool("explain", false, "Ask the configured completion backend to suggest fixes for failures")
}
