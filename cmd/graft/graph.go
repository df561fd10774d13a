package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft/internal/cli"
	"github.com/aretw0/graft/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Render a workflow as a Mermaid diagram",
	Long: `Compiles the DSL source, generates the workflow and prints a
Mermaid flowchart of its nodes and connections.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := cli.ReadSource(sourceArg(args))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		engine := newEngine(cmd)
		res := engine.Generate(src)
		cli.PrintIssues(res.Compile.Errors, res.Compile.Warnings)
		if res.Workflow == nil {
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(res.Workflow))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
