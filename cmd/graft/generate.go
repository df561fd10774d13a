package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/cli"
	"github.com/aretw0/graft/pkg/workflow"
)

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Compile, generate and validate a workflow",
	Long: `Runs the full pipeline: compiles the DSL source, generates the
workflow graph, validates it and prints the workflow JSON. The
validation report goes to stderr so the JSON stays pipeable.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := cli.ReadSource(sourceArg(args))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		engine := buildGenerateEngine(cmd)
		res := engine.Generate(src)

		cli.PrintIssues(res.Compile.Errors, append(res.Compile.Warnings, res.Warnings...))
		if res.Workflow == nil {
			os.Exit(1)
		}

		if res.Report != nil && !res.Report.Success {
			for _, line := range res.Report.Errors {
				fmt.Fprintf(os.Stderr, "validation: %s\n", line)
			}
			if force, _ := cmd.Flags().GetBool("force"); !force {
				os.Exit(1)
			}
			fmt.Fprintln(os.Stderr, "validation failed, writing workflow anyway (--force)")
		}

		output, _ := cmd.Flags().GetString("output")
		data := res.JSON
		if useYAML, _ := cmd.Flags().GetBool("yaml"); useYAML {
			data, err = workflow.EncodeYAML(res.Workflow)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
		if err := cli.WriteOutput(output, data); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func buildGenerateEngine(cmd *cobra.Command) *graft.Engine {
	debug, _ := cmd.Flags().GetBool("debug")
	strict, _ := cmd.Flags().GetBool("strict")
	fast, _ := cmd.Flags().GetBool("fast")
	name, _ := cmd.Flags().GetString("name")

	genOpts := workflow.DefaultOptions()
	genOpts.Name = name

	opts := []graft.Option{
		graft.WithLogger(cli.NewLogger(debug)),
		graft.WithGenerateOptions(genOpts),
	}
	if strict {
		opts = append(opts, graft.WithStrict())
	}
	if fast {
		opts = append(opts, graft.WithFastPath())
	}
	return graft.New(opts...)
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("output", "o", "-", "Output file (defaults to stdout)")
	generateCmd.Flags().String("name", "", "Workflow name override")
	generateCmd.Flags().Bool("yaml", false, "Emit YAML instead of JSON")
	generateCmd.Flags().Bool("force", false, "Write the workflow even when validation fails")
}
