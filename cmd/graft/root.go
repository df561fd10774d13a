package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "graft",
	Short: "Graft compiles prompt DSL into workflow graphs",
	Long: `Graft turns a small section-based prompt DSL (@trigger, @workflow,
@constraints) into workflow JSON for automation runtimes, and validates
the result with a categorized rule engine.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().Bool("strict", false, "Treat a missing @meta section as an error")
	rootCmd.PersistentFlags().Bool("fast", false, "Use the regex fast path instead of the full parser")
}

// newEngine builds the pipeline engine from the persistent flags.
func newEngine(cmd *cobra.Command) *graft.Engine {
	debug, _ := cmd.Flags().GetBool("debug")
	strict, _ := cmd.Flags().GetBool("strict")
	fast, _ := cmd.Flags().GetBool("fast")

	opts := []graft.Option{graft.WithLogger(cli.NewLogger(debug))}
	if strict {
		opts = append(opts, graft.WithStrict())
	}
	if fast {
		opts = append(opts, graft.WithFastPath())
	}
	return graft.New(opts...)
}

// sourceArg resolves the positional source path, defaulting to stdin.
func sourceArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "-"
}
