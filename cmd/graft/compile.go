package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft/internal/cli"
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile DSL source into a contract",
	Long: `Parses the DSL source and prints the resulting contract without
generating the workflow graph. Reads from stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := cli.ReadSource(sourceArg(args))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		res := newEngine(cmd).Compile(src)
		cli.PrintIssues(res.Errors, res.Warnings)
		if !res.Success() {
			os.Exit(1)
		}

		if canonical, _ := cmd.Flags().GetBool("canonical"); canonical {
			fmt.Print(res.Canonical)
			return
		}

		out, err := json.MarshalIndent(res.Contract, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error encoding contract: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().Bool("canonical", false, "Print the contract as canonical DSL text instead of JSON")
}
