package cmd

import (
	"fmt"
	"os"

	"github.com/hollowbranch/tecl"
	"github.com/spf13/cobra"
)

var (
	evalExpr     string
	recursionCap int
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a tecl script file or inline program",
	Long: `Execute a tecl script from a file or an inline program string.

Examples:
  # Run a script file
  tecl run script.tcl

  # Evaluate an inline script
  tecl run -e 'puts [expr {1 + 2}]'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline script instead of reading from file")
	runCmd.Flags().IntVar(&recursionCap, "recursion-limit", 1000, "nested command-call depth limit")
}

func runScript(_ *cobra.Command, args []string) error {
	var input string
	switch {
	case evalExpr != "":
		input = evalExpr
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for an inline script")
	}

	ip := tecl.New(tecl.WithRecursionLimit(recursionCap))
	result, err := ip.Eval(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return fmt.Errorf("execution failed")
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "=> %s\n", result.AsString())
	}
	return nil
}
