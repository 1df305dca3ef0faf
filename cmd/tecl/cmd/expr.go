package cmd

import (
	"fmt"
	"os"

	"github.com/hollowbranch/tecl"
	"github.com/spf13/cobra"
)

var exprCmd = &cobra.Command{
	Use:   "expr <expression>",
	Short: "Evaluate a tecl expression and print the result",
	Long: `Evaluate a single expr-sublanguage expression (spec.md §4.6) and
print its result, or a formatted error to stderr with exit code 1.`,
	Args: cobra.ExactArgs(1),
	RunE: runExpr,
}

func init() {
	rootCmd.AddCommand(exprCmd)
}

func runExpr(_ *cobra.Command, args []string) error {
	ip := tecl.New()
	result, err := ip.Expr(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return fmt.Errorf("expression evaluation failed")
	}
	fmt.Println(result.AsString())
	return nil
}
