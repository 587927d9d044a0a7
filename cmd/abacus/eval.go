package main

import (
	"github.com/aretw0/abacus/internal/cli"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval [expression...]",
	Short: "Evaluate expressions without a session",
	Long: `Evaluates each argument as an independent expression and prints "expr = result".
With no arguments, expressions are read from stdin, one per line.`,
	Example: `  abacus eval "2^10" "sqrt(2)*pi"
  echo "sin(30)" | abacus eval --angle deg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("angle")
		return cli.Eval(cmd.Context(), services.Engine, args, cli.EvalOptions{
			AngleMode:    domain.AngleMode(mode),
			MaxInputSize: services.Config.MaxInputSize,
			In:           cmd.InOrStdin(),
			Out:          cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
