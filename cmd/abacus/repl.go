package main

import (
	"github.com/aretw0/abacus/internal/cli"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run an interactive calculator session",
	Long: `Starts a calculator session on the terminal. Type expressions and press Enter,
or use :commands for the calculator buttons (type :help).
With --keys every keystroke is a key press on the keypad.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{
			In:  cmd.InOrStdin(),
			Out: cmd.OutOrStdout(),
		}
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.Headless, _ = cmd.Flags().GetBool("headless")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Keys, _ = cmd.Flags().GetBool("keys")
		return cli.Execute(cmd.Context(), services, opts)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringP("session", "s", "", "Session ID to resume (a new ID is generated when empty)")
	replCmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	replCmd.Flags().Bool("headless", false, "Run in headless mode (no banner, no prompts for confirmation)")
	replCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	replCmd.Flags().BoolP("keys", "k", false, "Raw keypad mode: one keystroke is one key press")

	rootCmd.Flags().AddFlagSet(replCmd.Flags())
	rootCmd.RunE = replCmd.RunE
}
