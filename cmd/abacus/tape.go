package main

import (
	"fmt"
	"time"

	"github.com/aretw0/abacus/internal/cli"
	"github.com/spf13/cobra"
)

var tapeCmd = &cobra.Command{
	Use:   "tape",
	Short: "Archive and read session history tapes",
	Long:  `Tapes are markdown documents with YAML front-matter kept in the tape directory.`,
}

var tapeSaveCmd = &cobra.Command{
	Use:   "save <session-id>",
	Short: "Archive the history of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := services.OpenArchive()
		if err != nil {
			return err
		}
		tape, err := cli.ArchiveSession(cmd.Context(), services.Sessions, archive, args[0], time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Archived %d entries as tape '%s'\n", len(tape.Entries), tape.ID)
		return nil
	},
}

var tapeLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List archived tapes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := services.OpenArchive()
		if err != nil {
			return err
		}
		tapes, err := archive.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing tapes: %w", err)
		}
		cli.PrintTapes(cmd.OutOrStdout(), tapes)
		return nil
	},
}

var tapeShowCmd = &cobra.Command{
	Use:   "show <tape-id>",
	Short: "Print an archived tape",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := services.OpenArchive()
		if err != nil {
			return err
		}
		tape, err := archive.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading tape '%s': %w", args[0], err)
		}
		cli.PrintTape(cmd.OutOrStdout(), tape)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tapeCmd)
	tapeCmd.AddCommand(tapeSaveCmd)
	tapeCmd.AddCommand(tapeLsCmd)
	tapeCmd.AddCommand(tapeShowCmd)
}
