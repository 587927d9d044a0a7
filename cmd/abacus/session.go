package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/aretw0/abacus/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, watch and remove sessions held by the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := services.Sessions.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No active sessions found.")
			return nil
		}

		fmt.Fprintln(out, "Active Sessions:")
		for _, s := range sessions {
			fmt.Fprintln(out, "- "+s)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]
		state, err := services.Sessions.Load(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}

		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args: func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if all, _ := cmd.Flags().GetBool("all"); all {
			ids, err := services.Sessions.List(ctx)
			if err != nil {
				return fmt.Errorf("error listing sessions: %w", err)
			}
			args = ids
		}

		var errs []error
		for _, sessionID := range args {
			if err := services.Sessions.Delete(ctx, sessionID); err != nil {
				errs = append(errs, fmt.Errorf("error removing '%s': %w", sessionID, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", sessionID)
		}
		return errors.Join(errs...)
	},
}

var sessionWatchCmd = &cobra.Command{
	Use:   "watch <session-id>",
	Short: "Print state diffs of a session as NDJSON while it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return cli.WatchSession(ctx, services, args[0], interval, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionCmd.AddCommand(sessionWatchCmd)

	sessionRmCmd.Flags().Bool("all", false, "Remove every stored session")
	sessionWatchCmd.Flags().Duration("interval", cli.DefaultWatchInterval, "Polling interval")
}
