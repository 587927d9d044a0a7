package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/abacus/internal/cli"
	"github.com/aretw0/abacus/internal/config"
	"github.com/spf13/cobra"
)

// defaultConfigFile is read from the working directory when --config is not set.
const defaultConfigFile = "abacus.yaml"

// services is built once per invocation by the root PersistentPreRunE.
var services *cli.Services

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"log-level":  "log_level",
	"log-format": "log_format",
	"angle":      "angle_mode",
	"theme":      "theme",
	"store":      "store.kind",
	"store-dir":  "store.dir",
	"redis-addr": "store.redis.addr",
	"tape-dir":   "tape_dir",
}

var rootCmd = &cobra.Command{
	Use:   "abacus",
	Short: "Abacus is a session-oriented scientific calculator",
	Long: `Abacus evaluates arithmetic and scientific expressions in persistent sessions
with a memory register, a history log and light/dark themes.
Sessions can be driven from the terminal, over HTTP or by MCP agents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		logger, err := cli.NewLogger(cfg, debug)
		if err != nil {
			return err
		}
		services, err = cli.NewServices(cfg, logger)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if services == nil {
			return nil
		}
		return services.Close()
	},
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var opts []config.Option

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		opts = append(opts, config.WithFile(path))
	}

	for flag, key := range flagKeys {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			opts = append(opts, config.WithOverride(key, v))
		}
	}
	return config.Load(opts...)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// SIGTERM cancels the command context. Interrupts are left to each command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrEvalFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file (default ./abacus.yaml when present)")
	pf.Bool("debug", false, "Enable debug logging on stderr")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")
	pf.String("angle", "", "Default angle mode for new sessions: deg or rad")
	pf.String("theme", "", "Default theme for new sessions: light or dark")
	pf.String("store", "", "Session store: memory, file or redis")
	pf.String("store-dir", "", "Directory of the file store")
	pf.String("redis-addr", "", "Address of the redis store")
	pf.String("tape-dir", "", "Directory of the tape archive")
}
