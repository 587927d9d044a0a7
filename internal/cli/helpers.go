package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/abacus/internal/config"
	"github.com/aretw0/abacus/internal/logging"
)

// NewLogger configures the application logger from log_level and log_format.
// Debug forces the debug level. Logs always go to Stderr.
func NewLogger(cfg *config.Config, debug bool) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}
	return logging.NewWithWriter(os.Stderr, level, logging.Format(cfg.LogFormat)), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func logSessionStatus(logger *slog.Logger, w io.Writer, sessionID string, loaded, quiet bool) {
	if loaded {
		logger.Info("Session Resumed", "session_id", sessionID)
		if !quiet {
			printSystemMessage(w, "Resuming session '%s'.", sessionID)
		}
		return
	}
	logger.Info("Session Created", "session_id", sessionID)
	if !quiet {
		printSystemMessage(w, "Session '%s' active.", sessionID)
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}
