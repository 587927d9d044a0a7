package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/abacus/pkg/domain"
)

// RunOptions contains all the configuration for the repl command.
type RunOptions struct {
	SessionID string
	Fresh     bool
	Headless  bool
	JSON      bool
	// Keys switches the terminal to raw mode: one keystroke is one key press.
	Keys bool

	In  io.Reader
	Out io.Writer
}

func (o *RunOptions) defaults() {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
}

// Execute handles the repl command, dispatching to line or key mode.
func Execute(ctx context.Context, svc *Services, opts RunOptions) error {
	opts.defaults()
	if opts.Keys && (opts.JSON || opts.Headless) {
		return fmt.Errorf("--keys cannot be combined with --json or --headless")
	}

	if opts.Fresh && opts.SessionID != "" {
		if err := svc.Sessions.Delete(ctx, opts.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to reset session: %w", err)
		}
	}

	if opts.Keys {
		return RunKeys(ctx, svc, opts)
	}
	return RunSession(ctx, svc, opts)
}
