package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/runner"
)

// ErrEvalFailed is returned by Eval when at least one expression failed.
var ErrEvalFailed = errors.New("one or more expressions failed")

// EvalOptions configures a one-shot evaluation.
type EvalOptions struct {
	// AngleMode overrides the engine default when set.
	AngleMode domain.AngleMode
	// MaxInputSize bounds each expression in bytes.
	MaxInputSize int
	In           io.Reader
	Out          io.Writer
}

// Eval evaluates each expression independently and prints one result per line.
// With no expressions it reads them from opts.In, one per line. Failed expressions
// print "Error" and make Eval return ErrEvalFailed once all lines are done.
func Eval(ctx context.Context, calc ports.Calculator, exprs []string, opts EvalOptions) error {
	mode, w := opts.AngleMode, opts.Out
	failed := false
	evalOne := func(raw string) error {
		expr, err := runner.SanitizeInputWithLimit(raw, opts.MaxInputSize)
		if err != nil {
			return err
		}
		if expr == "" {
			return nil
		}
		result, err := calc.Calculate(ctx, expr, mode)
		if err != nil {
			failed = true
			fmt.Fprintf(w, "%s = %s\n", expr, domain.ErrorMarker)
			return nil
		}
		fmt.Fprintf(w, "%s = %s\n", expr, result)
		return nil
	}

	if len(exprs) > 0 {
		for _, expr := range exprs {
			if err := evalOne(expr); err != nil {
				return err
			}
		}
	} else {
		scanner := bufio.NewScanner(opts.In)
		for scanner.Scan() {
			if err := evalOne(strings.TrimSpace(scanner.Text())); err != nil {
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read expressions: %w", err)
		}
	}

	if failed {
		return ErrEvalFailed
	}
	return nil
}
