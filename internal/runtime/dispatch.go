package runtime

import (
	"context"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

// Apply executes a button command. The only errors are an unknown command,
// function or angle mode; evaluation failures end up in the buffer, never here.
func (e *Engine) Apply(ctx context.Context, s *domain.State, cmd domain.Command) (*domain.State, error) {
	switch cmd.Name {
	case domain.CmdAppend:
		return e.Append(ctx, s, cmd.Arg), nil
	case domain.CmdClear:
		return e.Clear(ctx, s), nil
	case domain.CmdBackspace:
		return e.Backspace(ctx, s), nil
	case domain.CmdEvaluate:
		return e.Evaluate(ctx, s), nil
	case domain.CmdPercent:
		return e.Percent(ctx, s), nil
	case domain.CmdPower:
		return e.Power(ctx, s), nil
	case domain.CmdFunction:
		return e.Function(ctx, s, cmd.Arg)
	case domain.CmdMemoryClear:
		return e.MemoryClear(ctx, s), nil
	case domain.CmdMemoryRecall:
		return e.MemoryRecall(ctx, s), nil
	case domain.CmdMemoryAdd:
		return e.MemoryAdd(ctx, s), nil
	case domain.CmdMemorySubtract:
		return e.MemorySubtract(ctx, s), nil
	case domain.CmdHistoryClear:
		return e.ClearHistory(ctx, s), nil
	case domain.CmdThemeToggle:
		return e.ToggleTheme(ctx, s), nil
	case domain.CmdAngleToggle:
		return e.ToggleAngleMode(ctx, s), nil
	case domain.CmdAngleSet:
		return e.SetAngleMode(ctx, s, domain.AngleMode(strings.ToLower(strings.TrimSpace(cmd.Arg))))
	}
	return nil, &domain.UnknownCommandError{Name: string(cmd.Name)}
}

// Key names for the non-printable keys the keypad understands.
const (
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
)

// KeyPress maps a physical key to an operation. Unbound keys leave the state
// untouched and report handled=false.
func (e *Engine) KeyPress(ctx context.Context, s *domain.State, key string) (*domain.State, bool) {
	switch key {
	case KeyEnter, "=":
		return e.Evaluate(ctx, s), true
	case KeyBackspace:
		return e.Backspace(ctx, s), true
	case KeyEscape:
		return e.Clear(ctx, s), true
	case "+", "-", "*", "/", "(", ")", ".":
		return e.Append(ctx, s, key), true
	}
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return e.Append(ctx, s, key), true
	}
	return s.Snapshot(), false
}
