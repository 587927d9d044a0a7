package runner

import (
	"context"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

// CommandInterceptor can block a command before it reaches the engine.
// It returns true if execution should proceed.
type CommandInterceptor func(ctx context.Context, cmd domain.Command) (bool, error)

// MultiInterceptor chains multiple interceptors. The first refusal wins.
func MultiInterceptor(interceptors ...CommandInterceptor) CommandInterceptor {
	return func(ctx context.Context, cmd domain.Command) (bool, error) {
		for _, interceptor := range interceptors {
			allowed, err := interceptor(ctx, cmd)
			if err != nil {
				return false, err
			}
			if !allowed {
				return false, nil
			}
		}
		return true, nil
	}
}

// AutoApproveMiddleware allows every command.
func AutoApproveMiddleware() CommandInterceptor {
	return func(ctx context.Context, cmd domain.Command) (bool, error) {
		return true, nil
	}
}

// destructive commands discard data the user cannot get back.
var destructive = map[domain.CommandName]string{
	domain.CmdHistoryClear: "Clear the whole history?",
	domain.CmdMemoryClear:  "Clear the memory register?",
}

// ConfirmationMiddleware asks the user before destructive commands.
func ConfirmationMiddleware(handler IOHandler) CommandInterceptor {
	return func(ctx context.Context, cmd domain.Command) (bool, error) {
		question, ok := destructive[cmd.Name]
		if !ok {
			return true, nil
		}
		if err := handler.SystemOutput(ctx, question+" [y/N]"); err != nil {
			return false, err
		}
		answer, err := handler.Input(ctx)
		if err != nil {
			return false, err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes", nil
	}
}

// DenyListMiddleware refuses the named commands outright.
func DenyListMiddleware(names ...domain.CommandName) CommandInterceptor {
	denied := make(map[domain.CommandName]bool, len(names))
	for _, n := range names {
		denied[n] = true
	}
	return func(ctx context.Context, cmd domain.Command) (bool, error) {
		return !denied[cmd.Name], nil
	}
}
