package runner

import (
	"context"
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedHandler answers Input from a fixed list and records system messages.
type scriptedHandler struct {
	answers  []string
	messages []string
}

func (h *scriptedHandler) Output(ctx context.Context, actions []domain.ActionRequest) error {
	return nil
}

func (h *scriptedHandler) Input(ctx context.Context) (string, error) {
	answer := h.answers[0]
	h.answers = h.answers[1:]
	return answer, nil
}

func (h *scriptedHandler) SystemOutput(ctx context.Context, msg string) error {
	h.messages = append(h.messages, msg)
	return nil
}

func TestConfirmationMiddleware(t *testing.T) {
	ctx := context.Background()

	t.Run("Harmless commands pass without asking", func(t *testing.T) {
		h := &scriptedHandler{}
		ok, err := ConfirmationMiddleware(h)(ctx, domain.Command{Name: domain.CmdEvaluate})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, h.messages)
	})

	t.Run("Destructive command approved", func(t *testing.T) {
		h := &scriptedHandler{answers: []string{"Yes"}}
		ok, err := ConfirmationMiddleware(h)(ctx, domain.Command{Name: domain.CmdMemoryClear})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"Clear the memory register? [y/N]"}, h.messages)
	})

	t.Run("Destructive command refused by default", func(t *testing.T) {
		h := &scriptedHandler{answers: []string{""}}
		ok, err := ConfirmationMiddleware(h)(ctx, domain.Command{Name: domain.CmdHistoryClear})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMultiInterceptor(t *testing.T) {
	ctx := context.Background()
	chain := MultiInterceptor(AutoApproveMiddleware(), DenyListMiddleware(domain.CmdThemeToggle))

	ok, err := chain(ctx, domain.Command{Name: domain.CmdThemeToggle})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = chain(ctx, domain.Command{Name: domain.CmdAngleToggle})
	require.NoError(t, err)
	assert.True(t, ok)
}
