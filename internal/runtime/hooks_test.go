package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/abacus/internal/runtime"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_LifecycleHooks(t *testing.T) {
	var evaluated, failed []*domain.EvaluationEvent
	var memory []*domain.MemoryEvent
	var cleared int

	hooks := domain.LifecycleHooks{
		OnEvaluate: func(ctx context.Context, e *domain.EvaluationEvent) {
			evaluated = append(evaluated, e)
		},
		OnEvaluationError: func(ctx context.Context, e *domain.EvaluationEvent) {
			failed = append(failed, e)
		},
		OnMemory: func(ctx context.Context, e *domain.MemoryEvent) {
			memory = append(memory, e)
		},
		OnHistoryClear: func(ctx context.Context, e *domain.EventBase) {
			cleared++
		},
	}

	engine := runtime.NewEngine(runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	s := engine.Start(ctx, "hooks")
	s = engine.Append(ctx, s, "6*7")
	s = engine.Evaluate(ctx, s)
	s = engine.MemoryAdd(ctx, s)
	s = engine.Append(ctx, s, "+")
	s = engine.Evaluate(ctx, s)
	_ = engine.ClearHistory(ctx, s)

	require.Len(t, evaluated, 1)
	assert.Equal(t, "6*7", evaluated[0].Expression)
	assert.Equal(t, "42", evaluated[0].Result)
	assert.True(t, evaluated[0].Recorded)
	assert.Equal(t, "hooks", evaluated[0].SessionID)

	require.Len(t, failed, 1)
	assert.Equal(t, domain.EventEvaluationError, failed[0].Type)
	assert.ErrorIs(t, failed[0].Err, domain.ErrEvaluation)

	require.Len(t, memory, 1)
	assert.Equal(t, domain.CmdMemoryAdd, memory[0].Op)
	assert.Equal(t, 42.0, memory[0].Value)

	assert.Equal(t, 1, cleared)
}
