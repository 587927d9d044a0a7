package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordEngineEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	engine, err := abacus.New(abacus.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)

	ctx := context.Background()
	state := engine.Start(ctx, "m")
	for _, cmd := range []domain.Command{
		{Name: domain.CmdAppend, Arg: "2+2"},
		{Name: domain.CmdEvaluate},
		{Name: domain.CmdMemoryAdd},
		{Name: domain.CmdAppend, Arg: "*"},
		{Name: domain.CmdEvaluate},
		{Name: domain.CmdHistoryClear},
	} {
		state, _, err = engine.Apply(ctx, state, cmd)
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Evaluations.WithLabelValues("ok", "deg")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Evaluations.WithLabelValues("error", "deg")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MemoryOps.WithLabelValues("memory_add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HistoryClears))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.EvaluateLatency))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.IncrementMemory(domain.CmdMemoryAdd)
		m.ObserveEvaluation("ok", &domain.EvaluationEvent{})
	})
}

func TestChain(t *testing.T) {
	var calls []string
	first := domain.LifecycleHooks{
		OnHistoryClear: func(context.Context, *domain.EventBase) { calls = append(calls, "first") },
	}
	second := domain.LifecycleHooks{
		OnHistoryClear: func(context.Context, *domain.EventBase) { calls = append(calls, "second") },
		OnMemory:       func(context.Context, *domain.MemoryEvent) { calls = append(calls, "memory") },
	}

	hooks := observability.Chain(first, domain.LifecycleHooks{}, second)
	require.Nil(t, hooks.OnEvaluate)

	hooks.OnHistoryClear(context.Background(), &domain.EventBase{})
	hooks.OnMemory(context.Background(), &domain.MemoryEvent{})
	assert.Equal(t, []string{"first", "second", "memory"}, calls)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	engine, err := abacus.New(abacus.WithLifecycleHooks(observability.LoggingHooks(logger)))
	require.NoError(t, err)

	_, err = engine.Calculate(context.Background(), "1+", "")
	require.Error(t, err)

	ctx := context.Background()
	state := engine.Start(ctx, "log")
	state, _, err = engine.Apply(ctx, state, domain.Command{Name: domain.CmdAppend, Arg: "6*7"})
	require.NoError(t, err)
	_, _, err = engine.Apply(ctx, state, domain.Command{Name: domain.CmdEvaluate})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "msg=evaluate")
	assert.Contains(t, buf.String(), "result=42")
	assert.Contains(t, buf.String(), "session_id=log")
}
