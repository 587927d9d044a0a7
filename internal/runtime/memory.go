package runtime

import (
	"context"

	"github.com/aretw0/abacus/internal/compiler"
	"github.com/aretw0/abacus/pkg/domain"
)

// MemoryClear resets the register to 0.
func (e *Engine) MemoryClear(ctx context.Context, s *domain.State) *domain.State {
	next := s.Snapshot()
	next.Memory = 0
	e.memoryEvent(ctx, s, domain.CmdMemoryClear, 0)
	return e.commit(s, next)
}

// MemoryRecall replaces the buffer with the register value.
func (e *Engine) MemoryRecall(ctx context.Context, s *domain.State) *domain.State {
	next := s.Snapshot()
	next.Buffer = compiler.FormatNumber(s.Memory.Float())
	e.memoryEvent(ctx, s, domain.CmdMemoryRecall, s.Memory.Float())
	return e.commit(s, next)
}

// MemoryAdd adds the value of the buffer to the register. No-op on an empty buffer.
func (e *Engine) MemoryAdd(ctx context.Context, s *domain.State) *domain.State {
	return e.accumulate(ctx, s, domain.CmdMemoryAdd, 1)
}

// MemorySubtract subtracts the value of the buffer from the register. No-op on an empty buffer.
func (e *Engine) MemorySubtract(ctx context.Context, s *domain.State) *domain.State {
	return e.accumulate(ctx, s, domain.CmdMemorySubtract, -1)
}

func (e *Engine) accumulate(ctx context.Context, s *domain.State, op domain.CommandName, sign float64) *domain.State {
	if s.Buffer == "" {
		return s.Snapshot()
	}
	v := e.value(ctx, s)
	next := s.Snapshot()
	next.Memory = domain.Register(s.Memory.Float() + sign*v)
	e.memoryEvent(ctx, s, op, next.Memory.Float())
	return e.commit(s, next)
}

func (e *Engine) memoryEvent(ctx context.Context, s *domain.State, op domain.CommandName, value float64) {
	if e.hooks.OnMemory == nil {
		return
	}
	e.hooks.OnMemory(ctx, &domain.MemoryEvent{
		EventBase: e.event(s, domain.EventMemory),
		Op:        op,
		Value:     value,
	})
}
