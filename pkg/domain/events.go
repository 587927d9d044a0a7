package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventEvaluate        EventType = "evaluate"
	EventEvaluationError EventType = "evaluation_error"
	EventMemory          EventType = "memory"
	EventHistoryClear    EventType = "history_clear"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// EvaluationEvent describes one pass through the evaluator.
type EvaluationEvent struct {
	EventBase
	Expression string        `json:"expression"`
	Result     string        `json:"result"`
	AngleMode  AngleMode     `json:"angle_mode"`
	Recorded   bool          `json:"recorded"` // true when a history entry was added
	Err        error         `json:"-"`
	Duration   time.Duration `json:"duration"`
}

// MemoryEvent describes a memory register operation.
type MemoryEvent struct {
	EventBase
	Op    CommandName `json:"op"`
	Value float64     `json:"value"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnEvaluate        func(context.Context, *EvaluationEvent)
	OnEvaluationError func(context.Context, *EvaluationEvent)
	OnMemory          func(context.Context, *MemoryEvent)
	OnHistoryClear    func(context.Context, *EventBase)
}
