package observability

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the calculator engine.
type Metrics struct {
	// Evaluations by outcome ("ok", "error") and angle mode
	Evaluations *prometheus.CounterVec

	// Evaluation latency, successful or not
	EvaluateLatency prometheus.Histogram

	// Memory register operations by command
	MemoryOps *prometheus.CounterVec

	HistoryClears prometheus.Counter
}

// NewMetrics registers the engine metrics on reg.
// Pass prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "abacus_evaluations_total",
			Help: "Total expression evaluations by outcome and angle mode",
		}, []string{"outcome", "angle_mode"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "abacus_evaluate_duration_seconds",
			Help:    "Duration of expression evaluation",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),

		MemoryOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "abacus_memory_operations_total",
			Help: "Total memory register operations by command",
		}, []string{"op"}),

		HistoryClears: factory.NewCounter(prometheus.CounterOpts{
			Name: "abacus_history_clears_total",
			Help: "Total history clear commands",
		}),
	}
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvaluate: func(_ context.Context, e *domain.EvaluationEvent) {
			m.ObserveEvaluation("ok", e)
		},
		OnEvaluationError: func(_ context.Context, e *domain.EvaluationEvent) {
			m.ObserveEvaluation("error", e)
		},
		OnMemory: func(_ context.Context, e *domain.MemoryEvent) {
			m.IncrementMemory(e.Op)
		},
		OnHistoryClear: func(_ context.Context, _ *domain.EventBase) {
			if m != nil {
				m.HistoryClears.Inc()
			}
		},
	}
}

// ObserveEvaluation records one evaluation.
func (m *Metrics) ObserveEvaluation(outcome string, e *domain.EvaluationEvent) {
	if m != nil {
		m.Evaluations.WithLabelValues(outcome, string(e.AngleMode)).Inc()
		m.EvaluateLatency.Observe(e.Duration.Seconds())
	}
}

// IncrementMemory records a memory register operation.
func (m *Metrics) IncrementMemory(op domain.CommandName) {
	if m != nil {
		m.MemoryOps.WithLabelValues(string(op)).Inc()
	}
}
