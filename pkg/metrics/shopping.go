package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ShoppingMetrics records shopping list workflow activity.
type ShoppingMetrics struct {
	transitions *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	credited    prometheus.Counter
	completion  prometheus.Histogram
}

// NewShoppingMetrics registers the shopping metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewShoppingMetrics(reg prometheus.Registerer) *ShoppingMetrics {
	if reg == nil {
		return &ShoppingMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopping_list_transitions_total",
		Help: "Shopping list status transitions.",
	}, []string{"from", "to"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shopping_list_transitions_rejected_total",
		Help: "Shopping list operations refused because of the list status.",
	}, []string{"operation"})
	credited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shopping_list_stock_credits_total",
		Help: "Stock entries credited by completed shopping lists.",
	})
	completion := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopping_list_completion_seconds",
		Help:    "Duration of shopping list completion.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(transitions, rejected, credited, completion)
	return &ShoppingMetrics{
		transitions: transitions,
		rejected:    rejected,
		credited:    credited,
		completion:  completion,
	}
}

func (m *ShoppingMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func (m *ShoppingMetrics) IncRejected(operation string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(operation)).Inc()
}

func (m *ShoppingMetrics) AddCredits(n int) {
	if m == nil || m.credited == nil || n <= 0 {
		return
	}
	m.credited.Add(float64(n))
}

func (m *ShoppingMetrics) ObserveCompletion(d time.Duration) {
	if m == nil || m.completion == nil {
		return
	}
	m.completion.Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
