package metrics

import "github.com/prometheus/client_golang/prometheus"

// InventoryMetrics counts recorded physical stock counts and their variances.
type InventoryMetrics struct {
	records  prometheus.Counter
	variance *prometheus.CounterVec
}

func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	records := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_records_total",
		Help: "Physical stock counts recorded.",
	})
	variance := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_variance_lines_total",
		Help: "Inventory lines by variance direction.",
	}, []string{"direction"})
	reg.MustRegister(records, variance)
	return &InventoryMetrics{records: records, variance: variance}
}

// ObserveRecord counts one record with its surplus and shortage lines.
func (m *InventoryMetrics) ObserveRecord(surplus, shortage int) {
	if m == nil || m.records == nil {
		return
	}
	m.records.Inc()
	m.variance.WithLabelValues("surplus").Add(float64(surplus))
	m.variance.WithLabelValues("shortage").Add(float64(shortage))
}
