package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestShoppingMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewShoppingMetrics(reg)

	m.IncTransition("shopping", "completed")
	m.IncTransition("shopping", "completed")
	m.IncRejected("begin_shopping")
	m.AddCredits(3)
	m.AddCredits(0)
	m.ObserveCompletion(20 * time.Millisecond)

	mfs := gather(t, reg)

	requireCounter(t, mfs, "shopping_list_transitions_total", map[string]string{"from": "shopping", "to": "completed"}, 2)
	requireCounter(t, mfs, "shopping_list_transitions_rejected_total", map[string]string{"operation": "begin_shopping"}, 1)
	requireCounter(t, mfs, "shopping_list_stock_credits_total", nil, 3)

	hist := find(t, mfs, "shopping_list_completion_seconds", nil)
	if n := hist.GetHistogram().GetSampleCount(); n != 1 {
		t.Fatalf("expected 1 completion sample got %d", n)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewShoppingMetrics(nil)
	m.IncTransition("", "")
	m.IncRejected("")
	m.AddCredits(1)
	m.ObserveCompletion(time.Second)

	var nilMetrics *ShoppingMetrics
	nilMetrics.IncTransition("a", "b")

	inv := NewInventoryMetrics(nil)
	inv.ObserveRecord(1, 1)
}

func TestInventoryMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewInventoryMetrics(reg)
	m.ObserveRecord(2, 1)

	mfs := gather(t, reg)
	requireCounter(t, mfs, "inventory_records_total", nil, 1)
	requireCounter(t, mfs, "inventory_variance_lines_total", map[string]string{"direction": "surplus"}, 2)
	requireCounter(t, mfs, "inventory_variance_lines_total", map[string]string{"direction": "shortage"}, 1)
	if got := normalizeLabel(""); got != "unknown" {
		t.Fatalf("expected unknown label got %q", got)
	}
}

func gather(t *testing.T, reg *prometheus.Registry) []*dto.MetricFamily {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	return mfs
}

func requireCounter(t *testing.T, mfs []*dto.MetricFamily, name string, labels map[string]string, want float64) {
	t.Helper()
	if got := find(t, mfs, name, labels).GetCounter().GetValue(); got != want {
		t.Fatalf("%s %v: expected %v got %v", name, labels, want, got)
	}
}

func find(t *testing.T, mfs []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matches(metric, labels) {
				return metric
			}
		}
	}
	t.Fatalf("metric %s %v not found", name, labels)
	return nil
}

func matches(metric *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, pair := range metric.GetLabel() {
		if want, ok := labels[pair.GetName()]; ok {
			if want != pair.GetValue() {
				return false
			}
			found++
		}
	}
	return found == len(labels)
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("POST", "/api/v1/shopping-lists/{listId}/complete", 200, 30*time.Millisecond)
	m.Observe("GET", "", 404, time.Millisecond)

	mfs := gather(t, reg)
	requireCounter(t, mfs, "http_requests_total", map[string]string{
		"method": "POST", "route": "/api/v1/shopping-lists/{listId}/complete", "status": "200",
	}, 1)
	requireCounter(t, mfs, "http_requests_total", map[string]string{
		"method": "GET", "route": "unknown", "status": "404",
	}, 1)

	var nilMetrics *HTTPMetrics
	nilMetrics.Observe("GET", "/", 200, time.Second)
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Second)
}
