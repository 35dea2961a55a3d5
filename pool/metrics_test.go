package pool

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "postgres", "relational")

	m.connCreated()
	m.connCreated()
	m.connClosed()
	m.borrowed()
	m.returned()

	if got := testutil.ToFloat64(m.created); got != 2 {
		t.Errorf("created counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.closed); got != 1 {
		t.Errorf("closed counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.borrows); got != 1 {
		t.Errorf("borrows counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.returns); got != 1 {
		t.Errorf("returns counter = %v, want 1", got)
	}
}

func TestMetricsSetSize(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "mysql", "relational")
	m.SetSize(3, 2)

	if got := testutil.ToFloat64(m.poolSize.WithLabelValues("mysql", "relational", "idle")); got != 3 {
		t.Errorf("idle gauge = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.poolSize.WithLabelValues("mysql", "relational", "active")); got != 2 {
		t.Errorf("active gauge = %v, want 2", got)
	}
}

func TestMetricsNilRegistryDoesNotPanic(t *testing.T) {
	m := NewMetrics(nil, "sqlite", "relational")
	m.connCreated()
	m.SetSize(1, 1)
	m.Close(nil)
}

func TestMetricsCloseUnregisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "scylladb", "columnar")
	m.Close(reg)

	// Re-registering after Close should succeed — Close must have actually
	// unregistered the collectors, not merely reset them.
	m2 := NewMetrics(reg, "scylladb", "columnar")
	m2.connCreated()
}
