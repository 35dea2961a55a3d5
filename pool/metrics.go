package pool

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the optional Prometheus instrumentation for a pool, adapted
// from the bouncer's tenant-labeled collector to the library's
// backend/paradigm label pair — there are no tenants here, only backends.
type Metrics struct {
	mu       sync.Mutex
	backend  string
	paradigm string

	created  prometheus.Counter
	closed   prometheus.Counter
	borrows  prometheus.Counter
	returns  prometheus.Counter
	poolSize *prometheus.GaugeVec
}

// NewMetrics registers a Metrics collector for one pool instance under reg.
// backend is e.g. "postgres", paradigm is e.g. "relational". Passing a nil
// registry is valid and yields a Metrics that records nothing but is still
// safe to call.
func NewMetrics(reg *prometheus.Registry, backend, paradigm string) *Metrics {
	labels := prometheus.Labels{"backend": backend, "paradigm": paradigm}
	m := &Metrics{
		backend:  backend,
		paradigm: paradigm,
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "godbc",
			Subsystem:   "pool",
			Name:        "connections_created_total",
			Help:        "Total pooled connections created.",
			ConstLabels: labels,
		}),
		closed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "godbc",
			Subsystem:   "pool",
			Name:        "connections_closed_total",
			Help:        "Total pooled connections closed or evicted.",
			ConstLabels: labels,
		}),
		borrows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "godbc",
			Subsystem:   "pool",
			Name:        "borrows_total",
			Help:        "Total successful borrow operations.",
			ConstLabels: labels,
		}),
		returns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "godbc",
			Subsystem:   "pool",
			Name:        "returns_total",
			Help:        "Total successful return operations.",
			ConstLabels: labels,
		}),
		poolSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "godbc",
			Subsystem: "pool",
			Name:      "size",
			Help:      "Current pool size by state (idle, active).",
		}, []string{"backend", "paradigm", "state"}),
	}
	if reg != nil {
		reg.MustRegister(m.created, m.closed, m.borrows, m.returns, m.poolSize)
	}
	return m
}

func (m *Metrics) connCreated() { m.created.Inc() }
func (m *Metrics) connClosed()  { m.closed.Inc() }
func (m *Metrics) borrowed()    { m.borrows.Inc() }
func (m *Metrics) returned()    { m.returns.Inc() }

// SetSize publishes a point-in-time idle/active split, typically called
// right after core.stats().
func (m *Metrics) SetSize(idle, active int) {
	m.poolSize.WithLabelValues(m.backend, m.paradigm, "idle").Set(float64(idle))
	m.poolSize.WithLabelValues(m.backend, m.paradigm, "active").Set(float64(active))
}

// Close removes this pool's size gauges from the registry, mirroring the
// bouncer collector's per-tenant DeletePartialMatch cleanup on drain.
func (m *Metrics) Close(reg *prometheus.Registry) {
	if reg == nil {
		return
	}
	reg.Unregister(m.created)
	reg.Unregister(m.closed)
	reg.Unregister(m.borrows)
	reg.Unregister(m.returns)
	m.poolSize.DeletePartialMatch(prometheus.Labels{"backend": m.backend, "paradigm": m.paradigm})
	reg.Unregister(m.poolSize)
}
