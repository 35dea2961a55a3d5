package pool

import (
	"context"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dbresult"
	"github.com/prometheus/client_golang/prometheus"
)

// RelationalPool pools dbconn.RelationalConnection values.
type RelationalPool struct {
	core    *core[dbconn.RelationalConnection]
	metrics *Metrics
}

// NewRelationalPool builds a pool whose connections come from dial, each
// wrapped in a RelationalHandle. backend names the owning driver (e.g.
// "postgres") for metrics labeling; reg may be nil to skip Prometheus
// registration entirely.
func NewRelationalPool(
	ctx context.Context,
	cfg Config,
	backend string,
	dial func(ctx context.Context) dbresult.Result[dbconn.RelationalConnection],
	reg *prometheus.Registry,
) dbresult.Result[*RelationalPool] {
	var m *Metrics
	if reg != nil {
		m = NewMetrics(reg, backend, dbconn.Relational.String())
	}

	validate := func(ctx context.Context, conn dbconn.RelationalConnection) bool {
		if cfg.ValidationQuery == "" {
			return !conn.IsClosed()
		}
		res := conn.ExecuteQuery(cfg.ValidationQuery)
		if res.IsErr() {
			return false
		}
		rs := res.Value()
		defer func() { _, _ = rs.Close().Unwrap() }()
		return true
	}

	if cfg.TransactionIsolation != dbconn.IsolationDefault {
		rawDial := dial
		dial = func(ctx context.Context) dbresult.Result[dbconn.RelationalConnection] {
			res := rawDial(ctx)
			if res.IsErr() {
				return res
			}
			if set := res.Value().SetTransactionIsolation(cfg.TransactionIsolation); set.IsErr() {
				_, _ = res.Value().Close().Unwrap()
				return dbresult.Err[dbconn.RelationalConnection](set.Error())
			}
			return res
		}
	}

	res := newCore(ctx, cfg, dial, validate, relationalPreReturn, m)
	if res.IsErr() {
		return dbresult.Err[*RelationalPool](res.Error())
	}
	return dbresult.Ok(&RelationalPool{core: res.Value(), metrics: m})
}

// Acquire borrows a connection, waiting up to Config.MaxWait if the pool is
// at MaxSize with none idle (spec.md §4.5.2).
func (p *RelationalPool) Acquire(ctx context.Context) dbresult.Result[dbconn.RelationalConnection] {
	h, err := p.core.acquire(ctx)
	if err != nil {
		return dbresult.Err[dbconn.RelationalConnection](err)
	}
	return dbresult.Ok[dbconn.RelationalConnection](newRelationalHandle(h))
}

// Close drains and shuts the pool down (spec.md §4.5.5).
func (p *RelationalPool) Close() dbresult.Result[dbresult.Unit] {
	return p.core.close()
}

// Stats returns a point-in-time (total, idle, active) snapshot.
func (p *RelationalPool) Stats() (total, idle, active int) {
	total, idle, active = p.core.stats()
	if p.metrics != nil {
		p.metrics.SetSize(idle, active)
	}
	return
}
