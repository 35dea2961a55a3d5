package pool

import (
	"context"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dbresult"
	"github.com/prometheus/client_golang/prometheus"
)

// DocumentPool pools dbconn.DocumentConnection values.
type DocumentPool struct {
	core    *core[dbconn.DocumentConnection]
	metrics *Metrics
}

// NewDocumentPool builds a pool whose connections come from dial, each
// wrapped in a DocumentHandle. Validation always uses Ping regardless of
// Config.ValidationQuery — the document paradigm has no query language at
// this layer (spec.md §4.5.7).
func NewDocumentPool(
	ctx context.Context,
	cfg Config,
	backend string,
	dial func(ctx context.Context) dbresult.Result[dbconn.DocumentConnection],
	reg *prometheus.Registry,
) dbresult.Result[*DocumentPool] {
	var m *Metrics
	if reg != nil {
		m = NewMetrics(reg, backend, dbconn.Document.String())
	}

	res := newCore(ctx, cfg, dial, documentValidate, documentPreReturn, m)
	if res.IsErr() {
		return dbresult.Err[*DocumentPool](res.Error())
	}
	return dbresult.Ok(&DocumentPool{core: res.Value(), metrics: m})
}

func (p *DocumentPool) Acquire(ctx context.Context) dbresult.Result[dbconn.DocumentConnection] {
	h, err := p.core.acquire(ctx)
	if err != nil {
		return dbresult.Err[dbconn.DocumentConnection](err)
	}
	return dbresult.Ok[dbconn.DocumentConnection](newDocumentHandle(h))
}

func (p *DocumentPool) Close() dbresult.Result[dbresult.Unit] {
	return p.core.close()
}

func (p *DocumentPool) Stats() (total, idle, active int) {
	total, idle, active = p.core.stats()
	if p.metrics != nil {
		p.metrics.SetSize(idle, active)
	}
	return
}
