package pool

import (
	"context"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dbresult"
	"github.com/prometheus/client_golang/prometheus"
)

// ColumnarPool pools dbconn.ColumnarConnection values.
type ColumnarPool struct {
	core    *core[dbconn.ColumnarConnection]
	metrics *Metrics
}

// NewColumnarPool builds a pool whose connections come from dial, each
// wrapped in a ColumnarHandle.
func NewColumnarPool(
	ctx context.Context,
	cfg Config,
	backend string,
	dial func(ctx context.Context) dbresult.Result[dbconn.ColumnarConnection],
	reg *prometheus.Registry,
) dbresult.Result[*ColumnarPool] {
	var m *Metrics
	if reg != nil {
		m = NewMetrics(reg, backend, dbconn.Columnar.String())
	}

	validate := columnarValidate
	if cfg.ValidationQuery != "" {
		validate = func(ctx context.Context, conn dbconn.ColumnarConnection) bool {
			_, err := conn.ExecuteQuery(cfg.ValidationQuery).Unwrap()
			return err == nil
		}
	}

	res := newCore(ctx, cfg, dial, validate, columnarPreReturn, m)
	if res.IsErr() {
		return dbresult.Err[*ColumnarPool](res.Error())
	}
	return dbresult.Ok(&ColumnarPool{core: res.Value(), metrics: m})
}

func (p *ColumnarPool) Acquire(ctx context.Context) dbresult.Result[dbconn.ColumnarConnection] {
	h, err := p.core.acquire(ctx)
	if err != nil {
		return dbresult.Err[dbconn.ColumnarConnection](err)
	}
	return dbresult.Ok[dbconn.ColumnarConnection](newColumnarHandle(h))
}

func (p *ColumnarPool) Close() dbresult.Result[dbresult.Unit] {
	return p.core.close()
}

func (p *ColumnarPool) Stats() (total, idle, active int) {
	total, idle, active = p.core.stats()
	if p.metrics != nil {
		p.metrics.SetSize(idle, active)
	}
	return
}
