package pool

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// maintenanceInterval is how often the background worker sweeps for
// lifetime/idle eviction and min-idle top-up (spec.md §4.5.4).
const maintenanceInterval = 30 * time.Second

// shutdownGrace is how long Close waits for active handles to be returned
// before force-closing them (spec.md §4.5.5).
const shutdownGrace = 10 * time.Second

// core is the generic pool engine every paradigm pool (Relational, Document,
// Columnar) is built from (spec.md's Design Notes: "a generic pool
// parameterized over the handle type, the validation probe, and the
// pre-return cleanup" rather than three near-duplicate implementations).
// Paradigm differences live entirely in the three function fields below;
// core itself never refers to a specific backend.
//
// Locks: borrowMu (with cond), returnMu, allMu, idleMu and maintMu. They are
// not taken in one fixed global order: acquire takes idleMu and allMu while
// holding borrowMu; returnHandle takes allMu, idleMu and then borrowMu (to
// signal cond) while holding returnMu; sweep takes idleMu while holding
// maintMu, and allMu (through totalLen) while holding idleMu. allMu and
// idleMu have no combined helper; each is taken on its own. Nothing takes
// returnMu or maintMu while holding another of these locks, and nothing
// takes another lock while holding allMu.
type core[C dbconn.Connection] struct {
	cfg Config

	factory   func(ctx context.Context) dbresult.Result[C]
	validate  func(ctx context.Context, conn C) bool
	preReturn func(conn C)

	poolAlive *atomic.Bool

	borrowMu sync.Mutex
	cond     *sync.Cond

	returnMu sync.Mutex

	allMu sync.Mutex
	all   map[*genericHandle[C]]struct{}

	idleMu sync.Mutex
	idle   *list.List // of *genericHandle[C], front = least-recently-idled (strict FIFO)

	maintMu   sync.Mutex
	stopMaint chan struct{}
	maintDone chan struct{}

	metrics *Metrics
}

// newCore builds and initializes a core: reserves InitialSize handles and
// starts the maintenance worker (spec.md §4.5.1).
func newCore[C dbconn.Connection](
	ctx context.Context,
	cfg Config,
	factory func(ctx context.Context) dbresult.Result[C],
	validate func(ctx context.Context, conn C) bool,
	preReturn func(conn C),
	metrics *Metrics,
) dbresult.Result[*core[C]] {
	cfg = cfg.Defaults()
	alive := &atomic.Bool{}
	alive.Store(true)

	c := &core[C]{
		cfg:       cfg,
		factory:   factory,
		validate:  validate,
		preReturn: preReturn,
		poolAlive: alive,
		all:       make(map[*genericHandle[C]]struct{}),
		idle:      list.New(),
		stopMaint: make(chan struct{}),
		maintDone: make(chan struct{}),
		metrics:   metrics,
	}
	c.cond = sync.NewCond(&c.borrowMu)

	for i := 0; i < cfg.InitialSize; i++ {
		h, err := c.createHandle(ctx)
		if err != nil {
			c.shutdownPartial()
			return dbresult.Err[*core[C]](err)
		}
		c.idlePush(h)
	}

	go c.maintenanceLoop()

	return dbresult.Ok(c)
}

func (c *core[C]) shutdownPartial() {
	c.allMu.Lock()
	handles := make([]*genericHandle[C], 0, len(c.all))
	for h := range c.all {
		handles = append(handles, h)
	}
	c.allMu.Unlock()
	for _, h := range handles {
		h.closeUnderlying()
	}
}

func (c *core[C]) createHandle(ctx context.Context) (*genericHandle[C], *dberr.Error) {
	res := c.factory(ctx)
	if res.IsErr() {
		return nil, res.Error()
	}
	conn := res.Value()
	h := newGenericHandle(conn, c)
	c.allMu.Lock()
	c.all[h] = struct{}{}
	c.allMu.Unlock()
	if c.metrics != nil {
		c.metrics.connCreated()
	}
	return h, nil
}

func (c *core[C]) idlePush(h *genericHandle[C]) {
	h.markIdle()
	c.idleMu.Lock()
	c.idle.PushBack(h)
	c.idleMu.Unlock()
}

func (c *core[C]) idlePop() *genericHandle[C] {
	c.idleMu.Lock()
	defer c.idleMu.Unlock()
	front := c.idle.Front()
	if front == nil {
		return nil
	}
	c.idle.Remove(front)
	return front.Value.(*genericHandle[C])
}

func (c *core[C]) idleLen() int {
	c.idleMu.Lock()
	defer c.idleMu.Unlock()
	return c.idle.Len()
}

func (c *core[C]) totalLen() int {
	c.allMu.Lock()
	defer c.allMu.Unlock()
	return len(c.all)
}

func (c *core[C]) removeFromAll(h *genericHandle[C]) {
	c.allMu.Lock()
	delete(c.all, h)
	c.allMu.Unlock()
}

// acquire implements spec.md §4.5.2's bounded-wait borrow algorithm: pop an
// idle handle if one validates, else grow the pool if under MaxSize, else
// wait on cond until one is returned or MaxWait elapses.
func (c *core[C]) acquire(ctx context.Context) (*genericHandle[C], *dberr.Error) {
	if !c.poolAlive.Load() {
		return nil, dberr.New(dberr.CodePoolClosed, dberr.KindPoolClosed, "pool is closed")
	}

	deadline := time.Now().Add(c.cfg.MaxWait)

	c.borrowMu.Lock()
	defer c.borrowMu.Unlock()

	for {
		if !c.poolAlive.Load() {
			return nil, dberr.New(dberr.CodePoolClosed, dberr.KindPoolClosed, "pool is closed")
		}

		for {
			h := c.idlePop()
			if h == nil {
				break
			}
			if c.validHandle(ctx, h) {
				h.markActive()
				if c.metrics != nil {
					c.metrics.borrowed()
				}
				return h, nil
			}
			c.discard(h)
		}

		if c.totalLen() < c.cfg.MaxSize {
			h, err := c.createHandle(ctx)
			if err != nil {
				return nil, dberr.Wrap(err, dberr.CodePoolCreateFailed, dberr.KindConnectionFailed, "failed to create pooled connection")
			}
			h.markActive()
			if c.metrics != nil {
				c.metrics.borrowed()
			}
			return h, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, dberr.New(dberr.CodePoolBorrowTimeout, dberr.KindBorrowTimeout, "timed out waiting for a pooled connection")
		}

		waitCh := make(chan struct{})
		go func() {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-timer.C:
				c.borrowMu.Lock()
				c.cond.Broadcast()
				c.borrowMu.Unlock()
			case <-waitCh:
			}
		}()
		c.cond.Wait()
		close(waitCh)
	}
}

// validHandle runs the validation probe if TestOnBorrow is set and reports
// whether the handle passed; acquire discards (not just skips) handles that
// fail it.
func (c *core[C]) validHandle(ctx context.Context, h *genericHandle[C]) bool {
	if !c.cfg.TestOnBorrow || c.validate == nil {
		return true
	}
	vctx := ctx
	if c.cfg.ValidationTimeout > 0 {
		var cancel context.CancelFunc
		vctx, cancel = context.WithTimeout(ctx, c.cfg.ValidationTimeout)
		defer cancel()
	}
	return c.validate(vctx, h.conn)
}

// discard removes a handle from the pool entirely and closes its underlying
// connection. Used for failed validation and eviction.
func (c *core[C]) discard(h *genericHandle[C]) {
	c.removeFromAll(h)
	h.closeUnderlying()
	if c.metrics != nil {
		c.metrics.connClosed()
	}
}

// returnHandle implements spec.md §4.5.3's release algorithm: optionally
// run the paradigm's pre-return cleanup and validate, then either re-queue
// the handle as idle or discard it (validation failed, or the underlying
// connection is closed), waking one waiting borrower either way. A handle
// returned after the pool has closed is discarded without waking anyone.
func (c *core[C]) returnHandle(h *genericHandle[C]) {
	c.returnMu.Lock()
	defer c.returnMu.Unlock()

	// spec.md §4.5.3 step 3: a handle that is not active was already
	// returned — stop. The CAS makes active (not the resettable closed
	// flag) the idempotency latch: a second Close() that slips past
	// handle.go's closed CAS (because the first return reset closed to
	// false) finds active already false here and is a no-op.
	if !h.active.CompareAndSwap(true, false) {
		return
	}

	if !c.poolAlive.Load() {
		c.discard(h)
		return
	}

	if c.preReturn != nil {
		c.preReturn(h.conn)
	}

	ok := true
	if c.cfg.TestOnReturn && c.validate != nil {
		ctx := context.Background()
		if c.cfg.ValidationTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.cfg.ValidationTimeout)
			defer cancel()
		}
		ok = c.validate(ctx, h.conn)
	}

	if !ok || h.conn.IsClosed() {
		c.discard(h)
	} else {
		h.closed.Store(false)
		c.idlePush(h)
		if c.metrics != nil {
			c.metrics.returned()
		}
	}

	c.borrowMu.Lock()
	c.cond.Signal()
	c.borrowMu.Unlock()
}

// maintenanceLoop implements spec.md §4.5.4: every maintenanceInterval,
// evict idle handles past IdleTimeout or MaxLifetime (never dropping below
// MinIdle), then top back up to MinIdle.
func (c *core[C]) maintenanceLoop() {
	defer close(c.maintDone)
	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopMaint:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *core[C]) sweep() {
	c.maintMu.Lock()
	defer c.maintMu.Unlock()

	now := time.Now()
	var victims []*genericHandle[C]

	c.idleMu.Lock()
	var keep []*genericHandle[C]
	for e := c.idle.Front(); e != nil; e = e.Next() {
		h := e.Value.(*genericHandle[C])
		expired := (c.cfg.IdleTimeout > 0 && now.Sub(h.LastUsed()) > c.cfg.IdleTimeout) ||
			(c.cfg.MaxLifetime > 0 && now.Sub(h.CreatedAt()) > c.cfg.MaxLifetime)
		if expired && c.totalLen()-len(victims) > c.cfg.MinIdle {
			victims = append(victims, h)
		} else {
			keep = append(keep, h)
		}
	}
	c.idle.Init()
	for _, h := range keep {
		c.idle.PushBack(h)
	}
	c.idleMu.Unlock()

	for _, h := range victims {
		c.discard(h)
	}
	if len(victims) > 0 {
		slog.Info("pool maintenance evicted idle connections", "evicted", len(victims), "idle", c.idleLen(), "total", c.totalLen())
	}

	topUp := 0
	for c.idleLen() < c.cfg.MinIdle && c.totalLen() < c.cfg.MaxSize {
		h, err := c.createHandle(context.Background())
		if err != nil {
			slog.Warn("pool maintenance failed to top up min-idle connections", "error", err)
			break
		}
		c.idlePush(h)
		topUp++
	}
	if topUp > 0 {
		slog.Info("pool maintenance topped up idle connections", "created", topUp, "idle", c.idleLen())
	}
}

// close implements spec.md §4.5.5's shutdown: stop accepting new borrows
// immediately, wait up to shutdownGrace for active handles to be returned,
// then force-close whatever remains.
func (c *core[C]) close() dbresult.Result[dbresult.Unit] {
	if !c.poolAlive.CompareAndSwap(true, false) {
		return dbresult.OkUnit()
	}
	slog.Info("pool shutting down", "total", c.totalLen(), "active", c.activeCount())

	close(c.stopMaint)
	<-c.maintDone

	c.borrowMu.Lock()
	c.cond.Broadcast()
	c.borrowMu.Unlock()

	deadline := time.Now().Add(shutdownGrace)
	for time.Now().Before(deadline) {
		if c.activeCount() == 0 {
			break
		}
		time.Sleep(25 * time.Millisecond)
	}

	c.allMu.Lock()
	handles := make([]*genericHandle[C], 0, len(c.all))
	for h := range c.all {
		handles = append(handles, h)
	}
	c.all = make(map[*genericHandle[C]]struct{})
	c.allMu.Unlock()

	c.idleMu.Lock()
	c.idle.Init()
	c.idleMu.Unlock()

	for _, h := range handles {
		h.closeUnderlying()
		if c.metrics != nil {
			c.metrics.connClosed()
		}
	}
	return dbresult.OkUnit()
}

func (c *core[C]) activeCount() int {
	c.allMu.Lock()
	defer c.allMu.Unlock()
	n := 0
	for h := range c.all {
		if h.isActive() {
			n++
		}
	}
	return n
}

// stats reports a point-in-time snapshot for Metrics and tests.
func (c *core[C]) stats() (total, idle, active int) {
	total = c.totalLen()
	idle = c.idleLen()
	active = total - idle
	return
}
