package pool

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// genericHandle is the paradigm-agnostic half of the PooledHandle protocol
// (spec.md §3 "PooledHandle", §4.6 "Pooled-handle wrapper protocol"). A
// paradigm-specific handle (RelationalHandle, DocumentHandle,
// ColumnarHandle) embeds *genericHandle[C] to get Close/IsClosed/
// ReturnToPool/IsPooled/GetURL for free, and adds its own delegated
// operations on top of conn.
//
// Concurrency rests on three primitives exactly as spec.md §4.6 describes:
// active, closed (both atomic.Bool) and the shared poolAlive atomic.Bool.
// No other field is touched concurrently outside the pool's locks.
type genericHandle[C dbconn.Connection] struct {
	conn C
	core *core[C]

	// poolAlive is shared by every handle from the same core and the core
	// itself — the belt-and-suspenders liveness guard spec.md's Design
	// Notes describe. It's set false exactly once, at the start of
	// shutdown, and never set true again.
	poolAlive *atomic.Bool

	active atomic.Bool
	closed atomic.Bool

	createdAt time.Time

	lastUsedMu sync.Mutex
	lastUsedAt time.Time
}

func newGenericHandle[C dbconn.Connection](conn C, c *core[C]) *genericHandle[C] {
	now := time.Now()
	h := &genericHandle[C]{
		conn:      conn,
		core:      c,
		poolAlive: c.poolAlive,
		createdAt: now,
	}
	h.setLastUsed(now)
	return h
}

func (h *genericHandle[C]) setLastUsed(t time.Time) {
	h.lastUsedMu.Lock()
	h.lastUsedAt = t
	h.lastUsedMu.Unlock()
}

func (h *genericHandle[C]) LastUsed() time.Time {
	h.lastUsedMu.Lock()
	defer h.lastUsedMu.Unlock()
	return h.lastUsedAt
}

func (h *genericHandle[C]) CreatedAt() time.Time { return h.createdAt }

func (h *genericHandle[C]) touch() { h.setLastUsed(time.Now()) }

// markActive transitions the handle to the client's hand: active=true,
// closed cleared, last-used refreshed (spec.md §3, Lifecycle step 2).
func (h *genericHandle[C]) markActive() {
	h.active.Store(true)
	h.closed.Store(false)
	h.touch()
}

func (h *genericHandle[C]) markIdle() {
	h.active.Store(false)
	h.touch()
}

func (h *genericHandle[C]) isActive() bool { return h.active.Load() }

// assertOpen is the guard every delegated call performs first (spec.md
// §4.6: "first asserts closed=false ... else produces a connection-closed
// error").
func (h *genericHandle[C]) assertOpen() *dberr.Error {
	if h.closed.Load() {
		return dberr.New(dberr.CodeHandleClosed, dberr.KindConnectionClosed, "connection is closed")
	}
	return nil
}

// Close implements the compare-and-swap handoff of spec.md §4.6: at most
// one goroutine transitions closed false→true. On that transition, if the
// pool is alive the handle hands itself back through the pool's return
// path and, if successfully re-queued, resets closed to false (the "return
// in progress" latch spec.md §3 Lifecycle step 3 describes). Otherwise it
// closes the underlying connection directly.
func (h *genericHandle[C]) Close() dbresult.Result[dbresult.Unit] {
	if !h.closed.CompareAndSwap(false, true) {
		return dbresult.OkUnit()
	}
	if h.poolAlive.Load() && h.core != nil {
		h.core.returnHandle(h)
		return dbresult.OkUnit()
	}
	_, _ = h.conn.Close().Unwrap()
	return dbresult.OkUnit()
}

// ReturnToPool follows the same path as Close (spec.md §4.6).
func (h *genericHandle[C]) ReturnToPool() dbresult.Result[dbresult.Unit] {
	return h.Close()
}

func (h *genericHandle[C]) IsClosed() bool {
	return h.closed.Load() || h.conn.IsClosed()
}

func (h *genericHandle[C]) IsPooled() bool { return true }

func (h *genericHandle[C]) GetURL() string { return h.conn.GetURL() }

// closeUnderlying closes the wrapped connection directly, bypassing the
// pool-return latch. Used by the pool core itself (eviction, shutdown).
func (h *genericHandle[C]) closeUnderlying() {
	_, _ = h.conn.Close().Unwrap()
}
