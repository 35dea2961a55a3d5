package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// fakeConn is a minimal dbconn.Connection for exercising the generic pool
// core without a real backend.
type fakeConn struct {
	mu       sync.Mutex
	closed   bool
	url      string
	failPing bool
}

func (f *fakeConn) Close() dbresult.Result[dbresult.Unit] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return dbresult.OkUnit()
}
func (f *fakeConn) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
func (f *fakeConn) ReturnToPool() dbresult.Result[dbresult.Unit] { return f.Close() }
func (f *fakeConn) IsPooled() bool                               { return false }
func (f *fakeConn) GetURL() string                               { return f.url }

func testFactory(created *int32) func(ctx context.Context) dbresult.Result[*fakeConn] {
	return func(ctx context.Context) dbresult.Result[*fakeConn] {
		atomic.AddInt32(created, 1)
		return dbresult.Ok(&fakeConn{url: "cpp_dbc:fake://host/db"})
	}
}

func testValidate(ctx context.Context, conn *fakeConn) bool {
	return !conn.IsClosed() && !conn.failPing
}

func testConfig() Config {
	return Config{
		MaxSize: 2,
		MinIdle: 0,
		MaxWait: 200 * time.Millisecond,
	}
}

func TestNewCoreCreatesInitialSize(t *testing.T) {
	var created int32
	cfg := testConfig()
	cfg.InitialSize = 2
	res := newCore[*fakeConn](context.Background(), cfg, testFactory(&created), testValidate, nil, nil)
	if res.IsErr() {
		t.Fatalf("unexpected error: %v", res.Error())
	}
	c := res.Value()
	defer c.close()

	if got := atomic.LoadInt32(&created); got != 2 {
		t.Errorf("expected 2 connections created up front, got %d", got)
	}
	total, idle, active := c.stats()
	if total != 2 || idle != 2 || active != 0 {
		t.Errorf("stats = (total=%d, idle=%d, active=%d), want (2, 2, 0)", total, idle, active)
	}
}

func TestAcquireReleaseRoundTrip(t *testing.T) {
	var created int32
	c := mustNewCore(t, testConfig(), &created)
	defer c.close()

	h, err := c.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if !h.isActive() {
		t.Error("acquired handle should be active")
	}
	total, idle, active := c.stats()
	if total != 1 || idle != 0 || active != 1 {
		t.Errorf("stats after acquire = (%d, %d, %d), want (1, 0, 1)", total, idle, active)
	}

	c.returnHandle(h)
	total, idle, active = c.stats()
	if total != 1 || idle != 1 || active != 0 {
		t.Errorf("stats after return = (%d, %d, %d), want (1, 1, 0)", total, idle, active)
	}
}

func TestAcquireGrowsUpToMaxSize(t *testing.T) {
	var created int32
	cfg := testConfig()
	cfg.MaxSize = 2
	c := mustNewCore(t, cfg, &created)
	defer c.close()

	h1, err := c.acquire(context.Background())
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	h2, err := c.acquire(context.Background())
	if err != nil {
		t.Fatalf("second acquire failed: %v", err)
	}
	if h1 == h2 {
		t.Fatal("expected two distinct handles")
	}
	if got := atomic.LoadInt32(&created); got != 2 {
		t.Errorf("expected pool to have created 2 connections, got %d", got)
	}
	c.returnHandle(h1)
	c.returnHandle(h2)
}

func TestAcquireTimesOutWhenExhausted(t *testing.T) {
	var created int32
	cfg := testConfig()
	cfg.MaxSize = 1
	cfg.MaxWait = 50 * time.Millisecond
	c := mustNewCore(t, cfg, &created)
	defer c.close()

	h, err := c.acquire(context.Background())
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	defer c.returnHandle(h)

	start := time.Now()
	_, err = c.acquire(context.Background())
	elapsed := time.Since(start)
	if err == nil {
		t.Fatal("expected a borrow-timeout error when the pool is exhausted")
	}
	if err.Kind() != dberr.KindBorrowTimeout {
		t.Errorf("expected KindBorrowTimeout, got %v", err.Kind())
	}
	if elapsed < cfg.MaxWait {
		t.Errorf("acquire returned before MaxWait elapsed: %v < %v", elapsed, cfg.MaxWait)
	}
}

func TestAcquireWakesOnReturn(t *testing.T) {
	var created int32
	cfg := testConfig()
	cfg.MaxSize = 1
	cfg.MaxWait = 2 * time.Second
	c := mustNewCore(t, cfg, &created)
	defer c.close()

	h, err := c.acquire(context.Background())
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(20 * time.Millisecond)
		c.returnHandle(h)
	}()

	start := time.Now()
	h2, err := c.acquire(context.Background())
	if err != nil {
		t.Fatalf("second acquire should succeed once the first is returned: %v", err)
	}
	if time.Since(start) > cfg.MaxWait {
		t.Error("acquire should have been woken by the return, not by timing out")
	}
	<-done
	c.returnHandle(h2)
}

func TestConcurrentAcquireReturnLeavesConsistentState(t *testing.T) {
	var created int32
	cfg := testConfig()
	cfg.MaxSize = 4
	cfg.MaxWait = 2 * time.Second
	c := mustNewCore(t, cfg, &created)
	defer c.close()

	var wg sync.WaitGroup
	const goroutines = 8
	const iterations = 10
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				h, err := c.acquire(context.Background())
				if err != nil {
					continue
				}
				time.Sleep(time.Millisecond)
				c.returnHandle(h)
			}
		}()
	}
	wg.Wait()

	total, idle, active := c.stats()
	if active != 0 {
		t.Errorf("expected 0 active handles once all goroutines finished, got %d", active)
	}
	if idle != total {
		t.Errorf("expected all %d handles idle, got %d idle", total, idle)
	}
}

func TestReturnDiscardsAfterPoolClosed(t *testing.T) {
	var created int32
	c := mustNewCore(t, testConfig(), &created)

	h, err := c.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	// Flip liveness directly rather than going through the full close()
	// shutdown grace period — this test targets returnHandle's pool-closed
	// branch, not shutdown timing.
	c.poolAlive.Store(false)

	c.returnHandle(h)
	if !h.conn.IsClosed() {
		t.Error("returning a handle to a closed pool should close its underlying connection")
	}
}

func TestAcquireFailsOnClosedPool(t *testing.T) {
	var created int32
	c := mustNewCore(t, testConfig(), &created)
	c.close()

	_, err := c.acquire(context.Background())
	if err == nil || err.Kind() != dberr.KindPoolClosed {
		t.Fatalf("expected KindPoolClosed acquiring from a closed pool, got %v", err)
	}
}

func TestReturnDiscardsOnFailedValidation(t *testing.T) {
	var created int32
	cfg := testConfig()
	cfg.TestOnReturn = true
	c := mustNewCore(t, cfg, &created)
	defer c.close()

	h, err := c.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	h.conn.failPing = true
	c.returnHandle(h)

	total, idle, _ := c.stats()
	if total != 0 || idle != 0 {
		t.Errorf("a handle failing TestOnReturn validation should be discarded, got total=%d idle=%d", total, idle)
	}
}

func TestSweepEvictsIdleButRespectsMinIdle(t *testing.T) {
	var created int32
	cfg := testConfig()
	cfg.InitialSize = 3
	cfg.MinIdle = 1
	cfg.IdleTimeout = 1 * time.Millisecond
	c := mustNewCore(t, cfg, &created)
	defer c.close()

	time.Sleep(5 * time.Millisecond)
	c.sweep()

	total, idle, _ := c.stats()
	if idle < cfg.MinIdle {
		t.Errorf("sweep should never evict below MinIdle=%d, got idle=%d", cfg.MinIdle, idle)
	}
	if total != idle {
		t.Errorf("expected all surviving handles to be idle, got total=%d idle=%d", total, idle)
	}
	if total != cfg.MinIdle {
		t.Errorf("sweep should evict expired idle handles down to MinIdle=%d, got total=%d", cfg.MinIdle, total)
	}
}

func TestSweepTopsUpToMinIdle(t *testing.T) {
	var created int32
	cfg := testConfig()
	cfg.InitialSize = 0
	cfg.MinIdle = 2
	cfg.MaxSize = 5
	c := mustNewCore(t, cfg, &created)
	defer c.close()

	c.sweep()

	idle := c.idleLen()
	if idle < cfg.MinIdle {
		t.Errorf("sweep should top up idle connections to MinIdle=%d, got %d", cfg.MinIdle, idle)
	}
}

func mustNewCore(t *testing.T, cfg Config, created *int32) *core[*fakeConn] {
	t.Helper()
	res := newCore[*fakeConn](context.Background(), cfg, testFactory(created), testValidate, nil, nil)
	if res.IsErr() {
		t.Fatalf("newCore failed: %v", res.Error())
	}
	return res.Value()
}
