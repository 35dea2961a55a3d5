package pool

import (
	"context"
	"testing"

	"github.com/godbc/godbc/dberr"
)

func TestHandleAssertOpen(t *testing.T) {
	var created int32
	c := mustNewCore(t, testConfig(), &created)
	defer c.close()

	h, err := c.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer c.returnHandle(h)

	if err := h.assertOpen(); err != nil {
		t.Errorf("a freshly acquired handle should assert open, got %v", err)
	}

	h.closed.Store(true)
	err = h.assertOpen()
	if err == nil || err.Kind() != dberr.KindConnectionClosed {
		t.Errorf("expected KindConnectionClosed on a closed handle, got %v", err)
	}
	h.closed.Store(false)
}

func TestHandleCloseReturnsToPoolWhenAlive(t *testing.T) {
	var created int32
	c := mustNewCore(t, testConfig(), &created)
	defer c.close()

	h, err := c.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	h.Close()

	if h.conn.IsClosed() {
		t.Error("Close on an alive pool should return the handle, not close the underlying connection")
	}
	if c.idleLen() != 1 {
		t.Errorf("expected the handle back on the idle list, idleLen=%d", c.idleLen())
	}
}

func TestHandleCloseIsIdempotent(t *testing.T) {
	var created int32
	c := mustNewCore(t, testConfig(), &created)
	defer c.close()

	h, err := c.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	h.Close()
	h.Close() // second call must be a no-op, not a double-return

	if c.idleLen() != 1 {
		t.Errorf("double Close should not double-queue the handle, idleLen=%d", c.idleLen())
	}
}

func TestHandleClosesUnderlyingWhenPoolDead(t *testing.T) {
	var created int32
	c := mustNewCore(t, testConfig(), &created)

	h, err := c.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	c.poolAlive.Store(false)

	h.Close()
	if !h.conn.IsClosed() {
		t.Error("Close with a dead pool should close the underlying connection directly")
	}
}

func TestHandleLastUsedAdvancesOnTouch(t *testing.T) {
	var created int32
	c := mustNewCore(t, testConfig(), &created)
	defer c.close()

	h, err := c.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer c.returnHandle(h)

	first := h.LastUsed()
	h.touch()
	if !h.LastUsed().After(first) && h.LastUsed() != first {
		t.Error("touch should refresh LastUsed")
	}
}
