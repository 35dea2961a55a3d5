package pool

import (
	"context"
	"testing"
	"time"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dbresult"
)

// fakeRelConn is a minimal dbconn.RelationalConnection used to exercise
// RelationalPool without a real SQL backend.
type fakeRelConn struct {
	closed     bool
	autoCommit bool
	isolation  dbconn.TransactionIsolationLevel
	rolledBack bool
}

func newFakeRelConn() *fakeRelConn { return &fakeRelConn{autoCommit: true} }

func (c *fakeRelConn) PrepareStatement(query string) dbresult.Result[dbconn.PreparedStatement] {
	return dbresult.Ok[dbconn.PreparedStatement](nil)
}
func (c *fakeRelConn) ExecuteQuery(query string) dbresult.Result[dbconn.ResultSet] {
	return dbresult.Ok[dbconn.ResultSet](nil)
}
func (c *fakeRelConn) ExecuteUpdate(query string) dbresult.Result[int64] { return dbresult.Ok(int64(0)) }
func (c *fakeRelConn) SetAutoCommit(autoCommit bool) dbresult.Result[dbresult.Unit] {
	c.autoCommit = autoCommit
	return dbresult.OkUnit()
}
func (c *fakeRelConn) GetAutoCommit() bool { return c.autoCommit }
func (c *fakeRelConn) BeginTransaction() dbresult.Result[dbresult.Unit] {
	c.autoCommit = false
	return dbresult.OkUnit()
}
func (c *fakeRelConn) Commit() dbresult.Result[dbresult.Unit] {
	c.autoCommit = true
	return dbresult.OkUnit()
}
func (c *fakeRelConn) Rollback() dbresult.Result[dbresult.Unit] {
	c.rolledBack = true
	c.autoCommit = true
	return dbresult.OkUnit()
}
func (c *fakeRelConn) SetTransactionIsolation(level dbconn.TransactionIsolationLevel) dbresult.Result[dbresult.Unit] {
	c.isolation = level
	return dbresult.OkUnit()
}
func (c *fakeRelConn) GetTransactionIsolation() dbconn.TransactionIsolationLevel { return c.isolation }
func (c *fakeRelConn) Close() dbresult.Result[dbresult.Unit] {
	c.closed = true
	return dbresult.OkUnit()
}
func (c *fakeRelConn) IsClosed() bool                               { return c.closed }
func (c *fakeRelConn) ReturnToPool() dbresult.Result[dbresult.Unit] { return c.Close() }
func (c *fakeRelConn) IsPooled() bool                               { return false }
func (c *fakeRelConn) GetURL() string                                { return "cpp_dbc:fake://host/db" }

var _ dbconn.RelationalConnection = (*fakeRelConn)(nil)

func newTestRelationalPool(t *testing.T, cfg Config) *RelationalPool {
	t.Helper()
	dial := func(ctx context.Context) dbresult.Result[dbconn.RelationalConnection] {
		return dbresult.Ok[dbconn.RelationalConnection](newFakeRelConn())
	}
	res := NewRelationalPool(context.Background(), cfg, "fake", dial, nil)
	if res.IsErr() {
		t.Fatalf("NewRelationalPool failed: %v", res.Error())
	}
	return res.Value()
}

func TestRelationalPoolAcquireDelegates(t *testing.T) {
	p := newTestRelationalPool(t, Config{MaxSize: 1, MaxWait: time.Second})
	defer p.Close()

	res := p.Acquire(context.Background())
	if res.IsErr() {
		t.Fatalf("Acquire failed: %v", res.Error())
	}
	conn := res.Value()
	if !conn.GetAutoCommit() {
		t.Error("a freshly acquired connection should default to autocommit")
	}
	conn.ReturnToPool()
}

func TestRelationalPoolPreReturnRollsBackOpenTransaction(t *testing.T) {
	p := newTestRelationalPool(t, Config{MaxSize: 1, MaxWait: time.Second})
	defer p.Close()

	res := p.Acquire(context.Background())
	conn := res.Value()
	conn.BeginTransaction()
	if conn.GetAutoCommit() {
		t.Fatal("BeginTransaction should clear autocommit")
	}

	conn.ReturnToPool()

	res2 := p.Acquire(context.Background())
	conn2 := res2.Value()
	if !conn2.GetAutoCommit() {
		t.Error("a connection returned mid-transaction should come back out with autocommit restored")
	}
}

func TestRelationalPoolStats(t *testing.T) {
	p := newTestRelationalPool(t, Config{MaxSize: 2, MaxWait: time.Second, InitialSize: 2})
	defer p.Close()

	total, idle, active := p.Stats()
	if total != 2 || idle != 2 || active != 0 {
		t.Errorf("Stats = (%d, %d, %d), want (2, 2, 0)", total, idle, active)
	}
}
