package pool

import (
	"context"
	"testing"
	"time"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// fakeDocConn is a minimal dbconn.DocumentConnection for exercising
// DocumentPool without a real MongoDB backend.
type fakeDocConn struct {
	closed  bool
	pingErr bool
}

func (c *fakeDocConn) ListDatabases() dbresult.Result[[]string] { return dbresult.Ok([]string{}) }
func (c *fakeDocConn) ListCollections(database string) dbresult.Result[[]string] {
	return dbresult.Ok([]string{})
}
func (c *fakeDocConn) CreateCollection(database, name string) dbresult.Result[dbresult.Unit] {
	return dbresult.OkUnit()
}
func (c *fakeDocConn) DropCollection(database, name string) dbresult.Result[dbresult.Unit] {
	return dbresult.OkUnit()
}
func (c *fakeDocConn) RenameCollection(database, oldName, newName string) dbresult.Result[dbresult.Unit] {
	return dbresult.OkUnit()
}
func (c *fakeDocConn) Collection(database, name string) dbresult.Result[dbconn.Collection] {
	return dbresult.Ok[dbconn.Collection](nil)
}
func (c *fakeDocConn) NewDocument() dbconn.Document { return nil }
func (c *fakeDocConn) NewDocumentFromJSON(json string) dbresult.Result[dbconn.Document] {
	return dbresult.Ok[dbconn.Document](nil)
}
func (c *fakeDocConn) RunCommand(database, commandJSON string) dbresult.Result[dbconn.Document] {
	return dbresult.Ok[dbconn.Document](nil)
}
func (c *fakeDocConn) ServerInfo() dbresult.Result[dbconn.Document]   { return dbresult.Ok[dbconn.Document](nil) }
func (c *fakeDocConn) ServerStatus() dbresult.Result[dbconn.Document] { return dbresult.Ok[dbconn.Document](nil) }
func (c *fakeDocConn) Ping() dbresult.Result[dbresult.Unit] {
	if c.pingErr {
		return dbresult.Err[dbresult.Unit](dberr.New(dberr.CodeDriverBackendError, dberr.KindBackendError, "ping failed"))
	}
	return dbresult.OkUnit()
}
func (c *fakeDocConn) StartSession() dbresult.Result[string] { return dbresult.Ok("session-1") }
func (c *fakeDocConn) EndSession(sessionID string) dbresult.Result[dbresult.Unit] { return dbresult.OkUnit() }
func (c *fakeDocConn) StartTransaction(sessionID string) dbresult.Result[dbresult.Unit] {
	return dbresult.OkUnit()
}
func (c *fakeDocConn) CommitTransaction(sessionID string) dbresult.Result[dbresult.Unit] {
	return dbresult.OkUnit()
}
func (c *fakeDocConn) AbortTransaction(sessionID string) dbresult.Result[dbresult.Unit] {
	return dbresult.OkUnit()
}
func (c *fakeDocConn) Close() dbresult.Result[dbresult.Unit] {
	c.closed = true
	return dbresult.OkUnit()
}
func (c *fakeDocConn) IsClosed() bool                               { return c.closed }
func (c *fakeDocConn) ReturnToPool() dbresult.Result[dbresult.Unit] { return c.Close() }
func (c *fakeDocConn) IsPooled() bool                               { return false }
func (c *fakeDocConn) GetURL() string                                { return "cpp_dbc:mongodb://host/db" }

var _ dbconn.DocumentConnection = (*fakeDocConn)(nil)

func newTestDocumentPool(t *testing.T, cfg Config) *DocumentPool {
	t.Helper()
	dial := func(ctx context.Context) dbresult.Result[dbconn.DocumentConnection] {
		return dbresult.Ok[dbconn.DocumentConnection](&fakeDocConn{})
	}
	res := NewDocumentPool(context.Background(), cfg, "mongodb", dial, nil)
	if res.IsErr() {
		t.Fatalf("NewDocumentPool failed: %v", res.Error())
	}
	return res.Value()
}

func TestDocumentPoolAcquireRelease(t *testing.T) {
	p := newTestDocumentPool(t, Config{MaxSize: 1, MaxWait: time.Second})
	defer p.Close()

	res := p.Acquire(context.Background())
	if res.IsErr() {
		t.Fatalf("Acquire failed: %v", res.Error())
	}
	conn := res.Value()
	if conn.StartSession().Value() != "session-1" {
		t.Error("delegated call should reach the underlying fake connection")
	}
	conn.ReturnToPool()
}

func TestDocumentPoolValidatesWithPingRegardlessOfValidationQuery(t *testing.T) {
	// ValidationQuery is meaningless for documents; TestOnReturn must still
	// use Ping, not the (unset) ValidationQuery, to decide whether to
	// discard a returned handle.
	p := newTestDocumentPool(t, Config{MaxSize: 1, MaxWait: time.Second, TestOnReturn: true, ValidationQuery: "SELECT 1"})
	defer p.Close()

	res := p.Acquire(context.Background())
	conn := res.Value()
	dc := conn.(*DocumentHandle)
	dc.conn.(*fakeDocConn).pingErr = true
	conn.ReturnToPool()

	total, idle, _ := p.core.stats()
	if total != 0 || idle != 0 {
		t.Errorf("a connection failing Ping on return should be discarded, got total=%d idle=%d", total, idle)
	}
}
