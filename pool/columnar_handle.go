package pool

import (
	"context"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// ColumnarHandle is a pooled dbconn.ColumnarConnection.
type ColumnarHandle struct {
	*genericHandle[dbconn.ColumnarConnection]
}

var _ dbconn.ColumnarConnection = (*ColumnarHandle)(nil)

func newColumnarHandle(h *genericHandle[dbconn.ColumnarConnection]) *ColumnarHandle {
	return &ColumnarHandle{genericHandle: h}
}

func (h *ColumnarHandle) PrepareStatement(query string) dbresult.Result[dbconn.ColumnarPreparedStatement] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbconn.ColumnarPreparedStatement](err)
	}
	h.touch()
	return h.conn.PrepareStatement(query)
}

func (h *ColumnarHandle) ExecuteQuery(query string) dbresult.Result[dbconn.ColumnarResultSet] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbconn.ColumnarResultSet](err)
	}
	h.touch()
	return h.conn.ExecuteQuery(query)
}

func (h *ColumnarHandle) ExecuteUpdate(query string) dbresult.Result[int64] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[int64](err)
	}
	h.touch()
	return h.conn.ExecuteUpdate(query)
}

// BeginTransaction reports KindTransactionNotSupported: the Cassandra
// family has no multi-statement ACID transactions, only per-statement
// lightweight transactions surfaced through WasApplied (spec.md §4.3).
func (h *ColumnarHandle) BeginTransaction() dbresult.Result[dbresult.Unit] {
	return dbresult.Err[dbresult.Unit](dberr.New(dberr.CodeColTxNotSupported, dberr.KindTransactionNotSupported,
		"columnar backends do not support multi-statement transactions"))
}

func (h *ColumnarHandle) Commit() dbresult.Result[dbresult.Unit] {
	return dbresult.Err[dbresult.Unit](dberr.New(dberr.CodeColTxNotSupported, dberr.KindTransactionNotSupported,
		"columnar backends do not support multi-statement transactions"))
}

func (h *ColumnarHandle) Rollback() dbresult.Result[dbresult.Unit] {
	return dbresult.Err[dbresult.Unit](dberr.New(dberr.CodeColTxNotSupported, dberr.KindTransactionNotSupported,
		"columnar backends do not support multi-statement transactions"))
}

// columnarValidate and columnarPreReturn are grounded on the same shape as
// the relational axis, but the Cassandra family has no transaction state to
// unwind on return, so preReturn is a no-op.
func columnarValidate(ctx context.Context, conn dbconn.ColumnarConnection) bool {
	res := conn.ExecuteQuery("SELECT now() FROM system.local")
	_, err := res.Unwrap()
	return err == nil
}

func columnarPreReturn(conn dbconn.ColumnarConnection) {}
