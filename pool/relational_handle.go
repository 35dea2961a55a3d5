package pool

import (
	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dbresult"
)

// RelationalHandle is a pooled dbconn.RelationalConnection. It embeds
// *genericHandle for Close/IsClosed/ReturnToPool/IsPooled/GetURL and adds
// every relational operation by hand, each asserting the handle is still
// open and refreshing its last-used instant before delegating, per
// spec.md §4.6's pooled-handle wrapper protocol.
type RelationalHandle struct {
	*genericHandle[dbconn.RelationalConnection]
}

var _ dbconn.RelationalConnection = (*RelationalHandle)(nil)

func newRelationalHandle(h *genericHandle[dbconn.RelationalConnection]) *RelationalHandle {
	return &RelationalHandle{genericHandle: h}
}

func (h *RelationalHandle) PrepareStatement(query string) dbresult.Result[dbconn.PreparedStatement] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbconn.PreparedStatement](err)
	}
	h.touch()
	return h.conn.PrepareStatement(query)
}

func (h *RelationalHandle) ExecuteQuery(query string) dbresult.Result[dbconn.ResultSet] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbconn.ResultSet](err)
	}
	h.touch()
	return h.conn.ExecuteQuery(query)
}

func (h *RelationalHandle) ExecuteUpdate(query string) dbresult.Result[int64] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[int64](err)
	}
	h.touch()
	return h.conn.ExecuteUpdate(query)
}

func (h *RelationalHandle) SetAutoCommit(autoCommit bool) dbresult.Result[dbresult.Unit] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	h.touch()
	return h.conn.SetAutoCommit(autoCommit)
}

func (h *RelationalHandle) GetAutoCommit() bool {
	return h.conn.GetAutoCommit()
}

func (h *RelationalHandle) BeginTransaction() dbresult.Result[dbresult.Unit] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	h.touch()
	return h.conn.BeginTransaction()
}

func (h *RelationalHandle) Commit() dbresult.Result[dbresult.Unit] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	h.touch()
	return h.conn.Commit()
}

func (h *RelationalHandle) Rollback() dbresult.Result[dbresult.Unit] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	h.touch()
	return h.conn.Rollback()
}

func (h *RelationalHandle) SetTransactionIsolation(level dbconn.TransactionIsolationLevel) dbresult.Result[dbresult.Unit] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	h.touch()
	return h.conn.SetTransactionIsolation(level)
}

func (h *RelationalHandle) GetTransactionIsolation() dbconn.TransactionIsolationLevel {
	return h.conn.GetTransactionIsolation()
}

// relationalPreReturn is the paradigm's pre-return cleanup axis (spec.md
// §4.5.3): a connection returned mid-transaction is rolled back and reset
// to autocommit so the next borrower gets a clean session.
func relationalPreReturn(conn dbconn.RelationalConnection) {
	if !conn.GetAutoCommit() {
		_, _ = conn.Rollback().Unwrap()
		_, _ = conn.SetAutoCommit(true).Unwrap()
	}
}
