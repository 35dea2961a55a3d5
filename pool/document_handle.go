package pool

import (
	"context"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dbresult"
)

// DocumentHandle is a pooled dbconn.DocumentConnection.
type DocumentHandle struct {
	*genericHandle[dbconn.DocumentConnection]
}

var _ dbconn.DocumentConnection = (*DocumentHandle)(nil)

func newDocumentHandle(h *genericHandle[dbconn.DocumentConnection]) *DocumentHandle {
	return &DocumentHandle{genericHandle: h}
}

func (h *DocumentHandle) ListDatabases() dbresult.Result[[]string] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[[]string](err)
	}
	h.touch()
	return h.conn.ListDatabases()
}

func (h *DocumentHandle) ListCollections(database string) dbresult.Result[[]string] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[[]string](err)
	}
	h.touch()
	return h.conn.ListCollections(database)
}

func (h *DocumentHandle) CreateCollection(database, name string) dbresult.Result[dbresult.Unit] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	h.touch()
	return h.conn.CreateCollection(database, name)
}

func (h *DocumentHandle) DropCollection(database, name string) dbresult.Result[dbresult.Unit] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	h.touch()
	return h.conn.DropCollection(database, name)
}

func (h *DocumentHandle) RenameCollection(database, oldName, newName string) dbresult.Result[dbresult.Unit] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	h.touch()
	return h.conn.RenameCollection(database, oldName, newName)
}

func (h *DocumentHandle) Collection(database, name string) dbresult.Result[dbconn.Collection] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbconn.Collection](err)
	}
	h.touch()
	return h.conn.Collection(database, name)
}

func (h *DocumentHandle) NewDocument() dbconn.Document {
	h.touch()
	return h.conn.NewDocument()
}

func (h *DocumentHandle) NewDocumentFromJSON(json string) dbresult.Result[dbconn.Document] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbconn.Document](err)
	}
	h.touch()
	return h.conn.NewDocumentFromJSON(json)
}

func (h *DocumentHandle) RunCommand(database, commandJSON string) dbresult.Result[dbconn.Document] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbconn.Document](err)
	}
	h.touch()
	return h.conn.RunCommand(database, commandJSON)
}

func (h *DocumentHandle) ServerInfo() dbresult.Result[dbconn.Document] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbconn.Document](err)
	}
	h.touch()
	return h.conn.ServerInfo()
}

func (h *DocumentHandle) ServerStatus() dbresult.Result[dbconn.Document] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbconn.Document](err)
	}
	h.touch()
	return h.conn.ServerStatus()
}

func (h *DocumentHandle) Ping() dbresult.Result[dbresult.Unit] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	h.touch()
	return h.conn.Ping()
}

func (h *DocumentHandle) StartSession() dbresult.Result[string] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[string](err)
	}
	h.touch()
	return h.conn.StartSession()
}

func (h *DocumentHandle) EndSession(sessionID string) dbresult.Result[dbresult.Unit] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	h.touch()
	return h.conn.EndSession(sessionID)
}

func (h *DocumentHandle) StartTransaction(sessionID string) dbresult.Result[dbresult.Unit] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	h.touch()
	return h.conn.StartTransaction(sessionID)
}

func (h *DocumentHandle) CommitTransaction(sessionID string) dbresult.Result[dbresult.Unit] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	h.touch()
	return h.conn.CommitTransaction(sessionID)
}

func (h *DocumentHandle) AbortTransaction(sessionID string) dbresult.Result[dbresult.Unit] {
	if err := h.assertOpen(); err != nil {
		return dbresult.Err[dbresult.Unit](err)
	}
	h.touch()
	return h.conn.AbortTransaction(sessionID)
}

// documentValidate probes liveness with Ping, the document paradigm's
// substitute for a SQL validation query (spec.md §4.5.7).
func documentValidate(_ context.Context, conn dbconn.DocumentConnection) bool {
	_, err := conn.Ping().Unwrap()
	return err == nil
}

// documentPreReturn has nothing to clean up: MongoDB sessions are
// explicitly scoped by session ID and outlive a single borrow, so no
// implicit per-return rollback applies.
func documentPreReturn(conn dbconn.DocumentConnection) {}
