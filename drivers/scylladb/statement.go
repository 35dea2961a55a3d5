package scylladb

import (
	"time"

	"github.com/gocql/gocql"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// preparedStatement adapts a CQL query string plus a gocql.Session to
// dbconn.ColumnarPreparedStatement. gocql prepares lazily on first
// execution and caches by query text internally, so there's no separate
// "prepare" round-trip to perform up front the way database/sql has.
type preparedStatement struct {
	session *gocql.Session
	query   string
	args    []any
	batch   *gocql.Batch
	closed  bool
}

func newPreparedStatement(session *gocql.Session, query string, paramCount int) *preparedStatement {
	return &preparedStatement{session: session, query: query, args: make([]any, paramCount)}
}

func (s *preparedStatement) set(index int, value any) dbresult.Result[dbresult.Unit] {
	if index < 1 {
		return dbresult.Err[dbresult.Unit](dberr.Newf(dberr.CodeRelInvalidParamIndex, dberr.KindInvalidParameter, "parameter index %d must be >= 1", index))
	}
	for len(s.args) < index {
		s.args = append(s.args, nil)
	}
	s.args[index-1] = value
	return dbresult.OkUnit()
}

func (s *preparedStatement) SetInt(index int, value int32) dbresult.Result[dbresult.Unit] {
	return s.set(index, value)
}
func (s *preparedStatement) SetLong(index int, value int64) dbresult.Result[dbresult.Unit] {
	return s.set(index, value)
}
func (s *preparedStatement) SetDouble(index int, value float64) dbresult.Result[dbresult.Unit] {
	return s.set(index, value)
}
func (s *preparedStatement) SetString(index int, value string) dbresult.Result[dbresult.Unit] {
	return s.set(index, value)
}
func (s *preparedStatement) SetBoolean(index int, value bool) dbresult.Result[dbresult.Unit] {
	return s.set(index, value)
}
func (s *preparedStatement) SetUUID(index int, value string) dbresult.Result[dbresult.Unit] {
	id, err := gocql.ParseUUID(value)
	if err != nil {
		return dbresult.Err[dbresult.Unit](dberr.Wrap(err, dberr.CodeRelInvalidParamIndex, dberr.KindInvalidParameter, "invalid uuid"))
	}
	return s.set(index, id)
}
func (s *preparedStatement) SetTimestamp(index int, value time.Time) dbresult.Result[dbresult.Unit] {
	return s.set(index, value)
}
func (s *preparedStatement) SetNull(index int, _ dbconn.NullType) dbresult.Result[dbresult.Unit] {
	return s.set(index, nil)
}

func (s *preparedStatement) AddBatch() dbresult.Result[dbresult.Unit] {
	if s.batch == nil {
		s.batch = s.session.NewBatch(gocql.LoggedBatch)
	}
	s.batch.Query(s.query, append([]any(nil), s.args...)...)
	return dbresult.OkUnit()
}

func (s *preparedStatement) ClearBatch() dbresult.Result[dbresult.Unit] {
	s.batch = nil
	return dbresult.OkUnit()
}

func (s *preparedStatement) ExecuteBatch() dbresult.Result[[]int64] {
	if s.batch == nil {
		return dbresult.Ok([]int64{})
	}
	if err := s.session.ExecuteBatch(s.batch); err != nil {
		return dbresult.Err[[]int64](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "batch execution failed"))
	}
	n := int64(len(s.batch.Entries))
	s.batch = nil
	return dbresult.Ok([]int64{n})
}

func (s *preparedStatement) ExecuteQuery() dbresult.Result[dbconn.ColumnarResultSet] {
	if s.closed {
		return dbresult.Err[dbconn.ColumnarResultSet](dberr.New(dberr.CodeRelStatementClosed, dberr.KindStatementClosed, "statement is closed"))
	}
	iter := s.session.Query(s.query, s.args...).Iter()
	return dbresult.Ok[dbconn.ColumnarResultSet](newResultSet(iter))
}

func (s *preparedStatement) ExecuteUpdate() dbresult.Result[int64] {
	if s.closed {
		return dbresult.Err[int64](dberr.New(dberr.CodeRelStatementClosed, dberr.KindStatementClosed, "statement is closed"))
	}
	if err := s.session.Query(s.query, s.args...).Exec(); err != nil {
		return dbresult.Err[int64](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "update execution failed"))
	}
	return dbresult.Ok(heuristicAffectedRows(s.query))
}

func (s *preparedStatement) Close() dbresult.Result[dbresult.Unit] {
	s.closed = true
	return dbresult.OkUnit()
}
func (s *preparedStatement) IsClosed() bool { return s.closed }

var _ dbconn.ColumnarPreparedStatement = (*preparedStatement)(nil)
