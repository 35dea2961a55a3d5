package sqlcommon

import (
	"context"
	"database/sql"
	"time"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// PreparedStatement adapts *sql.Stmt to dbconn.PreparedStatement. Binders
// are 1-based per spec.md §4.3; they're buffered into args and passed to
// Query/Exec positionally, since database/sql itself is positional
// regardless of the underlying placeholder syntax ("?" or "$N").
type PreparedStatement struct {
	ctx    context.Context
	stmt   *sql.Stmt
	args   []any
	closed bool
}

// NewPreparedStatement wraps stmt with room for n positional parameters.
func NewPreparedStatement(ctx context.Context, stmt *sql.Stmt, paramCount int) *PreparedStatement {
	return &PreparedStatement{ctx: ctx, stmt: stmt, args: make([]any, paramCount)}
}

func (p *PreparedStatement) set(index int, value any) dbresult.Result[dbresult.Unit] {
	if index < 1 || index > len(p.args) {
		return dbresult.Err[dbresult.Unit](dberr.Newf(dberr.CodeRelInvalidParamIndex, dberr.KindInvalidParameter, "parameter index %d out of range for %d parameter(s)", index, len(p.args)))
	}
	p.args[index-1] = value
	return dbresult.OkUnit()
}

func (p *PreparedStatement) SetInt(index int, value int32) dbresult.Result[dbresult.Unit] {
	return p.set(index, value)
}
func (p *PreparedStatement) SetLong(index int, value int64) dbresult.Result[dbresult.Unit] {
	return p.set(index, value)
}
func (p *PreparedStatement) SetDouble(index int, value float64) dbresult.Result[dbresult.Unit] {
	return p.set(index, value)
}
func (p *PreparedStatement) SetString(index int, value string) dbresult.Result[dbresult.Unit] {
	return p.set(index, value)
}
func (p *PreparedStatement) SetBoolean(index int, value bool) dbresult.Result[dbresult.Unit] {
	return p.set(index, value)
}
func (p *PreparedStatement) SetNull(index int, _ dbconn.NullType) dbresult.Result[dbresult.Unit] {
	return p.set(index, nil)
}
func (p *PreparedStatement) SetDate(index int, value time.Time) dbresult.Result[dbresult.Unit] {
	return p.set(index, value)
}
func (p *PreparedStatement) SetTimestamp(index int, value time.Time) dbresult.Result[dbresult.Unit] {
	return p.set(index, value)
}
func (p *PreparedStatement) SetBinaryStream(index int, value []byte) dbresult.Result[dbresult.Unit] {
	return p.set(index, value)
}
func (p *PreparedStatement) SetBytes(index int, value []byte) dbresult.Result[dbresult.Unit] {
	return p.set(index, value)
}

func (p *PreparedStatement) ExecuteQuery() dbresult.Result[dbconn.ResultSet] {
	if p.closed {
		return dbresult.Err[dbconn.ResultSet](dberr.New(dberr.CodeRelStatementClosed, dberr.KindStatementClosed, "statement is closed"))
	}
	rows, err := p.stmt.QueryContext(p.ctx, p.args...)
	if err != nil {
		return dbresult.Err[dbconn.ResultSet](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "query execution failed"))
	}
	rs, err := NewResultSet(rows)
	if err != nil {
		return dbresult.Err[dbconn.ResultSet](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "reading result columns failed"))
	}
	return dbresult.Ok[dbconn.ResultSet](rs)
}

func (p *PreparedStatement) ExecuteUpdate() dbresult.Result[int64] {
	if p.closed {
		return dbresult.Err[int64](dberr.New(dberr.CodeRelStatementClosed, dberr.KindStatementClosed, "statement is closed"))
	}
	res, err := p.stmt.ExecContext(p.ctx, p.args...)
	if err != nil {
		return dbresult.Err[int64](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "update execution failed"))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbresult.Ok(int64(0))
	}
	return dbresult.Ok(n)
}

func (p *PreparedStatement) Close() dbresult.Result[dbresult.Unit] {
	if p.closed {
		return dbresult.OkUnit()
	}
	p.closed = true
	_ = p.stmt.Close()
	return dbresult.OkUnit()
}
func (p *PreparedStatement) IsClosed() bool { return p.closed }

var _ dbconn.PreparedStatement = (*PreparedStatement)(nil)
