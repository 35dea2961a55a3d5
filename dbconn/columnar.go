package dbconn

import (
	"time"

	"github.com/godbc/godbc/dbresult"
)

// ColumnarConnection is the wide-column paradigm contract (Cassandra
// family: ScyllaDB/Cassandra). Transactions are best-effort: a backend
// lacking ACID transactions reports dberr.KindTransactionNotSupported
// through the Result rather than silently no-opping.
type ColumnarConnection interface {
	Connection

	PrepareStatement(query string) dbresult.Result[ColumnarPreparedStatement]
	ExecuteQuery(query string) dbresult.Result[ColumnarResultSet]
	// ExecuteUpdate returns a heuristic affected-row estimate: Cassandra-
	// family drivers don't report real counts. 0 for DDL, a parsed count for
	// IN(...) lists, else 1. See spec.md §9.
	ExecuteUpdate(query string) dbresult.Result[int64]

	BeginTransaction() dbresult.Result[dbresult.Unit]
	Commit() dbresult.Result[dbresult.Unit]
	Rollback() dbresult.Result[dbresult.Unit]
}

// ColumnarPreparedStatement adds batch primitives over the relational
// PreparedStatement shape.
type ColumnarPreparedStatement interface {
	SetInt(index int, value int32) dbresult.Result[dbresult.Unit]
	SetLong(index int, value int64) dbresult.Result[dbresult.Unit]
	SetDouble(index int, value float64) dbresult.Result[dbresult.Unit]
	SetString(index int, value string) dbresult.Result[dbresult.Unit]
	SetBoolean(index int, value bool) dbresult.Result[dbresult.Unit]
	SetUUID(index int, value string) dbresult.Result[dbresult.Unit]
	SetTimestamp(index int, value time.Time) dbresult.Result[dbresult.Unit]
	SetNull(index int, nullType NullType) dbresult.Result[dbresult.Unit]

	AddBatch() dbresult.Result[dbresult.Unit]
	ClearBatch() dbresult.Result[dbresult.Unit]
	ExecuteBatch() dbresult.Result[[]int64]

	ExecuteQuery() dbresult.Result[ColumnarResultSet]
	ExecuteUpdate() dbresult.Result[int64]

	Close() dbresult.Result[dbresult.Unit]
	IsClosed() bool
}

// ColumnarResultSet extends the relational result-set shape with the
// UUID/date/timestamp accessors columnar backends need, plus WasApplied for
// lightweight-transaction (LWT) acknowledgement.
type ColumnarResultSet interface {
	Next() dbresult.Result[bool]
	IsBeforeFirst() bool
	IsAfterLast() bool
	GetRow() int

	GetInt(index int) dbresult.Result[int32]
	GetIntByName(name string) dbresult.Result[int32]
	GetLong(index int) dbresult.Result[int64]
	GetLongByName(name string) dbresult.Result[int64]
	GetDouble(index int) dbresult.Result[float64]
	GetDoubleByName(name string) dbresult.Result[float64]
	GetString(index int) dbresult.Result[string]
	GetStringByName(name string) dbresult.Result[string]
	GetBoolean(index int) dbresult.Result[bool]
	GetBooleanByName(name string) dbresult.Result[bool]
	GetUUID(index int) dbresult.Result[string]
	GetUUIDByName(name string) dbresult.Result[string]
	GetDate(index int) dbresult.Result[time.Time]
	GetDateByName(name string) dbresult.Result[time.Time]
	GetTimestamp(index int) dbresult.Result[time.Time]
	GetTimestampByName(name string) dbresult.Result[time.Time]

	IsNull(index int) dbresult.Result[bool]
	IsNullByName(name string) dbresult.Result[bool]

	ColumnNames() []string
	ColumnCount() int

	// WasApplied reports whether a conditional write (IF NOT EXISTS /
	// lightweight transaction) succeeded. Only meaningful for result sets
	// produced by a conditional statement.
	WasApplied() bool

	Close() dbresult.Result[dbresult.Unit]
	IsClosed() bool
}
