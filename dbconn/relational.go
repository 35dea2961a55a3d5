package dbconn

import (
	"time"

	"github.com/godbc/godbc/dbresult"
)

// RelationalConnection is the SQL-family paradigm contract (spec.md §4.3).
type RelationalConnection interface {
	Connection

	PrepareStatement(query string) dbresult.Result[PreparedStatement]
	ExecuteQuery(query string) dbresult.Result[ResultSet]
	ExecuteUpdate(query string) dbresult.Result[int64]

	SetAutoCommit(autoCommit bool) dbresult.Result[dbresult.Unit]
	GetAutoCommit() bool

	BeginTransaction() dbresult.Result[dbresult.Unit]
	Commit() dbresult.Result[dbresult.Unit]
	Rollback() dbresult.Result[dbresult.Unit]

	SetTransactionIsolation(level TransactionIsolationLevel) dbresult.Result[dbresult.Unit]
	GetTransactionIsolation() TransactionIsolationLevel
}

// PreparedStatement is a parameterized SQL statement with 1-based
// positional binders.
type PreparedStatement interface {
	SetInt(index int, value int32) dbresult.Result[dbresult.Unit]
	SetLong(index int, value int64) dbresult.Result[dbresult.Unit]
	SetDouble(index int, value float64) dbresult.Result[dbresult.Unit]
	SetString(index int, value string) dbresult.Result[dbresult.Unit]
	SetBoolean(index int, value bool) dbresult.Result[dbresult.Unit]
	SetNull(index int, nullType NullType) dbresult.Result[dbresult.Unit]
	SetDate(index int, value time.Time) dbresult.Result[dbresult.Unit]
	SetTimestamp(index int, value time.Time) dbresult.Result[dbresult.Unit]
	SetBinaryStream(index int, value []byte) dbresult.Result[dbresult.Unit]
	SetBytes(index int, value []byte) dbresult.Result[dbresult.Unit]

	ExecuteQuery() dbresult.Result[ResultSet]
	ExecuteUpdate() dbresult.Result[int64]

	Close() dbresult.Result[dbresult.Unit]
	IsClosed() bool
}

// ResultSet is a cursor over rows returned from a relational query.
type ResultSet interface {
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
	GetDate(index int) dbresult.Result[time.Time]
	GetDateByName(name string) dbresult.Result[time.Time]
	GetTimestamp(index int) dbresult.Result[time.Time]
	GetTimestampByName(name string) dbresult.Result[time.Time]
	GetBytes(index int) dbresult.Result[[]byte]
	GetBytesByName(name string) dbresult.Result[[]byte]

	IsNull(index int) dbresult.Result[bool]
	IsNullByName(name string) dbresult.Result[bool]

	ColumnNames() []string
	ColumnCount() int

	Close() dbresult.Result[dbresult.Unit]
	IsClosed() bool
}
