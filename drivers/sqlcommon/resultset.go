// Package sqlcommon implements dbconn's relational paradigm contract once,
// on top of database/sql, so the postgres/mysql/sqlite drivers only need to
// supply a DSN builder and a placeholder rebinder (grounded on
// karu-codes-karu-kits/kdbx's stdlib compatibility layer: postgres.go and
// mysql.go both reduce, underneath pgxpool/native options, to the same
// database/sql surface this package wraps directly).
package sqlcommon

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// ResultSet adapts *sql.Rows to dbconn.ResultSet. Column values are
// buffered one row at a time with sql.Rows.Scan into interface{} slots,
// then converted on demand by the typed Get* accessors.
type ResultSet struct {
	rows      *sql.Rows
	cols      []string
	colIndex  map[string]int
	current   []any
	closed    bool
	row       int
	beforeRow bool
}

// NewResultSet wraps rows. The caller is expected to have already executed
// the query; NewResultSet only reads column metadata.
func NewResultSet(rows *sql.Rows) (*ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[c] = i
	}
	return &ResultSet{rows: rows, cols: cols, colIndex: idx, beforeRow: true}, nil
}

func (r *ResultSet) Next() dbresult.Result[bool] {
	if r.closed {
		return dbresult.Err[bool](dberr.New(dberr.CodeRelResultSetClosed, dberr.KindResultClosed, "result set is closed"))
	}
	if !r.rows.Next() {
		r.beforeRow = false
		r.current = nil
		return dbresult.Ok(false)
	}
	vals := make([]any, len(r.cols))
	ptrs := make([]any, len(r.cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		return dbresult.Err[bool](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "row scan failed"))
	}
	r.current = vals
	r.beforeRow = false
	r.row++
	return dbresult.Ok(true)
}

func (r *ResultSet) IsBeforeFirst() bool { return r.beforeRow }
func (r *ResultSet) IsAfterLast() bool   { return !r.beforeRow && r.current == nil }
func (r *ResultSet) GetRow() int         { return r.row }

func (r *ResultSet) col(index int) (any, *dberr.Error) {
	if index < 1 || index > len(r.cols) || r.current == nil {
		return nil, dberr.Newf(dberr.CodeRelInvalidColumn, dberr.KindInvalidColumn, "column index %d out of range", index)
	}
	return r.current[index-1], nil
}

func (r *ResultSet) colByName(name string) (any, *dberr.Error) {
	i, ok := r.colIndex[name]
	if !ok || r.current == nil {
		return nil, dberr.Newf(dberr.CodeRelInvalidColumn, dberr.KindInvalidColumn, "column %q not found", name)
	}
	return r.current[i], nil
}

func (r *ResultSet) GetInt(index int) dbresult.Result[int32] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[int32](err)
	}
	return dbresult.Ok(toInt32(v))
}
func (r *ResultSet) GetIntByName(name string) dbresult.Result[int32] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[int32](err)
	}
	return dbresult.Ok(toInt32(v))
}
func (r *ResultSet) GetLong(index int) dbresult.Result[int64] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[int64](err)
	}
	return dbresult.Ok(toInt64(v))
}
func (r *ResultSet) GetLongByName(name string) dbresult.Result[int64] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[int64](err)
	}
	return dbresult.Ok(toInt64(v))
}
func (r *ResultSet) GetDouble(index int) dbresult.Result[float64] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[float64](err)
	}
	return dbresult.Ok(toFloat64(v))
}
func (r *ResultSet) GetDoubleByName(name string) dbresult.Result[float64] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[float64](err)
	}
	return dbresult.Ok(toFloat64(v))
}
func (r *ResultSet) GetString(index int) dbresult.Result[string] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[string](err)
	}
	return dbresult.Ok(toString(v))
}
func (r *ResultSet) GetStringByName(name string) dbresult.Result[string] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[string](err)
	}
	return dbresult.Ok(toString(v))
}
func (r *ResultSet) GetBoolean(index int) dbresult.Result[bool] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[bool](err)
	}
	return dbresult.Ok(toBool(v))
}
func (r *ResultSet) GetBooleanByName(name string) dbresult.Result[bool] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[bool](err)
	}
	return dbresult.Ok(toBool(v))
}
func (r *ResultSet) GetDate(index int) dbresult.Result[time.Time] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[time.Time](err)
	}
	return dbresult.Ok(toTime(v))
}
func (r *ResultSet) GetDateByName(name string) dbresult.Result[time.Time] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[time.Time](err)
	}
	return dbresult.Ok(toTime(v))
}
func (r *ResultSet) GetTimestamp(index int) dbresult.Result[time.Time] {
	return r.GetDate(index)
}
func (r *ResultSet) GetTimestampByName(name string) dbresult.Result[time.Time] {
	return r.GetDateByName(name)
}
func (r *ResultSet) GetBytes(index int) dbresult.Result[[]byte] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[[]byte](err)
	}
	return dbresult.Ok(toBytes(v))
}
func (r *ResultSet) GetBytesByName(name string) dbresult.Result[[]byte] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[[]byte](err)
	}
	return dbresult.Ok(toBytes(v))
}

func (r *ResultSet) IsNull(index int) dbresult.Result[bool] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[bool](err)
	}
	return dbresult.Ok(v == nil)
}
func (r *ResultSet) IsNullByName(name string) dbresult.Result[bool] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[bool](err)
	}
	return dbresult.Ok(v == nil)
}

func (r *ResultSet) ColumnNames() []string { return append([]string(nil), r.cols...) }
func (r *ResultSet) ColumnCount() int      { return len(r.cols) }

func (r *ResultSet) Close() dbresult.Result[dbresult.Unit] {
	if r.closed {
		return dbresult.OkUnit()
	}
	r.closed = true
	_ = r.rows.Close()
	return dbresult.OkUnit()
}
func (r *ResultSet) IsClosed() bool { return r.closed }

var _ dbconn.ResultSet = (*ResultSet)(nil)

func toInt32(v any) int32 {
	switch t := v.(type) {
	case int64:
		return int32(t)
	case int32:
		return t
	case float64:
		return int32(t)
	case []byte:
		return int32(toInt64(string(t)))
	case string:
		var n int64
		_, _ = fmt.Sscan(t, &n)
		return int32(n)
	default:
		return 0
	}
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case float64:
		return int64(t)
	case []byte:
		var n int64
		_, _ = fmt.Sscan(string(t), &n)
		return n
	case string:
		var n int64
		_, _ = fmt.Sscan(t, &n)
		return n
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case []byte:
		var f float64
		_, _ = fmt.Sscan(string(t), &f)
		return f
	case string:
		var f float64
		_, _ = fmt.Sscan(t, &f)
		return f
	default:
		return 0
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func toBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		return t != 0
	case []byte:
		return string(t) == "1" || strings.EqualFold(string(t), "true")
	case string:
		return t == "1" || strings.EqualFold(t, "true")
	default:
		return false
	}
}

func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case []byte:
		parsed, _ := time.Parse(time.RFC3339, string(t))
		return parsed
	case string:
		parsed, _ := time.Parse(time.RFC3339, t)
		return parsed
	default:
		return time.Time{}
	}
}

func toBytes(v any) []byte {
	switch t := v.(type) {
	case []byte:
		return t
	case string:
		return []byte(t)
	default:
		return nil
	}
}
