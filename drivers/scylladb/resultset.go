package scylladb

import (
	"time"

	"github.com/gocql/gocql"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// resultSet adapts *gocql.Iter to dbconn.ColumnarResultSet. gocql has no
// notion of "before first row" the way database/sql cursors do, so rows
// are buffered one at a time with Scan into interface{} slots, same
// approach as sqlcommon.ResultSet.
type resultSet struct {
	iter      *gocql.Iter
	cols      []gocql.ColumnInfo
	colIndex  map[string]int
	current   []any
	applied   bool
	closed    bool
	row       int
	beforeRow bool
}

func newResultSet(iter *gocql.Iter) *resultSet {
	cols := iter.Columns()
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[c.Name] = i
	}
	return &resultSet{iter: iter, cols: cols, colIndex: idx, beforeRow: true}
}

func (r *resultSet) Next() dbresult.Result[bool] {
	if r.closed {
		return dbresult.Err[bool](dberr.New(dberr.CodeRelResultSetClosed, dberr.KindResultClosed, "result set is closed"))
	}
	vals := make([]any, len(r.cols))
	ptrs := make([]any, len(r.cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if !r.iter.Scan(ptrs...) {
		r.beforeRow = false
		r.current = nil
		return dbresult.Ok(false)
	}
	r.current = vals
	r.beforeRow = false
	r.row++
	if i, ok := r.colIndex["[applied]"]; ok {
		if b, ok := vals[i].(bool); ok {
			r.applied = b
		}
	}
	return dbresult.Ok(true)
}

func (r *resultSet) IsBeforeFirst() bool { return r.beforeRow }
func (r *resultSet) IsAfterLast() bool   { return !r.beforeRow && r.current == nil }
func (r *resultSet) GetRow() int         { return r.row }

func (r *resultSet) col(index int) (any, *dberr.Error) {
	if index < 1 || index > len(r.cols) || r.current == nil {
		return nil, dberr.Newf(dberr.CodeColInvalidColumn, dberr.KindInvalidColumn, "column index %d out of range", index)
	}
	return r.current[index-1], nil
}

func (r *resultSet) colByName(name string) (any, *dberr.Error) {
	i, ok := r.colIndex[name]
	if !ok || r.current == nil {
		return nil, dberr.Newf(dberr.CodeColInvalidColumn, dberr.KindInvalidColumn, "column %q not found", name)
	}
	return r.current[i], nil
}

func (r *resultSet) GetInt(index int) dbresult.Result[int32] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[int32](err)
	}
	return dbresult.Ok(asInt32(v))
}
func (r *resultSet) GetIntByName(name string) dbresult.Result[int32] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[int32](err)
	}
	return dbresult.Ok(asInt32(v))
}
func (r *resultSet) GetLong(index int) dbresult.Result[int64] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[int64](err)
	}
	return dbresult.Ok(asInt64(v))
}
func (r *resultSet) GetLongByName(name string) dbresult.Result[int64] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[int64](err)
	}
	return dbresult.Ok(asInt64(v))
}
func (r *resultSet) GetDouble(index int) dbresult.Result[float64] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[float64](err)
	}
	return dbresult.Ok(asFloat64(v))
}
func (r *resultSet) GetDoubleByName(name string) dbresult.Result[float64] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[float64](err)
	}
	return dbresult.Ok(asFloat64(v))
}
func (r *resultSet) GetString(index int) dbresult.Result[string] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[string](err)
	}
	return dbresult.Ok(asString(v))
}
func (r *resultSet) GetStringByName(name string) dbresult.Result[string] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[string](err)
	}
	return dbresult.Ok(asString(v))
}
func (r *resultSet) GetBoolean(index int) dbresult.Result[bool] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[bool](err)
	}
	b, _ := v.(bool)
	return dbresult.Ok(b)
}
func (r *resultSet) GetBooleanByName(name string) dbresult.Result[bool] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[bool](err)
	}
	b, _ := v.(bool)
	return dbresult.Ok(b)
}
func (r *resultSet) GetUUID(index int) dbresult.Result[string] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[string](err)
	}
	return dbresult.Ok(asUUID(v))
}
func (r *resultSet) GetUUIDByName(name string) dbresult.Result[string] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[string](err)
	}
	return dbresult.Ok(asUUID(v))
}
func (r *resultSet) GetDate(index int) dbresult.Result[time.Time] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[time.Time](err)
	}
	t, _ := v.(time.Time)
	return dbresult.Ok(t)
}
func (r *resultSet) GetDateByName(name string) dbresult.Result[time.Time] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[time.Time](err)
	}
	t, _ := v.(time.Time)
	return dbresult.Ok(t)
}
func (r *resultSet) GetTimestamp(index int) dbresult.Result[time.Time] { return r.GetDate(index) }
func (r *resultSet) GetTimestampByName(name string) dbresult.Result[time.Time] {
	return r.GetDateByName(name)
}

func (r *resultSet) IsNull(index int) dbresult.Result[bool] {
	v, err := r.col(index)
	if err != nil {
		return dbresult.Err[bool](err)
	}
	return dbresult.Ok(v == nil)
}
func (r *resultSet) IsNullByName(name string) dbresult.Result[bool] {
	v, err := r.colByName(name)
	if err != nil {
		return dbresult.Err[bool](err)
	}
	return dbresult.Ok(v == nil)
}

func (r *resultSet) ColumnNames() []string {
	names := make([]string, len(r.cols))
	for i, c := range r.cols {
		names[i] = c.Name
	}
	return names
}
func (r *resultSet) ColumnCount() int { return len(r.cols) }

func (r *resultSet) WasApplied() bool { return r.applied }

func (r *resultSet) Close() dbresult.Result[dbresult.Unit] {
	if r.closed {
		return dbresult.OkUnit()
	}
	r.closed = true
	_ = r.iter.Close()
	return dbresult.OkUnit()
}
func (r *resultSet) IsClosed() bool { return r.closed }

var _ dbconn.ColumnarResultSet = (*resultSet)(nil)

func asInt32(v any) int32 {
	switch t := v.(type) {
	case int:
		return int32(t)
	case int32:
		return t
	case int64:
		return int32(t)
	default:
		return 0
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch t := v.(type) {
	case float32:
		return float64(t)
	case float64:
		return t
	default:
		return 0
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case gocql.UUID:
		return t.String()
	case nil:
		return ""
	default:
		return ""
	}
}

func asUUID(v any) string {
	switch t := v.(type) {
	case gocql.UUID:
		return t.String()
	case string:
		return t
	default:
		return ""
	}
}
