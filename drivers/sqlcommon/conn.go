package sqlcommon

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// Rebind converts a query written with "?" positional placeholders (the
// convention every dbconn.PreparedStatement binder uses) into a backend's
// native placeholder syntax. Postgres uses Dollar; MySQL and SQLite accept
// "?" directly.
type Rebind func(query string) string

// DollarRebind rewrites "?" placeholders to Postgres's "$1", "$2", ...
// sequence, skipping characters inside single-quoted string literals.
func DollarRebind(query string) string {
	var b strings.Builder
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			fmt.Fprintf(&b, "$%d", n)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Identity is the Rebind for backends that already use "?" (MySQL,
// SQLite).
func Identity(query string) string { return query }

func countPlaceholders(query string) int {
	n := 0
	inQuote := false
	for _, r := range query {
		if r == '\'' {
			inQuote = !inQuote
			continue
		}
		if r == '?' && !inQuote {
			n++
		}
	}
	return n
}

// Conn adapts a single database/sql connection to dbconn.RelationalConnection.
// It is the raw (unpooled) connection every driver's Connect returns; this
// library's own pool package wraps it for reuse, so Conn never pools
// itself.
type Conn struct {
	url    string
	db     *sql.DB // owns exactly one physical connection (SetMaxOpenConns(1))
	conn   *sql.Conn
	rebind Rebind

	mu         sync.Mutex
	autoCommit bool
	tx         *sql.Tx
	isolation  dbconn.TransactionIsolationLevel
	closed     bool
}

// Dial opens db (already sql.Open'd by the caller with the backend's
// driver name) down to a single reserved *sql.Conn and wraps it. db's pool
// is capped at one connection since pooling is this library's job, not
// database/sql's.
func Dial(ctx context.Context, db *sql.DB, url string, rebind Rebind) (*Conn, error) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		db.Close()
		return nil, err
	}
	return &Conn{url: url, db: db, conn: conn, rebind: rebind, autoCommit: true}, nil
}

func (c *Conn) execer() interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx != nil {
		return c.tx
	}
	return c.conn
}

func (c *Conn) PrepareStatement(query string) dbresult.Result[dbconn.PreparedStatement] {
	if c.IsClosed() {
		return dbresult.Err[dbconn.PreparedStatement](dberr.New(dberr.CodeHandleClosed, dberr.KindConnectionClosed, "connection is closed"))
	}
	n := countPlaceholders(query)
	stmt, err := c.execer().PrepareContext(context.Background(), c.rebind(query))
	if err != nil {
		return dbresult.Err[dbconn.PreparedStatement](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "prepare failed"))
	}
	return dbresult.Ok[dbconn.PreparedStatement](NewPreparedStatement(context.Background(), stmt, n))
}

func (c *Conn) ExecuteQuery(query string) dbresult.Result[dbconn.ResultSet] {
	if c.IsClosed() {
		return dbresult.Err[dbconn.ResultSet](dberr.New(dberr.CodeHandleClosed, dberr.KindConnectionClosed, "connection is closed"))
	}
	rows, err := c.execer().QueryContext(context.Background(), query)
	if err != nil {
		return dbresult.Err[dbconn.ResultSet](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "query execution failed"))
	}
	rs, err := NewResultSet(rows)
	if err != nil {
		return dbresult.Err[dbconn.ResultSet](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "reading result columns failed"))
	}
	return dbresult.Ok[dbconn.ResultSet](rs)
}

func (c *Conn) ExecuteUpdate(query string) dbresult.Result[int64] {
	if c.IsClosed() {
		return dbresult.Err[int64](dberr.New(dberr.CodeHandleClosed, dberr.KindConnectionClosed, "connection is closed"))
	}
	res, err := c.execer().ExecContext(context.Background(), query)
	if err != nil {
		return dbresult.Err[int64](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "update execution failed"))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbresult.Ok(int64(0))
	}
	return dbresult.Ok(n)
}

func (c *Conn) SetAutoCommit(autoCommit bool) dbresult.Result[dbresult.Unit] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if autoCommit == c.autoCommit {
		return dbresult.OkUnit()
	}
	if !autoCommit {
		tx, err := c.conn.BeginTx(context.Background(), isolationOpts(c.isolation))
		if err != nil {
			return dbresult.Err[dbresult.Unit](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "begin transaction failed"))
		}
		c.tx = tx
		c.autoCommit = false
		return dbresult.OkUnit()
	}
	if c.tx != nil {
		if err := c.tx.Commit(); err != nil {
			return dbresult.Err[dbresult.Unit](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "commit failed"))
		}
		c.tx = nil
	}
	c.autoCommit = true
	return dbresult.OkUnit()
}

func (c *Conn) GetAutoCommit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoCommit
}

func (c *Conn) BeginTransaction() dbresult.Result[dbresult.Unit] {
	return c.SetAutoCommit(false)
}

func (c *Conn) Commit() dbresult.Result[dbresult.Unit] {
	c.mu.Lock()
	tx := c.tx
	c.mu.Unlock()
	if tx == nil {
		return dbresult.OkUnit()
	}
	return c.SetAutoCommit(true)
}

func (c *Conn) Rollback() dbresult.Result[dbresult.Unit] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx == nil {
		return dbresult.OkUnit()
	}
	err := c.tx.Rollback()
	c.tx = nil
	c.autoCommit = true
	if err != nil {
		return dbresult.Err[dbresult.Unit](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "rollback failed"))
	}
	return dbresult.OkUnit()
}

func (c *Conn) SetTransactionIsolation(level dbconn.TransactionIsolationLevel) dbresult.Result[dbresult.Unit] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isolation = level
	return dbresult.OkUnit()
}

func (c *Conn) GetTransactionIsolation() dbconn.TransactionIsolationLevel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isolation
}

func (c *Conn) Close() dbresult.Result[dbresult.Unit] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return dbresult.OkUnit()
	}
	c.closed = true
	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	_ = c.conn.Close()
	_ = c.db.Close()
	return dbresult.OkUnit()
}

func (c *Conn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) ReturnToPool() dbresult.Result[dbresult.Unit] { return c.Close() }
func (c *Conn) IsPooled() bool                               { return false }
func (c *Conn) GetURL() string                                { return c.url }

func isolationOpts(level dbconn.TransactionIsolationLevel) *sql.TxOptions {
	switch level {
	case dbconn.IsolationReadUncommitted:
		return &sql.TxOptions{Isolation: sql.LevelReadUncommitted}
	case dbconn.IsolationReadCommitted:
		return &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	case dbconn.IsolationRepeatableRead:
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead}
	case dbconn.IsolationSerializable:
		return &sql.TxOptions{Isolation: sql.LevelSerializable}
	default:
		return &sql.TxOptions{}
	}
}

var _ dbconn.RelationalConnection = (*Conn)(nil)
