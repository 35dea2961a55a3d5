// Package sqlite registers the "cpp_dbc:sqlite://<path>" driver, backed by
// modernc.org/sqlite (a cgo-free pure-Go SQLite), per SPEC_FULL.md's domain
// stack table. <path> may be a filesystem path or ":memory:".
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
	"github.com/godbc/godbc/drivers/sqlcommon"
	"github.com/godbc/godbc/registry"

	_ "modernc.org/sqlite"
)

// Driver implements registry.Driver for the "sqlite" scheme.
type Driver struct {
	registry.BaseDriver
}

// Register adds Driver to reg in sqlite's conventional position: callers
// that want sqlite available register it explicitly, rather than this
// package forcing an init()-time side effect on every importer.
func Register(reg *registry.Registry) {
	reg.Register(&Driver{})
}

func (Driver) AcceptsURL(url string) bool {
	return strings.HasPrefix(url, "cpp_dbc:sqlite://")
}

func (Driver) Paradigm() dbconn.Paradigm { return dbconn.Relational }
func (Driver) Scheme() string            { return "sqlite" }
func (Driver) DefaultPort() int          { return 0 }

func (Driver) Connect(ctx context.Context, url, _, _ string, options map[string]string) dbresult.Result[dbconn.Connection] {
	u, err := registry.ParseURL(url)
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeRegistryURLParseFailed, dberr.KindURLInvalid, "invalid sqlite url"))
	}
	path := u.Database
	if path == "" {
		path = ":memory:"
	}

	dsn := path
	if path == ":memory:" {
		// A pool borrows more than one physical connection; plain ":memory:"
		// gives each sql.Open its own private database, which would make
		// every handle past the first see an empty schema. The shared-cache
		// URI form keeps them talking to the same in-memory database.
		dsn = "file::memory:?cache=shared"
	}
	if len(options) > 0 {
		var b strings.Builder
		b.WriteString(dsn)
		if strings.Contains(dsn, "?") {
			b.WriteString("&")
		} else {
			b.WriteString("?")
		}
		first := true
		for k, v := range options {
			if !first {
				b.WriteString("&")
			}
			first = false
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(v)
		}
		dsn = b.String()
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeDriverConnectFailed, dberr.KindConnectionFailed, "failed to open sqlite database"))
	}
	conn, err := sqlcommon.Dial(ctx, db, url, sqlcommon.Identity)
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeDriverConnectFailed, dberr.KindConnectionFailed, "failed to connect to sqlite database"))
	}
	return dbresult.Ok[dbconn.Connection](conn)
}

var _ registry.Driver = (*Driver)(nil)
