// Package firebird registers the "cpp_dbc:firebird://" driver, backed by
// nakagami/firebirdsql. No example repo in the retrieval pack touches
// Firebird directly; this driver follows the same sqlcommon adapter shape
// as postgres/mysql/sqlite and is grounded on firebirdsql's own
// database/sql registration idiom (it registers itself under the
// "firebirdsql" driver name, same as go-sql-driver/mysql does for "mysql").
package firebird

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
	"github.com/godbc/godbc/drivers/sqlcommon"
	"github.com/godbc/godbc/registry"

	_ "github.com/nakagami/firebirdsql"
)

const DefaultPort = 3050

// Driver implements registry.Driver for the "firebird" scheme.
type Driver struct {
	registry.BaseDriver
}

func Register(reg *registry.Registry) {
	reg.Register(&Driver{})
}

func (Driver) AcceptsURL(url string) bool {
	return strings.HasPrefix(url, "cpp_dbc:firebird://")
}

func (Driver) Paradigm() dbconn.Paradigm { return dbconn.Relational }
func (Driver) Scheme() string            { return "firebird" }
func (Driver) DefaultPort() int          { return DefaultPort }

func (Driver) Command(_ context.Context, params map[string]any) (int, error) {
	if params["op"] == "create_database" {
		path, _ := params["path"].(string)
		user, _ := params["user"].(string)
		password, _ := params["password"].(string)
		dsn := fmt.Sprintf("%s:%s@%s", user, password, path)
		db, err := sql.Open("firebirdsql", "createnew://"+dsn)
		if err != nil {
			return 0, err
		}
		defer db.Close()
		return 0, db.Ping()
	}
	return 0, nil
}

func (Driver) Connect(ctx context.Context, url, user, password string, options map[string]string) dbresult.Result[dbconn.Connection] {
	u, err := registry.ParseURL(url)
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeRegistryURLParseFailed, dberr.KindURLInvalid, "invalid firebird url"))
	}
	port := u.Port
	if !u.HasPort {
		port = DefaultPort
	}

	dsn := fmt.Sprintf("%s:%s@%s:%d/%s", user, password, u.Host, port, u.Database)
	if len(options) > 0 || len(u.Options) > 0 {
		var b strings.Builder
		b.WriteString(dsn)
		b.WriteString("?")
		first := true
		writeKV := func(k, v string) {
			if !first {
				b.WriteString("&")
			}
			first = false
			fmt.Fprintf(&b, "%s=%s", k, v)
		}
		for k, v := range u.Options {
			writeKV(k, v)
		}
		for k, v := range options {
			writeKV(k, v)
		}
		dsn = b.String()
	}

	db, err := sql.Open("firebirdsql", dsn)
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeDriverConnectFailed, dberr.KindConnectionFailed, "failed to open firebird connection"))
	}
	conn, err := sqlcommon.Dial(ctx, db, url, sqlcommon.Identity)
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeDriverConnectFailed, dberr.KindConnectionFailed, "failed to connect to firebird"))
	}
	return dbresult.Ok[dbconn.Connection](conn)
}

var _ registry.Driver = (*Driver)(nil)
