// Package postgres registers the "cpp_dbc:postgresql://" driver, backed by
// jackc/pgx's database/sql stdlib adapter (grounded on
// karu-codes-karu-kits/kdbx's PostgresDB, which layers the same stdlib
// compatibility surface under its native pgxpool path).
package postgres

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

	_ "github.com/jackc/pgx/v5/stdlib"
)

const DefaultPort = 5432

// Driver implements registry.Driver for the "postgresql" scheme.
type Driver struct {
	registry.BaseDriver
}

func Register(reg *registry.Registry) {
	reg.Register(&Driver{})
}

func (Driver) AcceptsURL(url string) bool {
	return strings.HasPrefix(url, "cpp_dbc:postgresql://")
}

func (Driver) Paradigm() dbconn.Paradigm { return dbconn.Relational }
func (Driver) Scheme() string            { return "postgresql" }
func (Driver) DefaultPort() int          { return DefaultPort }

func (Driver) Connect(ctx context.Context, url, user, password string, options map[string]string) dbresult.Result[dbconn.Connection] {
	u, err := registry.ParseURL(url)
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeRegistryURLParseFailed, dberr.KindURLInvalid, "invalid postgresql url"))
	}
	port := u.Port
	if !u.HasPort {
		port = DefaultPort
	}

	var b strings.Builder
	fmt.Fprintf(&b, "postgres://%s:%s@%s:%d/%s", user, password, u.Host, port, u.Database)
	if len(options) > 0 || len(u.Options) > 0 {
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
	}

	db, err := sql.Open("pgx", b.String())
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeDriverConnectFailed, dberr.KindConnectionFailed, "failed to open postgres connection"))
	}
	conn, err := sqlcommon.Dial(ctx, db, url, sqlcommon.DollarRebind)
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeDriverConnectFailed, dberr.KindConnectionFailed, "failed to connect to postgres"))
	}
	return dbresult.Ok[dbconn.Connection](conn)
}

var _ registry.Driver = (*Driver)(nil)
