// Package mysql registers the "cpp_dbc:mysql://" driver, backed by
// go-sql-driver/mysql (grounded on karu-codes-karu-kits/kdbx's MySQLDB,
// which builds a DSN and sql.Open("mysql", dsn) the same way).
package mysql

import (
	"context"
	"fmt"
	"database/sql"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
	"github.com/godbc/godbc/drivers/sqlcommon"
	"github.com/godbc/godbc/registry"
)

const DefaultPort = 3306

// Driver implements registry.Driver for the "mysql" scheme.
type Driver struct {
	registry.BaseDriver
}

func Register(reg *registry.Registry) {
	reg.Register(&Driver{})
}

func (Driver) AcceptsURL(url string) bool {
	return strings.HasPrefix(url, "cpp_dbc:mysql://")
}

func (Driver) Paradigm() dbconn.Paradigm { return dbconn.Relational }
func (Driver) Scheme() string            { return "mysql" }
func (Driver) DefaultPort() int          { return DefaultPort }

func (Driver) Connect(ctx context.Context, url, user, password string, options map[string]string) dbresult.Result[dbconn.Connection] {
	u, err := registry.ParseURL(url)
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeRegistryURLParseFailed, dberr.KindURLInvalid, "invalid mysql url"))
	}
	port := u.Port
	if !u.HasPort {
		port = DefaultPort
	}

	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", u.Host, port)
	cfg.DBName = u.Database
	cfg.ParseTime = true
	cfg.Params = map[string]string{}
	for k, v := range u.Options {
		cfg.Params[k] = v
	}
	for k, v := range options {
		cfg.Params[k] = v
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeDriverConnectFailed, dberr.KindConnectionFailed, "failed to open mysql connection"))
	}
	conn, err := sqlcommon.Dial(ctx, db, url, sqlcommon.Identity)
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeDriverConnectFailed, dberr.KindConnectionFailed, "failed to connect to mysql"))
	}
	return dbresult.Ok[dbconn.Connection](conn)
}

var _ registry.Driver = (*Driver)(nil)
