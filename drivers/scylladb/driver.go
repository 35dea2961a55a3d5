// Package scylladb registers the "cpp_dbc:scylladb://" driver (also
// accepting "cpp_dbc:cassandra://", since ScyllaDB speaks the Cassandra
// wire protocol), backed by gocql (grounded on the retrieval pack's
// Kulezi-scylla-go-driver example, which builds a gocql.ClusterConfig the
// same way this driver does).
package scylladb

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
	"github.com/godbc/godbc/registry"
)

const DefaultPort = 9042

// Driver implements registry.Driver for the "scylladb"/"cassandra" schemes.
type Driver struct {
	registry.BaseDriver
	scheme string
}

// Register registers both the "scylladb" and "cassandra" URL schemes,
// since they share a wire protocol and a driver.
func Register(reg *registry.Registry) {
	reg.Register(&Driver{scheme: "scylladb"})
	reg.Register(&Driver{scheme: "cassandra"})
}

func (d *Driver) AcceptsURL(url string) bool {
	return strings.HasPrefix(url, "cpp_dbc:"+d.scheme+"://")
}

func (d *Driver) Paradigm() dbconn.Paradigm { return dbconn.Columnar }
func (d *Driver) Scheme() string            { return d.scheme }
func (d *Driver) DefaultPort() int          { return DefaultPort }

func (d *Driver) Connect(ctx context.Context, url, user, password string, options map[string]string) dbresult.Result[dbconn.Connection] {
	u, err := registry.ParseURL(url)
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeRegistryURLParseFailed, dberr.KindURLInvalid, "invalid "+d.scheme+" url"))
	}
	port := u.Port
	if !u.HasPort {
		port = DefaultPort
	}

	hosts := []string{u.Host}
	if extra, ok := options["hosts"]; ok {
		hosts = append(hosts, strings.Split(extra, ",")...)
	}

	cluster := gocql.NewCluster(hosts...)
	cluster.Port = port
	cluster.Keyspace = u.Database
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 10 * time.Second
	if user != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{Username: user, Password: password}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeDriverConnectFailed, dberr.KindConnectionFailed, "failed to create "+d.scheme+" session"))
	}

	return dbresult.Ok[dbconn.Connection](&conn{url: url, session: session})
}

var _ registry.Driver = (*Driver)(nil)

// conn adapts a *gocql.Session — itself already an internally-pooled set
// of host connections — to dbconn.ColumnarConnection. One gocql.Session is
// this driver's unit of "raw connection"; this library's own pool wraps
// sessions, not individual TCP connections, the same way database/sql's
// *sql.DB is wrapped by the pool for SQL backends.
type conn struct {
	url     string
	session *gocql.Session
	closed  bool
}

func (c *conn) PrepareStatement(query string) dbresult.Result[dbconn.ColumnarPreparedStatement] {
	if c.closed {
		return dbresult.Err[dbconn.ColumnarPreparedStatement](dberr.New(dberr.CodeHandleClosed, dberr.KindConnectionClosed, "connection is closed"))
	}
	return dbresult.Ok[dbconn.ColumnarPreparedStatement](newPreparedStatement(c.session, query, countPlaceholders(query)))
}

func (c *conn) ExecuteQuery(query string) dbresult.Result[dbconn.ColumnarResultSet] {
	if c.closed {
		return dbresult.Err[dbconn.ColumnarResultSet](dberr.New(dberr.CodeHandleClosed, dberr.KindConnectionClosed, "connection is closed"))
	}
	iter := c.session.Query(query).Iter()
	return dbresult.Ok[dbconn.ColumnarResultSet](newResultSet(iter))
}

func (c *conn) ExecuteUpdate(query string) dbresult.Result[int64] {
	if c.closed {
		return dbresult.Err[int64](dberr.New(dberr.CodeHandleClosed, dberr.KindConnectionClosed, "connection is closed"))
	}
	if err := c.session.Query(query).Exec(); err != nil {
		return dbresult.Err[int64](dberr.Wrap(err, dberr.CodeDriverBackendError, dberr.KindBackendError, "update execution failed"))
	}
	return dbresult.Ok(heuristicAffectedRows(query))
}

const noTxSupportMsg = "columnar backends do not support multi-statement transactions"

func (c *conn) BeginTransaction() dbresult.Result[dbresult.Unit] {
	return dbresult.Err[dbresult.Unit](dberr.New(dberr.CodeColTxNotSupported, dberr.KindTransactionNotSupported, noTxSupportMsg))
}
func (c *conn) Commit() dbresult.Result[dbresult.Unit] {
	return dbresult.Err[dbresult.Unit](dberr.New(dberr.CodeColTxNotSupported, dberr.KindTransactionNotSupported, noTxSupportMsg))
}
func (c *conn) Rollback() dbresult.Result[dbresult.Unit] {
	return dbresult.Err[dbresult.Unit](dberr.New(dberr.CodeColTxNotSupported, dberr.KindTransactionNotSupported, noTxSupportMsg))
}

func (c *conn) Close() dbresult.Result[dbresult.Unit] {
	if c.closed {
		return dbresult.OkUnit()
	}
	c.closed = true
	c.session.Close()
	return dbresult.OkUnit()
}
func (c *conn) IsClosed() bool                               { return c.closed }
func (c *conn) ReturnToPool() dbresult.Result[dbresult.Unit] { return c.Close() }
func (c *conn) IsPooled() bool                               { return false }
func (c *conn) GetURL() string                                { return c.url }

var _ dbconn.ColumnarConnection = (*conn)(nil)

func countPlaceholders(query string) int {
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
		}
	}
	return n
}

var inClauseRe = regexp.MustCompile(`(?i)\bin\s*\(([^)]*)\)`)

// heuristicAffectedRows estimates rows affected the way spec.md §9
// prescribes: 0 for DDL, a parsed count for an IN(...) list, else 1 — the
// Cassandra family's query protocol doesn't report a real count.
func heuristicAffectedRows(query string) int64 {
	upper := strings.ToUpper(strings.TrimSpace(query))
	for _, ddl := range []string{"CREATE ", "DROP ", "ALTER ", "TRUNCATE "} {
		if strings.HasPrefix(upper, ddl) {
			return 0
		}
	}
	if m := inClauseRe.FindStringSubmatch(query); m != nil {
		items := strings.Split(m[1], ",")
		count := 0
		for _, it := range items {
			if strings.TrimSpace(it) != "" {
				count++
			}
		}
		if count > 0 {
			return int64(count)
		}
	}
	return 1
}
