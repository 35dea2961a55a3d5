// Package mongodb registers the "cpp_dbc:mongodb://" driver, backed by
// go.mongodb.org/mongo-driver/v2 (grounded on the retrieval pack's
// ZunoKit-zuno-marketplace-api dependency on the same module; no file in
// the pack calls it directly, so this driver's shape follows the official
// driver's own documented Connect/Database/Collection idiom).
package mongodb

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
	"github.com/godbc/godbc/registry"
)

const DefaultPort = 27017

// Driver implements registry.Driver for the "mongodb" scheme.
type Driver struct {
	registry.BaseDriver
}

func Register(reg *registry.Registry) {
	reg.Register(&Driver{})
}

func (Driver) AcceptsURL(url string) bool {
	return strings.HasPrefix(url, "cpp_dbc:mongodb://")
}

func (Driver) Paradigm() dbconn.Paradigm { return dbconn.Document }
func (Driver) Scheme() string            { return "mongodb" }
func (Driver) DefaultPort() int          { return DefaultPort }

func (Driver) Connect(ctx context.Context, url, user, password string, options_ map[string]string) dbresult.Result[dbconn.Connection] {
	u, err := registry.ParseURL(url)
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeRegistryURLParseFailed, dberr.KindURLInvalid, "invalid mongodb url"))
	}
	port := u.Port
	if !u.HasPort {
		port = DefaultPort
	}

	var uri strings.Builder
	uri.WriteString("mongodb://")
	if user != "" {
		fmt.Fprintf(&uri, "%s:%s@", user, password)
	}
	fmt.Fprintf(&uri, "%s:%d", u.Host, port)
	if u.Database != "" {
		uri.WriteString("/")
		uri.WriteString(u.Database)
	}
	if len(u.Options) > 0 || len(options_) > 0 {
		uri.WriteString("?")
		first := true
		writeKV := func(k, v string) {
			if !first {
				uri.WriteString("&")
			}
			first = false
			fmt.Fprintf(&uri, "%s=%s", k, v)
		}
		for k, v := range u.Options {
			writeKV(k, v)
		}
		for k, v := range options_ {
			writeKV(k, v)
		}
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri.String()))
	if err != nil {
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeDriverConnectFailed, dberr.KindConnectionFailed, "failed to connect to mongodb"))
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return dbresult.Err[dbconn.Connection](dberr.Wrap(err, dberr.CodeDriverConnectFailed, dberr.KindConnectionFailed, "failed to ping mongodb"))
	}

	return dbresult.Ok[dbconn.Connection](&conn{url: url, client: client, sessions: map[string]*mongo.Session{}})
}

var _ registry.Driver = (*Driver)(nil)
