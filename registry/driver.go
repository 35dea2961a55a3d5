package registry

import (
	"context"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dbresult"
)

// Driver is the per-backend factory contract (spec.md §4.4). Each driver
// owns one URL scheme, publishes a default port and scheme name, and
// produces a dbconn.Connection implementing the paradigm its backend
// belongs to.
type Driver interface {
	// AcceptsURL reports whether this driver owns the given URL's scheme.
	AcceptsURL(url string) bool

	// Connect establishes a raw (unpooled) connection.
	Connect(ctx context.Context, url, user, password string, options map[string]string) dbresult.Result[dbconn.Connection]

	// Paradigm identifies which contract family Connect's return value
	// implements.
	Paradigm() dbconn.Paradigm

	// Scheme is the backend name segment of "cpp_dbc:<scheme>://...".
	Scheme() string

	// DefaultPort is the backend's conventional port, used when a URL omits
	// one.
	DefaultPort() int

	// Command executes a driver-specific operation that doesn't require an
	// existing connection (e.g. Firebird's "create_database"). The default
	// embeddable BaseDriver implementation is a no-op; only drivers that
	// need it override it.
	Command(ctx context.Context, params map[string]any) (int, error)
}

// BaseDriver provides Command's default no-op so individual drivers don't
// each have to restate it (db_driver.hpp's DBDriver::command default).
type BaseDriver struct{}

func (BaseDriver) Command(_ context.Context, _ map[string]any) (int, error) {
	return 0, nil
}
