package registry

import (
	"context"
	"sync"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

// Registry is the process-wide mapping from registered drivers to
// themselves, queried sequentially with AcceptsURL (spec.md §3/§4.4).
// Dispatch is first-match-wins over the sequential registry, so
// registration order is observable — callers that care should pin it.
type Registry struct {
	mu      sync.RWMutex
	drivers []Driver
}

// New creates an empty Registry. Most applications use the package-level
// Default registry instead; New exists for tests that want isolation from
// global registration state.
func New() *Registry {
	return &Registry{}
}

// Default is a process-wide registry. No driver package registers into it
// on import; a caller passes it to a driver package's Register function (or
// to the root package's RegisterAll).
var Default = New()

// Register adds a driver to the registry. Idempotent on driver identity:
// registering the same Driver value twice has the effect of a single
// registration.
func (r *Registry) Register(d Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.drivers {
		if existing == d {
			return
		}
	}
	r.drivers = append(r.drivers, d)
}

// GetDriver returns the first registered driver (in registration order)
// whose AcceptsURL(url) is true.
func (r *Registry) GetDriver(url string) (Driver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.drivers {
		if d.AcceptsURL(url) {
			return d, true
		}
	}
	return nil, false
}

// GetConnection dispatches url to the first accepting driver's Connect. If
// no registered driver accepts the URL, it returns a KindURLNotAccepted
// error.
func (r *Registry) GetConnection(ctx context.Context, url, user, password string, options map[string]string) dbresult.Result[dbconn.Connection] {
	d, ok := r.GetDriver(url)
	if !ok {
		return dbresult.Err[dbconn.Connection](dberr.Newf(
			dberr.CodeRegistryNoDriverAccepts, dberr.KindURLNotAccepted,
			"no registered driver accepts url %q", url))
	}
	return d.Connect(ctx, url, user, password, options)
}

// Drivers returns a snapshot of the registered drivers in registration
// order.
func (r *Registry) Drivers() []Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Driver, len(r.drivers))
	copy(out, r.drivers)
	return out
}
