// Package godbc ties the registry and the backend driver packages together.
// Importing this package (rather than registering drivers individually) is
// the equivalent of database/sql's blank-import convention, collapsed into
// one call since this library's Registry isn't a global by requirement —
// callers that want every backend can use RegisterAll; callers that want a
// smaller binary import only the driver packages they need and call their
// Register functions directly.
package godbc

import (
	"github.com/godbc/godbc/drivers/firebird"
	"github.com/godbc/godbc/drivers/mongodb"
	"github.com/godbc/godbc/drivers/mysql"
	"github.com/godbc/godbc/drivers/postgres"
	"github.com/godbc/godbc/drivers/scylladb"
	"github.com/godbc/godbc/drivers/sqlite"
	"github.com/godbc/godbc/registry"
)

// RegisterAll registers every backend driver this module ships against reg,
// in the fixed order given here. Registration order is observable: registry
// dispatch is first-match-wins over a slice, not a map (spec.md §5).
func RegisterAll(reg *registry.Registry) {
	postgres.Register(reg)
	mysql.Register(reg)
	sqlite.Register(reg)
	firebird.Register(reg)
	mongodb.Register(reg)
	scylladb.Register(reg)
}
