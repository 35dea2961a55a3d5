package dbconn

import "github.com/godbc/godbc/dbresult"

// Connection is the minimal contract every paradigm's connection type
// embeds (spec.md §4.2). It is satisfied both by a raw driver connection
// and by a pooled handle wrapping one.
type Connection interface {
	// Close is idempotent: calls after the first are no-ops.
	Close() dbresult.Result[dbresult.Unit]

	// IsClosed reflects the effective closed state, including closure of
	// any underlying layer the connection delegates to.
	IsClosed() bool

	// ReturnToPool releases a pooled handle back to its pool; for a
	// standalone connection it closes the connection instead.
	ReturnToPool() dbresult.Result[dbresult.Unit]

	// IsPooled distinguishes a pool-wrapped handle from a raw connection.
	IsPooled() bool

	// GetURL returns the URL this connection was obtained through.
	GetURL() string
}
