package pool

import (
	"time"

	"github.com/godbc/godbc/dbconn"
)

// Config is the flat configuration record a pool is constructed from
// (spec.md §3, PoolState; §6, "Configuration record"). Callers build one
// with a struct literal, call Defaults() to fill unset sizing/timeout
// fields, and hand it to a pool constructor.
type Config struct {
	URL      string
	Username string
	Password string
	Options  map[string]string

	InitialSize int
	MaxSize     int
	MinIdle     int

	MaxWait           time.Duration // ≡ connection-timeout-millis
	ValidationTimeout time.Duration
	IdleTimeout       time.Duration
	MaxLifetime       time.Duration

	TestOnBorrow bool
	TestOnReturn bool

	// ValidationQuery is the backend-specific liveness probe (e.g.
	// "SELECT 1", "SELECT now() FROM system.local"). Document pools ignore
	// it and use Ping instead (spec.md §4.5.7).
	ValidationQuery string

	TransactionIsolation dbconn.TransactionIsolationLevel
}

// Defaults fills in the spec's suggested defaults for any zero-valued
// field relevant to pool sizing and timeouts. It does not touch URL,
// credentials, or Options.
func (c Config) Defaults() Config {
	if c.MaxSize == 0 {
		c.MaxSize = 10
	}
	if c.MaxWait == 0 {
		c.MaxWait = 30 * time.Second
	}
	if c.ValidationTimeout == 0 {
		c.ValidationTimeout = 5 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 10 * time.Minute
	}
	if c.MaxLifetime == 0 {
		c.MaxLifetime = 30 * time.Minute
	}
	return c
}
