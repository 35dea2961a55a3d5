package sqlcommon

import (
	"testing"

	"github.com/godbc/godbc/dbconn"
	"database/sql"
)

func TestDollarRebind(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{"SELECT * FROM t WHERE name = '?'", "SELECT * FROM t WHERE name = '?'"},
		{"SELECT 1", "SELECT 1"},
	}
	for _, c := range cases {
		if got := DollarRebind(c.query); got != c.want {
			t.Errorf("DollarRebind(%q) = %q, want %q", c.query, got, c.want)
		}
	}
}

func TestIdentityRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ?"
	if got := Identity(q); got != q {
		t.Errorf("Identity(%q) = %q, want unchanged", q, got)
	}
}

func TestCountPlaceholdersSkipsQuotedLiterals(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"a = ? AND b = ?", 2},
		{"a = '?' AND b = ?", 1},
		{"no placeholders here", 0},
	}
	for _, c := range cases {
		if got := countPlaceholders(c.query); got != c.want {
			t.Errorf("countPlaceholders(%q) = %d, want %d", c.query, got, c.want)
		}
	}
}

func TestIsolationOptsMapsEveryLevel(t *testing.T) {
	cases := []struct {
		level dbconn.TransactionIsolationLevel
		want  sql.IsolationLevel
	}{
		{dbconn.IsolationReadUncommitted, sql.LevelReadUncommitted},
		{dbconn.IsolationReadCommitted, sql.LevelReadCommitted},
		{dbconn.IsolationRepeatableRead, sql.LevelRepeatableRead},
		{dbconn.IsolationSerializable, sql.LevelSerializable},
	}
	for _, c := range cases {
		got := isolationOpts(c.level)
		if got.Isolation != c.want {
			t.Errorf("isolationOpts(%v).Isolation = %v, want %v", c.level, got.Isolation, c.want)
		}
	}
}

func TestIsolationOptsDefault(t *testing.T) {
	got := isolationOpts(dbconn.IsolationDefault)
	if got.Isolation != sql.LevelDefault {
		t.Errorf("isolationOpts(IsolationDefault).Isolation = %v, want driver default", got.Isolation)
	}
}
