package firebird

import (
	"testing"

	"github.com/godbc/godbc/dbconn"
)

func TestDriverAcceptsURL(t *testing.T) {
	d := Driver{}
	if !d.AcceptsURL("cpp_dbc:firebird://host:3050/db") {
		t.Error("expected firebird driver to accept a firebird:// url")
	}
	if d.AcceptsURL("cpp_dbc:mysql://host/db") {
		t.Error("firebird driver should not accept a mysql:// url")
	}
}

func TestDriverMetadata(t *testing.T) {
	d := Driver{}
	if d.Paradigm() != dbconn.Relational {
		t.Errorf("Paradigm() = %v, want Relational", d.Paradigm())
	}
	if d.Scheme() != "firebird" {
		t.Errorf("Scheme() = %q, want firebird", d.Scheme())
	}
	if d.DefaultPort() != DefaultPort {
		t.Errorf("DefaultPort() = %d, want %d", d.DefaultPort(), DefaultPort)
	}
}

func TestDriverConnectRejectsMalformedURL(t *testing.T) {
	d := Driver{}
	res := d.Connect(t.Context(), "not-a-valid-url", "user", "pass", nil)
	if !res.IsErr() {
		t.Fatal("expected Connect to reject a malformed url before ever dialing")
	}
}

func TestDriverCommandIgnoresUnknownOp(t *testing.T) {
	d := Driver{}
	n, err := d.Command(t.Context(), map[string]any{"op": "noop"})
	if err != nil || n != 0 {
		t.Errorf("Command with unknown op = (%d, %v), want (0, nil)", n, err)
	}
}
