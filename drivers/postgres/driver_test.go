package postgres

import (
	"testing"

	"github.com/godbc/godbc/dbconn"
)

func TestDriverAcceptsURL(t *testing.T) {
	d := Driver{}
	if !d.AcceptsURL("cpp_dbc:postgresql://host:5432/db") {
		t.Error("expected postgres driver to accept a postgresql:// url")
	}
	if d.AcceptsURL("cpp_dbc:mysql://host/db") {
		t.Error("postgres driver should not accept a mysql:// url")
	}
}

func TestDriverMetadata(t *testing.T) {
	d := Driver{}
	if d.Paradigm() != dbconn.Relational {
		t.Errorf("Paradigm() = %v, want Relational", d.Paradigm())
	}
	if d.Scheme() != "postgresql" {
		t.Errorf("Scheme() = %q, want postgresql", d.Scheme())
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
