package registry

import (
	"context"
	"testing"

	"github.com/godbc/godbc/dbconn"
	"github.com/godbc/godbc/dberr"
	"github.com/godbc/godbc/dbresult"
)

type fakeDriver struct {
	BaseDriver
	scheme  string
	connect func(ctx context.Context, url, user, password string, options map[string]string) dbresult.Result[dbconn.Connection]
}

func (d *fakeDriver) AcceptsURL(url string) bool { return len(url) >= len("cpp_dbc:"+d.scheme) && url[:len("cpp_dbc:"+d.scheme)] == "cpp_dbc:"+d.scheme }
func (d *fakeDriver) Paradigm() dbconn.Paradigm  { return dbconn.Relational }
func (d *fakeDriver) Scheme() string             { return d.scheme }
func (d *fakeDriver) DefaultPort() int           { return 0 }
func (d *fakeDriver) Connect(ctx context.Context, url, user, password string, options map[string]string) dbresult.Result[dbconn.Connection] {
	return d.connect(ctx, url, user, password, options)
}

func TestRegisterIsIdempotentOnIdentity(t *testing.T) {
	r := New()
	d := &fakeDriver{scheme: "fake"}
	r.Register(d)
	r.Register(d)
	if len(r.Drivers()) != 1 {
		t.Errorf("registering the same driver twice should be a no-op, got %d drivers", len(r.Drivers()))
	}
}

func TestGetDriverIsFirstMatchWinsInRegistrationOrder(t *testing.T) {
	r := New()
	first := &fakeDriver{scheme: "dup"}
	second := &fakeDriver{scheme: "dup"}
	r.Register(first)
	r.Register(second)

	got, ok := r.GetDriver("cpp_dbc:dup://host/db")
	if !ok {
		t.Fatal("expected a driver match")
	}
	if got != Driver(first) {
		t.Error("GetDriver should return the first-registered matching driver, not the second")
	}
}

func TestGetDriverNoMatch(t *testing.T) {
	r := New()
	r.Register(&fakeDriver{scheme: "pg"})
	if _, ok := r.GetDriver("cpp_dbc:mysql://host/db"); ok {
		t.Error("GetDriver should report no match for an unregistered scheme")
	}
}

func TestGetConnectionNoDriverAccepts(t *testing.T) {
	r := New()
	res := r.GetConnection(context.Background(), "cpp_dbc:nope://host/db", "", "", nil)
	if !res.IsErr() {
		t.Fatal("expected an error result when no driver accepts the url")
	}
	if res.Error().Kind() != dberr.KindURLNotAccepted {
		t.Errorf("expected KindURLNotAccepted, got %v", res.Error().Kind())
	}
}

func TestGetConnectionDispatchesToAcceptingDriver(t *testing.T) {
	r := New()
	called := false
	r.Register(&fakeDriver{
		scheme: "pg",
		connect: func(ctx context.Context, url, user, password string, options map[string]string) dbresult.Result[dbconn.Connection] {
			called = true
			return dbresult.Ok[dbconn.Connection](nil)
		},
	})
	_ = r.GetConnection(context.Background(), "cpp_dbc:pg://host/db", "u", "p", nil)
	if !called {
		t.Error("GetConnection should dispatch to the accepting driver's Connect")
	}
}

func TestDriversSnapshotIsACopy(t *testing.T) {
	r := New()
	r.Register(&fakeDriver{scheme: "one"})
	snap := r.Drivers()
	r.Register(&fakeDriver{scheme: "two"})
	if len(snap) != 1 {
		t.Error("a previously taken Drivers() snapshot should not observe later registrations")
	}
}

func TestBaseDriverCommandIsNoOp(t *testing.T) {
	var b BaseDriver
	n, err := b.Command(context.Background(), nil)
	if n != 0 || err != nil {
		t.Errorf("BaseDriver.Command should be a no-op, got (%d, %v)", n, err)
	}
}
