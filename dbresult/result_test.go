package dbresult

import (
	"testing"

	"github.com/godbc/godbc/dberr"
)

func TestOkResult(t *testing.T) {
	r := Ok(42)
	if !r.IsOk() || r.IsErr() {
		t.Fatal("Ok result should report IsOk and not IsErr")
	}
	if r.Value() != 42 {
		t.Errorf("Value() = %d, want 42", r.Value())
	}
	if r.Error() != nil {
		t.Error("Error() should be nil on an Ok result")
	}
}

func TestErrResult(t *testing.T) {
	e := dberr.New(dberr.CodePoolClosed, dberr.KindPoolClosed, "pool is closed")
	r := Err[int](e)
	if r.IsOk() || !r.IsErr() {
		t.Fatal("Err result should report IsErr and not IsOk")
	}
	if r.Value() != 0 {
		t.Errorf("Value() on an Err result should be the zero value, got %d", r.Value())
	}
	if r.Error() != e {
		t.Error("Error() should return the wrapped error")
	}
}

func TestValueOr(t *testing.T) {
	if got := Ok(5).ValueOr(9); got != 5 {
		t.Errorf("ValueOr on Ok = %d, want 5", got)
	}
	e := dberr.New(dberr.CodePoolClosed, dberr.KindPoolClosed, "x")
	if got := Err[int](e).ValueOr(9); got != 9 {
		t.Errorf("ValueOr on Err = %d, want fallback 9", got)
	}
}

func TestUnwrap(t *testing.T) {
	v, err := Ok("hi").Unwrap()
	if v != "hi" || err != nil {
		t.Errorf("Unwrap on Ok = (%q, %v), want (\"hi\", nil)", v, err)
	}

	e := dberr.New(dberr.CodePoolClosed, dberr.KindPoolClosed, "x")
	_, err = Err[string](e).Unwrap()
	if err != e {
		t.Error("Unwrap on Err should return the underlying error")
	}
}

func TestMustPanicsOnError(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Must should panic on an Err result")
		}
		if _, ok := r.(*dberr.Error); !ok {
			t.Errorf("Must should panic with the *dberr.Error, got %T", r)
		}
	}()
	Must(Err[int](dberr.New(dberr.CodePoolClosed, dberr.KindPoolClosed, "x")))
}

func TestMustReturnsValueOnOk(t *testing.T) {
	if got := Must(Ok(7)); got != 7 {
		t.Errorf("Must on Ok = %d, want 7", got)
	}
}

func TestOkUnit(t *testing.T) {
	r := OkUnit()
	if !r.IsOk() {
		t.Error("OkUnit should be Ok")
	}
}

func TestFromError(t *testing.T) {
	r := FromError(3, nil, dberr.CodeDriverBackendError, dberr.KindBackendError, "x")
	if !r.IsOk() || r.Value() != 3 {
		t.Error("FromError with a nil error should produce Ok(value)")
	}

	plain := errSentinel{}
	r2 := FromError(0, plain, dberr.CodeDriverBackendError, dberr.KindBackendError, "wrapped")
	if !r2.IsErr() {
		t.Fatal("FromError with a non-nil plain error should produce Err")
	}
	if r2.Error().Kind() != dberr.KindBackendError {
		t.Errorf("FromError should wrap under the given Kind, got %v", r2.Error().Kind())
	}

	existing := dberr.New(dberr.CodePoolClosed, dberr.KindPoolClosed, "already structured")
	r3 := FromError(0, existing, dberr.CodeDriverBackendError, dberr.KindBackendError, "ignored")
	if r3.Error() != existing {
		t.Error("FromError should pass an already-*dberr.Error through unchanged rather than double-wrapping")
	}
}

type errSentinel struct{}

func (errSentinel) Error() string { return "sentinel failure" }
