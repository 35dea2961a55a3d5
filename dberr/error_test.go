package dberr

import (
	"errors"
	"testing"
)

func TestNewCapturesStack(t *testing.T) {
	e := New(CodeHandleClosed, KindConnectionClosed, "connection is closed")
	if e.Code() != CodeHandleClosed {
		t.Errorf("Code() = %q, want %q", e.Code(), CodeHandleClosed)
	}
	if e.Kind() != KindConnectionClosed {
		t.Errorf("Kind() = %q, want %q", e.Kind(), KindConnectionClosed)
	}
	if len(e.Stack()) == 0 {
		t.Error("expected a non-empty captured stack")
	}
}

func TestErrorString(t *testing.T) {
	e := New("deadbeef0001", KindBackendError, "boom")
	want := "[deadbeef0001] boom"
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapPreservesCauseAndStack(t *testing.T) {
	cause := errors.New("backend exploded")
	wrapped := Wrap(cause, CodeDriverBackendError, KindBackendError, "query failed")
	if wrapped.Unwrap() != cause {
		t.Error("Unwrap() should return the original cause")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should see through to the cause")
	}

	twiceWrapped := Wrap(wrapped, CodeDriverBackendError, KindBackendError, "outer")
	if len(twiceWrapped.Stack()) != len(wrapped.Stack()) {
		t.Error("wrapping an existing *Error should preserve its original stack rather than recapture")
	}
}

func TestWrapNilCauseReturnsNil(t *testing.T) {
	if Wrap(nil, CodeDriverBackendError, KindBackendError, "x") != nil {
		t.Error("Wrap(nil, ...) should return nil")
	}
}

func TestIsFindsKindThroughUnwrapChain(t *testing.T) {
	inner := New(CodePoolClosed, KindPoolClosed, "pool is closed")
	outer := Wrap(inner, CodePoolCreateFailed, KindConnectionFailed, "create failed")

	if !Is(outer, KindConnectionFailed) {
		t.Error("Is should match the outer Kind directly")
	}
	if Is(outer, KindPoolClosed) {
		t.Error("Is should not reach through to an inner *Error's Kind — only the outermost Kind is checked")
	}
	if !Is(inner, KindPoolClosed) {
		t.Error("Is should match an unwrapped *Error directly")
	}
}

func TestNewfFormatsMessage(t *testing.T) {
	e := Newf(CodeRelInvalidColumn, KindInvalidColumn, "column index %d out of range", 7)
	want := "column index 7 out of range"
	if e.Message() != want {
		t.Errorf("Message() = %q, want %q", e.Message(), want)
	}
}
