package recmock

import (
	"testing"
)

type intSource struct{ _ byte }

func (m *intSource) GetInt(k int) int { return Call1[int](m, "GetInt", k) }

func TestNew(t *testing.T) {
	mock := New[intSource](t)
	c, ok := registry[mock]
	if !ok {
		t.Fatalf("mock not found")
	}
	if c.Phase() != PhaseRecord {
		t.Errorf("unexpected phase: got %s, want %s", c.Phase(), PhaseRecord)
	}
}

func TestExpectLastCall(t *testing.T) {
	mock := New[intSource](t)
	mock.GetInt(1)
	ExpectLastCall(mock).AndReturn(2)

	c := registry[mock]
	if n := c.Expectations().Len(); n != 1 {
		t.Fatalf("expected one expectation, got %d", n)
	}
	e := c.Expectations().At(0)
	if got, want := e.String(), "intSource.GetInt(1)"; got != want {
		t.Errorf("unexpected expectation: got %q, want %q", got, want)
	}
	if got, want := e.Range(), once; got != want {
		t.Errorf("unexpected range: got %v, want %v", got, want)
	}
}

func TestControlOf_notFound(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic")
		} else if r != "recmock.ControlOf: mock not found: *recmock.intSource" {
			t.Error("unexpected panic:", r)
		}
	}()
	ControlOf(new(intSource))
}
