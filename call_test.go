package recmock

import (
	"errors"
	"reflect"
	"testing"
)

type callSource struct{ _ byte }

func (m *callSource) Name(in string) string { return Call1[string](m, "Name", in) }
func (m *callSource) Err() error           { return Call1[error](m, "Err") }
func (m *callSource) Join(sep string, parts ...string) string {
	return Call1[string](m, "Join", sep, parts)
}

var errBoom = errors.New("boom")

func TestDoCall(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		record     []any
		configure  func(*Setters)
		in         []any
		out        []reflect.Value
		results    []reflect.Value
		expectFail bool
	}{
		{
			name:      "Return",
			method:    "Name",
			record:    []any{"input"},
			configure: func(s *Setters) { s.AndReturn("result") },
			in:        []any{"input"},
			out:       toValues(new(string)),
			results:   toValues("result"),
		},
		{
			name:      "Delegate, variadic",
			method:    "Join",
			record:    []any{",", []string{"a", "b"}},
			configure: func(s *Setters) { s.AndDelegateTo(joiner{}) },
			in:        []any{",", []string{"a", "b"}},
			out:       toValues(new(string)),
			results:   toValues("a,b"),
		},
		{
			name:      "Throw into error result",
			method:    "Err",
			configure: func(s *Setters) { s.AndThrow(errBoom) },
			out:       toValues(new(error)),
			results:   toValues(errBoom),
		},
		{
			name:       "Unexpected call, error",
			method:     "Err",
			configure:  func(s *Setters) { s.AndReturn(nil) },
			out:        toValues(new(error)),
			results:    toValues(errors.New("unexpected")),
			expectFail: true,
		},
		{
			name:       "Unexpected arguments, zero value",
			method:     "Name",
			record:     []any{"input"},
			configure:  func(s *Setters) { s.AndReturn("result") },
			in:         []any{"other"},
			out:        toValues(new(string)),
			results:    toValues(""),
			expectFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockT := newFakeTB(t)
			key := New[callSource](mockT)
			doCall(key, tt.method, tt.record, tt.out)
			tt.configure(ExpectLastCall(key))
			if err := registry[key].Replay(); err != nil {
				t.Fatal(err)
			}
			if tt.expectFail {
				// consume the only expectation first
				doCall(key, tt.method, tt.record, toValues(reflect.New(tt.out[0].Type().Elem()).Interface()))
			}

			doCall(key, tt.method, tt.in, tt.out)

			if tt.expectFail && !mockT.Failed() {
				t.Errorf("expected a failure, got none")
			} else if !tt.expectFail && mockT.Failed() {
				t.Errorf("expected no failure, got %s", mockT)
			}
			for i := range tt.results {
				got := tt.out[i].Elem().Interface()
				if tt.expectFail {
					if _, isErr := got.(error); isErr {
						var assertion *AssertionError
						if !errors.As(got.(error), &assertion) {
							t.Errorf("out[%d]: expected *AssertionError, got %T", i, got)
						}
						continue
					}
				}
				if !reflect.DeepEqual(got, tt.results[i].Interface()) {
					t.Errorf("out[%d]: expected %v, got %v", i, tt.results[i].Interface(), got)
				}
			}
		})
	}
}

type joiner struct{}

func (joiner) Join(sep string, parts ...string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

func TestDoCall_throwWithoutErrorResult(t *testing.T) {
	key := New[callSource](newFakeTB(t))
	key.Name("x")
	ExpectLastCall(key).AndThrow(errBoom)
	Replay(key)

	defer func() {
		if r := recover(); r != errBoom {
			t.Errorf("expected panic with %v, got %v", errBoom, r)
		}
	}()
	key.Name("x")
}
