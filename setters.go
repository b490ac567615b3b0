package recmock

import (
	"fmt"
	"reflect"
	"time"
)

// Setters configures the expectation opened by the most recently recorded
// call. Every method panics with a typed error when misused and returns
// the receiver for chaining.
type Setters struct {
	control     *Control
	expectation *Expectation
}

func (s *Setters) apply(op string, fn func(*Expectation) error) *Setters {
	s.control.Helper()
	err := s.control.configure(op, func(last *Expectation) error {
		if last != s.expectation {
			return illegalState("%s must directly follow the recorded call %s", op, s.expectation)
		}
		return fn(last)
	})
	if err != nil {
		panic(err)
	}
	return s
}

// WithArgs replaces the argument constraints of the recorded call. Each
// argument is either an ArgumentMatcher or a value compared for equality.
func (s *Setters) WithArgs(args ...any) *Setters {
	return s.apply("WithArgs", func(e *Expectation) error {
		if len(args) != len(e.matchers) {
			return illegalState("WithArgs for %s: expected %d arguments, got %d", e, len(e.matchers), len(args))
		}
		e.matchers = matchersFor(args)
		return nil
	})
}

// AndReturn queues fixed results for one call.
func (s *Setters) AndReturn(values ...any) *Setters {
	return s.apply("AndReturn", func(e *Expectation) error {
		out, err := resultValues(e.method, values)
		if err != nil {
			return err
		}
		e.addBehavior(returnBehavior{values: out})
		return nil
	})
}

// AndStubReturn answers every further call with fixed results.
func (s *Setters) AndStubReturn(values ...any) *Setters {
	return s.apply("AndStubReturn", func(e *Expectation) error {
		out, err := resultValues(e.method, values)
		if err != nil {
			return err
		}
		e.setStub(returnBehavior{values: out})
		return nil
	})
}

// AndThrow queues err for one call. The error is stored in an error
// result, or raised with panic when the method returns no error.
func (s *Setters) AndThrow(err error) *Setters {
	return s.apply("AndThrow", func(e *Expectation) error {
		if err == nil {
			return errNullThrow
		}
		e.addBehavior(throwBehavior{err: err})
		return nil
	})
}

// AndStubThrow answers every further call with err.
func (s *Setters) AndStubThrow(err error) *Setters {
	return s.apply("AndStubThrow", func(e *Expectation) error {
		if err == nil {
			return errNullThrow
		}
		e.setStub(throwBehavior{err: err})
		return nil
	})
}

// AndDelegateTo forwards one call to the method of the same name and
// signature on target.
func (s *Setters) AndDelegateTo(target any) *Setters {
	return s.apply("AndDelegateTo", func(e *Expectation) error {
		if isNil(target) {
			return errNullDelegate
		}
		e.addBehavior(delegateBehavior{target: target})
		return nil
	})
}

// AndStubDelegateTo forwards every further call to target.
func (s *Setters) AndStubDelegateTo(target any) *Setters {
	return s.apply("AndStubDelegateTo", func(e *Expectation) error {
		if isNil(target) {
			return errNullDelegate
		}
		e.setStub(delegateBehavior{target: target, stub: true})
		return nil
	})
}

// AndDelay makes the most recently configured behavior sleep for d before
// answering.
func (s *Setters) AndDelay(d time.Duration) *Setters {
	return s.apply("AndDelay", func(e *Expectation) error {
		return e.setDelay(d)
	})
}

// Times expects exactly n calls for the most recently configured behavior.
func (s *Setters) Times(n int) *Setters {
	return s.TimesRange(n, n)
}

// TimesRange expects between min and max calls, inclusive, for the most
// recently configured behavior. A negative max is unbounded.
func (s *Setters) TimesRange(min, max int) *Setters {
	if max < 0 {
		max = Unbounded
	}
	return s.count("TimesRange", Range{Min: min, Max: max})
}

// Once expects exactly one call.
func (s *Setters) Once() *Setters { return s.count("Once", once) }

// AtLeastOnce expects one or more calls.
func (s *Setters) AtLeastOnce() *Setters { return s.count("AtLeastOnce", atLeastOnce) }

// AnyTimes allows any number of calls, including none.
func (s *Setters) AnyTimes() *Setters { return s.count("AnyTimes", anyTimes) }

func (s *Setters) count(op string, r Range) *Setters {
	return s.apply(op, func(e *Expectation) error {
		if len(e.slots) == 0 && len(e.method.Out) == 0 {
			e.addBehavior(returnBehavior{})
		}
		return e.setRange(r)
	})
}

// resultValues converts values to the result types of m.
func resultValues(m Method, values []any) ([]reflect.Value, error) {
	if len(values) != len(m.Out) {
		return nil, illegalState("incompatible return values for %s: expected %d, got %d", m, len(m.Out), len(values))
	}
	out := make([]reflect.Value, len(values))
	for i, v := range values {
		typ := m.Out[i]
		if v == nil {
			if !nillable(typ) {
				return nil, illegalState("incompatible return value for %s: nil is not a %s", m, typ)
			}
			out[i] = reflect.Zero(typ)
			continue
		}
		rv := reflect.ValueOf(v)
		if !rv.Type().AssignableTo(typ) {
			return nil, illegalState("incompatible return value for %s: %s is not assignable to %s", m, rv.Type(), typ)
		}
		conv := reflect.New(typ).Elem()
		conv.Set(rv)
		out[i] = conv
	}
	return out, nil
}

func nillable(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	}
	return false
}

func (s *Setters) String() string {
	return fmt.Sprintf("setters for %s", s.expectation)
}
