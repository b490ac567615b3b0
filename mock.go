// Package recmock is a record/replay mocking runtime for Go tests.
//
// A mock is first in the record phase: every call made on it opens an
// expectation that is configured through ExpectLastCall. Replay switches
// the mock to the replay phase, where calls are matched against the
// recorded expectations and answered by their behaviors. Verify checks
// that every expectation was called often enough.
package recmock

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

var (
	// registry holds the active mock objects.
	registry   = make(map[any]*Control)
	registryMu sync.RWMutex
)

// Option defines a function that configures a mock object.
type Option[T any] func(*T)

// Options combines several options into one.
func Options[T any](opts ...Option[T]) Option[T] {
	return func(key *T) {
		for _, opt := range opts {
			opt(key)
		}
	}
}

// Named sets the display name used when logging about the mock.
func Named[T any](name string) Option[T] {
	return func(key *T) {
		lookup("recmock.Named", key).name = name
	}
}

// History sets how many replayed calls are kept for failure messages.
// Zero disables the history.
func History[T any](size int) Option[T] {
	return func(key *T) {
		lookup("recmock.History", key).history = newHistory(size)
	}
}

// New creates a new mock object of type T in the record phase and applies
// the given options. It panics if a mock for a zero-sized type is
// constructed more than once.
func New[T any](t testing.TB, opts ...Option[T]) *T {
	key := new(T)
	registryMu.Lock()
	if _, ok := registry[key]; ok {
		registryMu.Unlock()
		panic(fmt.Sprintf("recmock.New: zero-sized type used to construct more than one mock: %T", key))
	}
	registry[key] = newControl(t)
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		defer registryMu.Unlock()
		delete(registry, key)
	})
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(key)
	}
	return key
}

func lookup(caller string, key any) *Control {
	registryMu.RLock()
	c, ok := registry[key]
	registryMu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("%s: mock not found: %T", caller, key))
	}
	return c
}

// ControlOf returns the engine of the given mock. It panics if mock was
// not created by New.
func ControlOf(mock any) *Control {
	return lookup("recmock.ControlOf", mock)
}

// ExpectLastCall returns the setters for the call most recently recorded
// on key. It panics with an *IllegalStateError when nothing was recorded
// or the mock is not in the record phase.
func ExpectLastCall[T any](key *T) *Setters {
	c := lookup("recmock.ExpectLastCall", key)
	c.Helper()
	e, err := c.lastExpectation()
	if err != nil {
		panic(err)
	}
	return &Setters{control: c, expectation: e}
}

// Replay switches each mock to the replay phase. Failures are reported on
// the mock's own testing.TB.
func Replay(mocks ...any) {
	each("recmock.Replay", mocks, (*Control).Replay)
}

// Verify checks the call counts of each mock. Failures are reported on
// the mock's own testing.TB.
func Verify(mocks ...any) {
	each("recmock.Verify", mocks, (*Control).Verify)
}

// Reset clears each mock and returns it to the record phase.
func Reset(mocks ...any) {
	each("recmock.Reset", mocks, func(c *Control) error {
		c.Reset()
		return nil
	})
}

func each(caller string, mocks []any, fn func(*Control) error) {
	for _, key := range mocks {
		if isNil(key) {
			continue
		}
		c := lookup(caller, key)
		c.Helper()
		if err := fn(c); err != nil {
			c.Error(err)
		}
	}
}

func isNil(key any) bool {
	if key == nil {
		return true
	}
	v := reflect.ValueOf(key)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
