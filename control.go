package recmock

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// Invocation is one call handed to the engine by an invocation source.
type Invocation struct {
	Method Method
	Args   []any
}

func (inv Invocation) String() string {
	return fmt.Sprintf("%s(%s)", inv.Method.shortName(), formatArgs(inv.Args))
}

// Control is the engine behind a single mock: its phase, its expectations
// and the dispatcher that routes invocations between them.
type Control struct {
	testing.TB
	sync.Mutex
	name         string
	strict       bool
	state        *mockState
	expectations Expectations
	history      *history
}

func newControl(t testing.TB) *Control {
	return &Control{
		TB:      t,
		state:   newMockState(),
		history: newHistory(defaultHistorySize),
	}
}

// Phase returns the current phase of the mock.
func (c *Control) Phase() Phase {
	c.Lock()
	defer c.Unlock()
	return c.state.phase()
}

// Expectations returns the registry of recorded expectations. It must not
// be used concurrently with Invoke.
func (c *Control) Expectations() *Expectations { return &c.expectations }

// History returns the most recent replayed invocations, oldest first.
func (c *Control) History() []Invocation {
	c.Lock()
	defer c.Unlock()
	return c.history.list()
}

// Invoke dispatches inv according to the current phase. While recording
// it opens a new expectation and returns zero values. While replaying it
// matches inv, consumes a behavior and executes it outside the lock.
func (c *Control) Invoke(inv Invocation) (Result, error) {
	c.Lock()
	if c.state.phase() == PhaseRecord {
		defer c.Unlock()
		if err := c.closeLast(); err != nil {
			return Result{}, err
		}
		if err := c.expectations.add(newExpectation(inv)); err != nil {
			return Result{}, err
		}
		return Result{Values: inv.Method.zeroResults()}, nil
	}

	c.history.add(inv)
	var e *Expectation
	if c.strict {
		e = c.expectations.matchInOrder(inv)
	} else {
		e = c.expectations.match(inv)
	}
	if e == nil {
		err := c.unexpected(inv)
		c.Unlock()
		return Result{}, err
	}
	b := e.consume()
	calls, r := e.actual, e.Range()
	c.Unlock()

	c.Helper()
	c.Logf("recmock: call to %s matched %s (%d/%s)", inv, e, calls, r)
	return b.execute(inv)
}

// closeLast completes the most recent expectation before another call is
// recorded or replay starts. Methods without results expect one call by
// default; methods with results must have been given a behavior.
func (c *Control) closeLast() error {
	last := c.expectations.last()
	if last == nil || !last.empty() {
		return nil
	}
	if len(last.method.Out) > 0 {
		return illegalState("missing behavior definition for the preceding method call: %s", last)
	}
	last.addBehavior(returnBehavior{})
	return nil
}

func (c *Control) unexpected(inv Invocation) *AssertionError {
	var b strings.Builder
	fmt.Fprintf(&b, "Unexpected method call %s", inv)
	if c.strict && c.expectations.match(inv) != nil {
		b.WriteString(" (out of order)")
	}
	b.WriteString(":")
	if c.expectations.Len() > 0 {
		b.WriteString("\n" + c.expectations.describe(nil))
	}
	if calls := c.history.String(); calls != "" {
		b.WriteString("\nrecent calls:\n" + calls)
	}
	return &AssertionError{Message: b.String()}
}

// configure applies fn to the most recently recorded expectation.
func (c *Control) configure(op string, fn func(*Expectation) error) error {
	c.Lock()
	defer c.Unlock()
	if err := c.state.require(PhaseRecord, op); err != nil {
		return err
	}
	last := c.expectations.last()
	if last == nil {
		return illegalState("no last call on a mock available")
	}
	return fn(last)
}

// lastExpectation returns the expectation configuration attaches to.
func (c *Control) lastExpectation() (*Expectation, error) {
	var last *Expectation
	err := c.configure("configuration", func(e *Expectation) error {
		last = e
		return nil
	})
	return last, err
}

// Replay freezes the expectations and moves the mock to the replay phase.
// Replaying a mock that is already replaying is a no-op.
func (c *Control) Replay() error {
	c.Lock()
	defer c.Unlock()
	if c.state.phase() == PhaseReplay {
		return nil
	}
	if err := c.closeLast(); err != nil {
		return err
	}
	c.expectations.freeze()
	c.state.replay()
	c.Helper()
	c.Logf("recmock: %s replaying %d expectations", c.displayName(), c.expectations.Len())
	return nil
}

// Verify reports an AssertionError naming every expectation that was
// called fewer times than its minimum. It is only legal while replaying.
func (c *Control) Verify() error {
	c.Lock()
	defer c.Unlock()
	if err := c.state.require(PhaseReplay, "verify"); err != nil {
		return err
	}
	missing := c.expectations.unsatisfied()
	if len(missing) == 0 {
		return nil
	}
	return &AssertionError{
		Message: "Expectation failure on verify:\n" + c.expectations.describe(missing),
	}
}

// Reset clears every expectation and the call history and returns the
// mock to the record phase.
func (c *Control) Reset() {
	c.Lock()
	defer c.Unlock()
	c.expectations.reset()
	c.history.reset()
	if c.state.reset() {
		c.Helper()
		c.Logf("recmock: %s reset to record", c.displayName())
	}
}

// Replays returns how many times the mock entered the replay phase.
func (c *Control) Replays() int {
	c.Lock()
	defer c.Unlock()
	return c.state.counts.replays
}

// Resets returns how many times the mock went back from replay to record.
func (c *Control) Resets() int {
	c.Lock()
	defer c.Unlock()
	return c.state.counts.resets
}

func (c *Control) displayName() string {
	if c.name != "" {
		return c.name
	}
	return "mock"
}
