package recmock

import (
	"fmt"
	"time"
)

// Unbounded is the Max of a Range without an upper limit.
const Unbounded = -1

// Range is an inclusive call-count range.
type Range struct {
	Min, Max int
}

var (
	once        = Range{Min: 1, Max: 1}
	atLeastOnce = Range{Min: 1, Max: Unbounded}
	anyTimes    = Range{Min: 0, Max: Unbounded}
)

func (r Range) unbounded() bool { return r.Max < 0 }

func (r Range) String() string {
	switch {
	case r.unbounded():
		return fmt.Sprintf("at least %d", r.Min)
	case r.Min == r.Max:
		return fmt.Sprint(r.Min)
	default:
		return fmt.Sprintf("between %d and %d", r.Min, r.Max)
	}
}

func (r Range) validate() error {
	switch {
	case r.Min < 0:
		return illegalState("minimum call count must not be negative: %d", r.Min)
	case !r.unbounded() && r.Max < r.Min:
		return illegalState("maximum call count %d is less than minimum %d", r.Max, r.Min)
	case r.Max == 0:
		return illegalState("maximum call count must be positive")
	}
	return nil
}

// slot is a queued Behavior that answers Range.Max consecutive calls.
type slot struct {
	behavior Behavior
	Range
}

// Expectation is one recorded call pattern with its queue of behaviors.
// The queue is consumed front to back; the stub, once reached, answers
// every further call.
type Expectation struct {
	method   Method
	matchers []ArgumentMatcher
	slots    []*slot
	stub     Behavior
	// lastStub is true when the stub was configured after the last slot.
	lastStub bool
	actual   int
}

func newExpectation(inv Invocation) *Expectation {
	return &Expectation{
		method:   inv.Method,
		matchers: matchersFor(inv.Args),
	}
}

// Method returns the signature of the expected call.
func (e *Expectation) Method() Method { return e.method }

// Calls returns the number of calls matched so far.
func (e *Expectation) Calls() int { return e.actual }

// Range returns the expected call-count range over all queued behaviors.
// A stub adds no lower bound and removes the upper bound.
func (e *Expectation) Range() Range {
	r := e.slotRange()
	if e.stub != nil {
		r.Max = Unbounded
	}
	return r
}

func (e *Expectation) slotRange() Range {
	var r Range
	for _, s := range e.slots {
		r.Min += s.Min
		if s.unbounded() || r.unbounded() {
			r.Max = Unbounded
			continue
		}
		r.Max += s.Max
	}
	return r
}

func (e *Expectation) empty() bool { return len(e.slots) == 0 && e.stub == nil }

func (e *Expectation) addBehavior(b Behavior) {
	e.slots = append(e.slots, &slot{behavior: b, Range: once})
	e.lastStub = false
}

func (e *Expectation) setStub(b Behavior) {
	e.stub = b
	e.lastStub = true
}

func (e *Expectation) setRange(r Range) error {
	if err := r.validate(); err != nil {
		return err
	}
	if len(e.slots) == 0 {
		return illegalState("no behavior to apply a call count to: %s", e)
	}
	e.slots[len(e.slots)-1].Range = r
	return nil
}

func (e *Expectation) setDelay(d time.Duration) error {
	switch {
	case e.lastStub:
		e.stub = withDelay(e.stub, d)
	case len(e.slots) > 0:
		s := e.slots[len(e.slots)-1]
		s.behavior = withDelay(s.behavior, d)
	default:
		return illegalState("no behavior to delay: %s", e)
	}
	return nil
}

func (e *Expectation) matches(inv Invocation) bool {
	return e.method.Equal(inv.Method) && argumentsMatch(e.matchers, inv.Args)
}

// hasCapacity reports whether a queued, non-stub behavior remains.
func (e *Expectation) hasCapacity() bool {
	r := e.slotRange()
	return r.unbounded() || e.actual < r.Max
}

func (e *Expectation) answerable() bool {
	return e.stub != nil || e.hasCapacity()
}

func (e *Expectation) satisfied() bool { return e.actual >= e.Range().Min }

// consume selects the Behavior for the next call and counts the call.
func (e *Expectation) consume() Behavior {
	b := e.next()
	e.actual++
	return b
}

func (e *Expectation) next() Behavior {
	limit := 0
	for _, s := range e.slots {
		if s.unbounded() {
			return s.behavior
		}
		limit += s.Max
		if e.actual < limit {
			return s.behavior
		}
	}
	return e.stub
}

func (e *Expectation) String() string {
	return fmt.Sprintf("%s(%s)", e.method.shortName(), formatMatchers(e.matchers))
}

// describe formats the expectation for failure listings.
func (e *Expectation) describe() string {
	return fmt.Sprintf("    %s: expected: %s, actual: %d", e, e.Range(), e.actual)
}
