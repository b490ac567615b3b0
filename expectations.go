package recmock

import "strings"

// Expectations is the insertion-ordered registry of a single mock.
type Expectations struct {
	list   []*Expectation
	frozen bool
	// cursor is the position strict matching resumes from.
	cursor int
}

func (r *Expectations) add(e *Expectation) error {
	if r.frozen {
		return illegalState("expectations are frozen while replaying: %s", e)
	}
	r.list = append(r.list, e)
	return nil
}

// last returns the most recently recorded expectation, or nil.
func (r *Expectations) last() *Expectation {
	if len(r.list) == 0 {
		return nil
	}
	return r.list[len(r.list)-1]
}

func (r *Expectations) freeze() { r.frozen = true }

func (r *Expectations) reset() {
	r.list = nil
	r.frozen = false
	r.cursor = 0
}

// Len returns the number of recorded expectations.
func (r *Expectations) Len() int { return len(r.list) }

// At returns the i-th expectation in recording order.
func (r *Expectations) At(i int) *Expectation { return r.list[i] }

// match resolves inv to an expectation. The first matching expectation
// with a queued behavior left wins; only when there is none does a
// matching stub answer.
func (r *Expectations) match(inv Invocation) *Expectation {
	for _, e := range r.list {
		if e.matches(inv) && e.hasCapacity() {
			return e
		}
	}
	for _, e := range r.list {
		if e.matches(inv) && e.stub != nil {
			return e
		}
	}
	return nil
}

func (r *Expectations) unsatisfied() (missing []*Expectation) {
	for _, e := range r.list {
		if !e.satisfied() {
			missing = append(missing, e)
		}
	}
	return
}

// describe lists every expectation, one per line.
func (r *Expectations) describe(only []*Expectation) string {
	if only == nil {
		only = r.list
	}
	lines := make([]string, len(only))
	for i, e := range only {
		lines[i] = e.describe()
	}
	return strings.Join(lines, "\n")
}
