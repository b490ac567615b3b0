package recmock

// Strict makes the mock match calls in recording order. Matching may only
// move past an expectation once it is satisfied.
func Strict[T any]() Option[T] {
	return func(key *T) {
		lookup("recmock.Strict", key).strict = true
	}
}

// matchInOrder resolves inv starting at the cursor without skipping an
// unsatisfied expectation.
func (r *Expectations) matchInOrder(inv Invocation) *Expectation {
	for i := r.cursor; i < len(r.list); i++ {
		e := r.list[i]
		if e.matches(inv) && e.answerable() {
			r.cursor = i
			return e
		}
		if !e.satisfied() {
			break
		}
	}
	return nil
}
