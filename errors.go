package recmock

import "fmt"

// NullArgumentError is raised while recording when a required argument is
// nil. Message is a fixed string naming the offending parameter.
type NullArgumentError struct {
	Param   string
	Message string
}

func (e *NullArgumentError) Error() string { return e.Message }

var (
	errNullDelegate = &NullArgumentError{Param: "target", Message: "delegated to object must not be null"}
	errNullThrow    = &NullArgumentError{Param: "err", Message: "thrown error must not be nil"}
)

// ArgumentError is raised when a delegation target, on its first matched
// execution, turns out not to implement the mocked method.
type ArgumentError struct {
	// Target is the display form of the delegation target.
	Target string
	// Method is the qualified signature of the mocked method.
	Method string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("Delegation to object [%s] is not implementing the mocked method [%s]", e.Target, e.Method)
}

// IllegalStateError is raised when an operation is attempted in a phase
// that does not allow it.
type IllegalStateError struct {
	Message string
}

func (e *IllegalStateError) Error() string { return e.Message }

func illegalState(format string, args ...any) *IllegalStateError {
	return &IllegalStateError{Message: fmt.Sprintf(format, args...)}
}

// AssertionError reports a failed expectation: an unexpected call during
// replay, or an unsatisfied call count during verify.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string { return e.Message }
