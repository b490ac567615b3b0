package recmock

import (
	"fmt"
	"reflect"
	"time"
)

// BehaviorKind identifies the variant of a Behavior.
type BehaviorKind int

const (
	KindReturn BehaviorKind = iota
	KindThrow
	KindDelegateOnce
	KindDelegateStub
)

func (k BehaviorKind) String() string {
	switch k {
	case KindReturn:
		return "return"
	case KindThrow:
		return "throw"
	case KindDelegateOnce:
		return "delegate"
	case KindDelegateStub:
		return "stub delegate"
	default:
		return fmt.Sprintf("BehaviorKind(%d)", int(k))
	}
}

// Result is the outcome of executing a Behavior. Exactly one of Values and
// Thrown is meaningful: Thrown is set by a throw behavior, Values by every
// other behavior.
type Result struct {
	Values []reflect.Value
	Thrown error
}

// Behavior is one configured reaction to a matched call.
type Behavior interface {
	Kind() BehaviorKind
	execute(inv Invocation) (Result, error)
}

type returnBehavior struct {
	values []reflect.Value
}

func (returnBehavior) Kind() BehaviorKind { return KindReturn }

func (b returnBehavior) execute(Invocation) (Result, error) {
	return Result{Values: b.values}, nil
}

type throwBehavior struct {
	err error
}

func (throwBehavior) Kind() BehaviorKind { return KindThrow }

func (b throwBehavior) execute(Invocation) (Result, error) {
	return Result{Thrown: b.err}, nil
}

// delegateBehavior forwards the call to the method of the same name on
// target. Compatibility is checked when the call is executed, not when the
// delegate is configured.
type delegateBehavior struct {
	target any
	stub   bool
}

func (b delegateBehavior) Kind() BehaviorKind {
	if b.stub {
		return KindDelegateStub
	}
	return KindDelegateOnce
}

func (b delegateBehavior) execute(inv Invocation) (Result, error) {
	fn := reflect.ValueOf(b.target).MethodByName(inv.Method.Name)
	if !fn.IsValid() || !inv.Method.implementedBy(fn.Type()) {
		return Result{}, &ArgumentError{
			Target: fmt.Sprint(b.target),
			Method: inv.Method.String(),
		}
	}
	in := inv.Method.inValues(inv.Args)
	if inv.Method.Variadic {
		return Result{Values: fn.CallSlice(in)}, nil
	}
	return Result{Values: fn.Call(in)}, nil
}

// delayed sleeps before executing the wrapped Behavior.
type delayed struct {
	Behavior
	d time.Duration
}

func (b delayed) execute(inv Invocation) (Result, error) {
	time.Sleep(b.d)
	return b.Behavior.execute(inv)
}

func withDelay(b Behavior, d time.Duration) Behavior {
	if inner, ok := b.(delayed); ok {
		b = inner.Behavior
	}
	return delayed{Behavior: b, d: d}
}
