package recmock

import (
	"fmt"
	"reflect"
)

// The CallN functions are the invocation source of a mock: a mock method
// forwards its name and arguments and returns the results. Variadic
// arguments must be passed as a single slice.
//
//	func (m *mockCache) Get(key string) (any, bool) {
//		return recmock.Call2[any, bool](m, "Get", key)
//	}
//
// Engine failures are reported on the mock's testing.TB and, when the last
// result is an error, returned there as well. A thrown error is returned
// in the error result, or raised with panic when there is none.

func Call0[T any](key *T, name string, in ...any) {
	lookup("recmock.Call0", key).Helper()
	doCall(key, name, in, nil)
}

func Call1[T1, T any](key *T, name string, in ...any) (v T1) {
	lookup("recmock.Call1", key).Helper()
	doCall(key, name, in, toValues(&v))
	return
}

func Call2[T1, T2, T any](key *T, name string, in ...any) (v1 T1, v2 T2) {
	lookup("recmock.Call2", key).Helper()
	doCall(key, name, in, toValues(&v1, &v2))
	return
}

func Call3[T1, T2, T3, T any](key *T, name string, in ...any) (v1 T1, v2 T2, v3 T3) {
	lookup("recmock.Call3", key).Helper()
	doCall(key, name, in, toValues(&v1, &v2, &v3))
	return
}

func Call4[T1, T2, T3, T4, T any](key *T, name string, in ...any) (v1 T1, v2 T2, v3 T3, v4 T4) {
	lookup("recmock.Call4", key).Helper()
	doCall(key, name, in, toValues(&v1, &v2, &v3, &v4))
	return
}

func Call5[T1, T2, T3, T4, T5, T any](key *T, name string, in ...any) (v1 T1, v2 T2, v3 T3, v4 T4, v5 T5) {
	lookup("recmock.Call5", key).Helper()
	doCall(key, name, in, toValues(&v1, &v2, &v3, &v4, &v5))
	return
}

func Call6[T1, T2, T3, T4, T5, T6, T any](key *T, name string, in ...any) (v1 T1, v2 T2, v3 T3, v4 T4, v5 T5, v6 T6) {
	lookup("recmock.Call6", key).Helper()
	doCall(key, name, in, toValues(&v1, &v2, &v3, &v4, &v5, &v6))
	return
}

func Call7[T1, T2, T3, T4, T5, T6, T7, T any](key *T, name string, in ...any) (v1 T1, v2 T2, v3 T3, v4 T4, v5 T5, v6 T6, v7 T7) {
	lookup("recmock.Call7", key).Helper()
	doCall(key, name, in, toValues(&v1, &v2, &v3, &v4, &v5, &v6, &v7))
	return
}

func Call8[T1, T2, T3, T4, T5, T6, T7, T8, T any](key *T, name string, in ...any) (v1 T1, v2 T2, v3 T3, v4 T4, v5 T5, v6 T6, v7 T7, v8 T8) {
	lookup("recmock.Call8", key).Helper()
	doCall(key, name, in, toValues(&v1, &v2, &v3, &v4, &v5, &v6, &v7, &v8))
	return
}

func Call9[T1, T2, T3, T4, T5, T6, T7, T8, T9, T any](key *T, name string, in ...any) (v1 T1, v2 T2, v3 T3, v4 T4, v5 T5, v6 T6, v7 T7, v8 T8, v9 T9) {
	lookup("recmock.Call9", key).Helper()
	doCall(key, name, in, toValues(&v1, &v2, &v3, &v4, &v5, &v6, &v7, &v8, &v9))
	return
}

// toValues converts the given values to reflect.Values.
func toValues(in ...any) (out []reflect.Value) {
	out = make([]reflect.Value, len(in))
	for i, v := range in {
		out[i] = reflect.ValueOf(v)
	}
	return
}

// doCall invokes the named method on the mock and stores the results in
// out, a slice of pointers to the typed results.
func doCall[T any](key *T, name string, in []any, out []reflect.Value) {
	c := lookup("recmock.doCall", key)
	c.Helper()
	outTypes := make([]reflect.Type, len(out))
	for i := range out {
		outTypes[i] = out[i].Type().Elem()
	}
	inv := Invocation{
		Method: methodOf(reflect.TypeOf(key), name, in, outTypes),
		Args:   in,
	}

	result, err := c.Invoke(inv)
	if err == nil && result.Thrown != nil {
		if !setError(out, result.Thrown) {
			panic(result.Thrown)
		}
		return
	}
	if err == nil {
		err = setResults(out, result.Values)
	}
	if err != nil {
		c.Error(err)
		setError(out, err)
	}
}

func setResults(out, results []reflect.Value) error {
	if len(results) != len(out) {
		return fmt.Errorf("unexpected number of results: expected %d, got %d", len(out), len(results))
	}
	for i, v := range results {
		if !v.IsValid() {
			continue
		}
		typ := out[i].Type().Elem()
		if !v.Type().AssignableTo(typ) {
			return fmt.Errorf("unexpected type %s for result parameter %s", v.Type(), typ)
		}
		out[i].Elem().Set(v)
	}
	return nil
}

// setError stores err in the last result and reports whether that result
// can hold an error.
func setError(out []reflect.Value, err error) bool {
	last := len(out) - 1
	if last < 0 || !errType.AssignableTo(out[last].Type().Elem()) {
		return false
	}
	out[last].Elem().Set(reflect.ValueOf(err))
	return true
}
