package recmock

import (
	"fmt"
	"reflect"
	"strings"
)

// Method is the signature of a mocked method: its name plus ordered
// parameter and result types. Two calls target the same method only when
// name and types are identical.
type Method struct {
	// Recv is the mock type the method was invoked on.
	Recv     reflect.Type
	Name     string
	In       []reflect.Type
	Out      []reflect.Type
	Variadic bool
	// untyped is set when In holds the dynamic argument types because
	// the method could not be reflected.
	untyped bool
}

// methodOf resolves the signature of the method name on the receiver type
// recv. Methods that cannot be reflected (unexported) fall back to the
// dynamic types of in and the requested out types.
func methodOf(recv reflect.Type, name string, in []any, out []reflect.Type) Method {
	if m, ok := recv.MethodByName(name); ok {
		typ := m.Type
		method := Method{
			Recv:     recv,
			Name:     name,
			In:       make([]reflect.Type, 0, typ.NumIn()-1),
			Out:      make([]reflect.Type, 0, typ.NumOut()),
			Variadic: typ.IsVariadic(),
		}
		// skip the receiver
		for i := 1; i < typ.NumIn(); i++ {
			method.In = append(method.In, typ.In(i))
		}
		for i := 0; i < typ.NumOut(); i++ {
			method.Out = append(method.Out, typ.Out(i))
		}
		return method
	}

	method := Method{
		Recv:    recv,
		Name:    name,
		In:      make([]reflect.Type, len(in)),
		Out:     out,
		untyped: true,
	}
	for i, v := range in {
		if v == nil {
			method.In[i] = anyType
			continue
		}
		method.In[i] = reflect.TypeOf(v)
	}
	return method
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Equal reports whether m and other denote the same signature. Parameter
// types of a method that could not be reflected are not compared, only
// their number.
func (m Method) Equal(other Method) bool {
	if m.Recv != other.Recv || m.Name != other.Name || m.Variadic != other.Variadic {
		return false
	}
	if m.untyped || other.untyped {
		return len(m.In) == len(other.In) && typesEqual(m.Out, other.Out)
	}
	return typesEqual(m.In, other.In) && typesEqual(m.Out, other.Out)
}

func typesEqual(a, b []reflect.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// implementedBy reports whether fn, a bound method value, has exactly the
// parameter and result types of m.
func (m Method) implementedBy(fn reflect.Type) bool {
	if fn.NumIn() != len(m.In) || fn.NumOut() != len(m.Out) || fn.IsVariadic() != m.Variadic {
		return false
	}
	for i, typ := range m.In {
		if fn.In(i) != typ {
			return false
		}
	}
	for i, typ := range m.Out {
		if fn.Out(i) != typ {
			return false
		}
	}
	return true
}

// String returns the qualified signature in method expression form, e.g.
// "(*pkg.mockCache).Get(string) (interface {}, bool)".
func (m Method) String() string {
	var b strings.Builder
	if m.Recv != nil {
		fmt.Fprintf(&b, "(%s).", m.Recv)
	}
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, typ := range m.In {
		if i > 0 {
			b.WriteString(", ")
		}
		if m.Variadic && i == len(m.In)-1 {
			b.WriteString("..." + typ.Elem().String())
			continue
		}
		b.WriteString(typ.String())
	}
	b.WriteByte(')')
	switch len(m.Out) {
	case 0:
	case 1:
		b.WriteString(" " + m.Out[0].String())
	default:
		b.WriteString(" (")
		for i, typ := range m.Out {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(typ.String())
		}
		b.WriteByte(')')
	}
	return b.String()
}

// shortName is the receiver-less name used in expectation listings.
func (m Method) shortName() string {
	if m.Recv == nil {
		return m.Name
	}
	recv := m.Recv
	if recv.Kind() == reflect.Pointer {
		recv = recv.Elem()
	}
	return recv.Name() + "." + m.Name
}

// errType is the type of the error interface.
var errType = reflect.TypeOf((*error)(nil)).Elem()

// returnsError reports whether the last result is assignable from error.
func (m Method) returnsError() bool {
	return len(m.Out) > 0 && errType.AssignableTo(m.Out[len(m.Out)-1])
}

// zeroResults returns zero values for every result of m.
func (m Method) zeroResults() []reflect.Value {
	out := make([]reflect.Value, len(m.Out))
	for i, typ := range m.Out {
		out[i] = reflect.Zero(typ)
	}
	return out
}

// inValues converts the recorded arguments to reflect.Values of the
// declared parameter types. Nil arguments become the zero value.
func (m Method) inValues(args []any) []reflect.Value {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var typ reflect.Type
		if i < len(m.In) {
			typ = m.In[i]
		}
		if arg == nil {
			if typ == nil {
				typ = anyType
			}
			in[i] = reflect.Zero(typ)
			continue
		}
		v := reflect.ValueOf(arg)
		if typ != nil && v.Type() != typ && v.Type().AssignableTo(typ) {
			conv := reflect.New(typ).Elem()
			conv.Set(v)
			v = conv
		}
		in[i] = v
	}
	return in
}
