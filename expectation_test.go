package recmock

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intInvocation(k any) Invocation {
	return Invocation{
		Method: methodOf(reflect.TypeOf(&intSource{}), "GetInt", []any{k}, nil),
		Args:   []any{k},
	}
}

func returning(v int) Behavior {
	return returnBehavior{values: []reflect.Value{reflect.ValueOf(v)}}
}

// answer executes b and returns its single int result.
func answer(t *testing.T, b Behavior) int {
	t.Helper()
	require.NotNil(t, b)
	result, err := b.execute(intInvocation(0))
	require.NoError(t, err)
	require.Len(t, result.Values, 1)
	return int(result.Values[0].Int())
}

func TestRange_String(t *testing.T) {
	tests := []struct {
		r    Range
		want string
	}{
		{once, "1"},
		{Range{Min: 2, Max: 3}, "between 2 and 3"},
		{atLeastOnce, "at least 1"},
		{anyTimes, "at least 0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.r.String())
	}
}

func TestRange_validate(t *testing.T) {
	assert.NoError(t, Range{Min: 1, Max: 1}.validate())
	assert.NoError(t, Range{Min: 0, Max: Unbounded}.validate())
	assert.Error(t, Range{Min: -1, Max: 1}.validate())
	assert.Error(t, Range{Min: 3, Max: 2}.validate())
	assert.Error(t, Range{Min: 0, Max: 0}.validate())
}

func TestExpectation_queue(t *testing.T) {
	e := newExpectation(intInvocation(5))
	e.addBehavior(returning(1))
	e.addBehavior(returning(2))
	require.NoError(t, e.setRange(Range{Min: 2, Max: 2}))

	assert.Equal(t, Range{Min: 3, Max: 3}, e.Range())
	var got []int
	for e.hasCapacity() {
		got = append(got, answer(t, e.consume()))
	}
	assert.Equal(t, []int{1, 2, 2}, got)
	assert.True(t, e.satisfied())
	assert.False(t, e.answerable())
	assert.Nil(t, e.next())
}

func TestExpectation_stub(t *testing.T) {
	e := newExpectation(intInvocation(5))
	e.addBehavior(returning(3))
	e.setStub(returning(9))

	assert.Equal(t, Range{Min: 1, Max: Unbounded}, e.Range())
	assert.True(t, e.hasCapacity())
	assert.Equal(t, 3, answer(t, e.consume()))
	assert.False(t, e.hasCapacity())
	for i := 0; i < 5; i++ {
		require.True(t, e.answerable())
		assert.Equal(t, 9, answer(t, e.consume()))
	}
	assert.Equal(t, 6, e.Calls())
}

func TestExpectation_setRangeWithoutBehavior(t *testing.T) {
	e := newExpectation(intInvocation(5))
	err := e.setRange(once)
	var illegal *IllegalStateError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, "no behavior to apply a call count to: intSource.GetInt(5)", illegal.Message)
}

func TestExpectations_match(t *testing.T) {
	var r Expectations
	first := newExpectation(intInvocation(5))
	first.addBehavior(returning(1))
	second := newExpectation(intInvocation(5))
	second.addBehavior(returning(2))
	stubbed := newExpectation(intInvocation(Any()))
	stubbed.setStub(returning(0))
	for _, e := range []*Expectation{stubbed, first, second} {
		require.NoError(t, r.add(e))
	}

	// queued behaviors are preferred over an earlier stub
	assert.Same(t, first, r.match(intInvocation(5)))
	first.consume()
	assert.Same(t, second, r.match(intInvocation(5)))
	second.consume()
	assert.Same(t, stubbed, r.match(intInvocation(5)))
	assert.Same(t, stubbed, r.match(intInvocation(7)))

	r.freeze()
	var illegal *IllegalStateError
	assert.ErrorAs(t, r.add(newExpectation(intInvocation(1))), &illegal)
	assert.Len(t, r.unsatisfied(), 0)
}

func TestExpectations_matchInOrder(t *testing.T) {
	var r Expectations
	first := newExpectation(intInvocation(1))
	first.addBehavior(returning(1))
	second := newExpectation(intInvocation(2))
	second.addBehavior(returning(2))
	require.NoError(t, r.add(first))
	require.NoError(t, r.add(second))

	assert.Nil(t, r.matchInOrder(intInvocation(2)))
	assert.Same(t, first, r.matchInOrder(intInvocation(1)))
	first.consume()
	assert.Same(t, second, r.matchInOrder(intInvocation(2)))
	second.consume()
	assert.Nil(t, r.matchInOrder(intInvocation(1)))
}

func TestMethod_String(t *testing.T) {
	m := methodOf(reflect.TypeOf(&callSource{}), "Join", nil, nil)
	assert.Equal(t, "(*recmock.callSource).Join(string, ...string) string", m.String())
	assert.False(t, m.returnsError())

	m = methodOf(reflect.TypeOf(&callSource{}), "Err", nil, nil)
	assert.Equal(t, "(*recmock.callSource).Err() error", m.String())
	assert.True(t, m.returnsError())
}

func TestMethod_Equal_unreflectable(t *testing.T) {
	recv := reflect.TypeOf(&callSource{})
	boolType := []reflect.Type{reflect.TypeOf(false)}
	recorded := methodOf(recv, "sink", []any{Any()}, boolType)
	assert.True(t, recorded.untyped)

	assert.True(t, recorded.Equal(methodOf(recv, "sink", []any{"hello"}, boolType)))
	assert.True(t, recorded.Equal(methodOf(recv, "sink", []any{nil}, boolType)))
	assert.False(t, recorded.Equal(methodOf(recv, "sink", []any{"a", "b"}, boolType)))
	assert.False(t, recorded.Equal(methodOf(recv, "sink", []any{"hello"}, nil)))
	assert.False(t, recorded.Equal(methodOf(recv, "other", []any{"hello"}, boolType)))

	typed := methodOf(recv, "Err", nil, nil)
	assert.False(t, typed.untyped)
	assert.True(t, typed.Equal(methodOf(recv, "Err", nil, nil)))
	assert.False(t, typed.Equal(recorded))
}
