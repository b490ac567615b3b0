package recmock

import (
	"fmt"
	"reflect"
	"strings"
)

// ArgumentMatcher constrains one positional argument of a recorded call.
// Passing an ArgumentMatcher as an argument while recording uses it
// instead of equality.
type ArgumentMatcher interface {
	Matches(arg any) bool
	String() string
}

type anyMatcher struct{}

func (anyMatcher) Matches(any) bool { return true }
func (anyMatcher) String() string   { return "<any>" }

// Any matches every argument value.
func Any() ArgumentMatcher { return anyMatcher{} }

type eqMatcher struct{ expected any }

func (m eqMatcher) Matches(arg any) bool { return reflect.DeepEqual(m.expected, arg) }
func (m eqMatcher) String() string       { return formatArg(m.expected) }

// Eq matches arguments deeply equal to v. It is the implicit matcher for
// plain recorded values.
func Eq(v any) ArgumentMatcher { return eqMatcher{expected: v} }

// matchersFor turns recorded arguments into positional matchers.
func matchersFor(args []any) []ArgumentMatcher {
	matchers := make([]ArgumentMatcher, len(args))
	for i, arg := range args {
		if m, ok := arg.(ArgumentMatcher); ok {
			matchers[i] = m
			continue
		}
		matchers[i] = Eq(arg)
	}
	return matchers
}

func argumentsMatch(matchers []ArgumentMatcher, args []any) bool {
	if len(matchers) != len(args) {
		return false
	}
	for i, m := range matchers {
		if !m.Matches(args[i]) {
			return false
		}
	}
	return true
}

func formatArg(v any) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case nil:
		return "nil"
	default:
		return fmt.Sprint(v)
	}
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatArg(arg)
	}
	return strings.Join(parts, ", ")
}

func formatMatchers(matchers []ArgumentMatcher) string {
	parts := make([]string, len(matchers))
	for i, m := range matchers {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}
