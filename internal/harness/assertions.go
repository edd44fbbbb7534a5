package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tessellate-dev/planemesh/internal/kernel"
)

// AssertionError is returned when a trace assertion fails. It carries the
// full trace so a failure message shows what actually happened.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []kernel.Op
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "assertion failed: %s\n", e.Type)
	fmt.Fprintf(&b, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&b, "  actual: %s\n", e.Actual)
	b.WriteString("\nfull trace:\n")
	for _, op := range e.Trace {
		fmt.Fprintf(&b, "  %s\n", op)
	}
	return b.String()
}

// evaluate checks one assertion against the trace.
func evaluate(trace []kernel.Op, a Assertion) error {
	switch a.Type {
	case AssertOpContains:
		return assertOpContains(trace, a)
	case AssertOpOrder:
		return assertOpOrder(trace, a)
	case AssertOpCount:
		return assertOpCount(trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertOpContains looks for an op with the given name whose args contain
// the asserted args (subset match) and, when asserted, the returned tag.
func assertOpContains(trace []kernel.Op, a Assertion) error {
	for _, op := range trace {
		if op.Name != a.Op {
			continue
		}
		if a.Tag != 0 && op.Tag != a.Tag {
			continue
		}
		if matchArgs(op.Args, a.Args) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertOpContains,
		Expected: fmt.Sprintf("op %s with args %v", a.Op, a.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertOpOrder checks that the named ops first occur in the given order.
// Intervening ops are allowed.
func assertOpOrder(trace []kernel.Op, a Assertion) error {
	next := 0
	for _, op := range trace {
		if next < len(a.Ops) && op.Name == a.Ops[next] {
			next++
		}
	}
	if next < len(a.Ops) {
		return &AssertionError{
			Type:     AssertOpOrder,
			Expected: fmt.Sprintf("ops in order %v", a.Ops),
			Actual:   fmt.Sprintf("order broken at %q", a.Ops[next]),
			Trace:    trace,
		}
	}
	return nil
}

// assertOpCount checks that an op occurs exactly Count times.
func assertOpCount(trace []kernel.Op, a Assertion) error {
	count := 0
	for _, op := range trace {
		if op.Name == a.Op {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertOpCount,
			Expected: fmt.Sprintf("op %s exactly %d times", a.Op, a.Count),
			Actual:   fmt.Sprintf("%d times", count),
			Trace:    trace,
		}
	}
	return nil
}

// matchArgs does a subset match of expected against actual, with numeric
// values compared by magnitude so YAML ints match recorded floats.
func matchArgs(actual, expected map[string]any) bool {
	for key, want := range expected {
		got, ok := actual[key]
		if !ok || !matchValue(got, want) {
			return false
		}
	}
	return true
}

func matchValue(got, want any) bool {
	if gf, ok := asFloat(got); ok {
		if wf, ok := asFloat(want); ok {
			return gf == wf
		}
		return false
	}

	gv := reflect.ValueOf(got)
	wv := reflect.ValueOf(want)
	if gv.Kind() == reflect.Slice && wv.Kind() == reflect.Slice {
		if gv.Len() != wv.Len() {
			return false
		}
		for i := 0; i < gv.Len(); i++ {
			if !matchValue(gv.Index(i).Interface(), wv.Index(i).Interface()) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(got, want)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
