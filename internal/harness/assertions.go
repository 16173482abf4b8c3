package harness

import (
	"fmt"
	"sort"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, describeEvent(event))
	}

	return buf.String()
}

func describeEvent(e TraceEvent) string {
	switch e.Type {
	case EventEntryPoint:
		return fmt.Sprintf("entry point %s (%s)", e.Name, e.Stage)
	case EventStatement:
		names := make([]string, 0, len(e.Scope))
		for name := range e.Scope {
			names = append(names, name)
		}
		sort.Strings(names)
		vars := make([]string, len(names))
		for i, name := range names {
			vars[i] = name + "=" + e.Scope[name]
		}
		return fmt.Sprintf("%s depth=%d {%s}", e.Kind, e.Depth, strings.Join(vars, ", "))
	default:
		return fmt.Sprintf("  %s #%d = %s", e.Kind, e.Handle, e.Value)
	}
}

// EvaluateAssertions runs every assertion against the result's trace and
// returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result.Trace, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(trace []TraceEvent, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(trace, a)
	case AssertTraceCount:
		return assertTraceCount(trace, a)
	case AssertScopeValue:
		return assertScopeValue(trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertTraceContains checks that an expression of the given kind was
// evaluated, with the given rendered value when one is specified.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Type == EventExpression && event.Kind == assertion.Kind {
			if assertion.Value == "" || event.Value == assertion.Value {
				return nil
			}
		}
	}

	expected := "expression " + assertion.Kind
	if assertion.Value != "" {
		expected += " = " + assertion.Value
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the kinds first appear in the given order.
// Kinds don't need to be consecutive (intervening events are allowed).
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if event.Kind == "" {
			continue
		}
		if _, seen := positions[event.Kind]; !seen {
			positions[event.Kind] = i + 1 // 1-indexed for readability
		}
	}

	for _, kind := range assertion.Kinds {
		if positions[kind] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all kinds present: %v", assertion.Kinds),
				Actual:   fmt.Sprintf("missing kind: %s", kind),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Kinds); i++ {
		prev := assertion.Kinds[i-1]
		curr := assertion.Kinds[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("kinds in order: %v", assertion.Kinds),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks that the kind appears exactly Count times,
// counting statements and expressions alike.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Kind == assertion.Kind {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Kind),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

// assertScopeValue checks that some statement saw the variable bound,
// to the given rendered value when one is specified.
func assertScopeValue(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Type != EventStatement {
			continue
		}
		v, ok := event.Scope[assertion.Variable]
		if ok && (assertion.Value == "" || v == assertion.Value) {
			return nil
		}
	}

	expected := "variable " + assertion.Variable
	if assertion.Value != "" {
		expected += " = " + assertion.Value
	}
	return &AssertionError{
		Type:     AssertScopeValue,
		Expected: expected,
		Actual:   "not visible to any statement",
		Trace:    trace,
	}
}
