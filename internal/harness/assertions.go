package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Subject  string       // What was being checked
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Facts    []MethodFact // Collected facts for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Expectation failed: %s\n", e.Subject)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Facts) > 0 {
		fmt.Fprintf(&buf, "\nCollected facts:\n")
		for _, f := range e.Facts {
			fmt.Fprintf(&buf, "  [%d] %s %s.%s yields=%q transferable=%v shared=%v\n",
				f.Seq, f.Kind, f.Declaration, f.Method, f.Yields, f.Transferable, f.SharedAccess)
		}
	}

	return buf.String()
}

// evaluate checks the scenario's expectations against the result,
// adding one error per mismatch.
func evaluate(scenario *Scenario, result *Result) {
	if scenario.Expect.Failure != nil {
		evaluateFailure(scenario.Expect.Failure, result)
		return
	}

	if result.Failure != nil {
		result.AddError((&AssertionError{
			Subject:  "pipeline outcome",
			Expected: "successful rewrite",
			Actual:   fmt.Sprintf("%s failure: %s", result.Failure.Type, result.Failure.Message),
		}).Error())
		return
	}

	for _, expect := range scenario.Expect.Methods {
		evaluateMethod(expect, result)
	}
}

func evaluateFailure(expect *FailureExpect, result *Result) {
	if result.Failure == nil {
		result.AddError((&AssertionError{
			Subject:  "pipeline outcome",
			Expected: fmt.Sprintf("%s failure", expect.Type),
			Actual:   "successful rewrite",
			Facts:    result.Facts,
		}).Error())
		return
	}

	if result.Failure.Type != expect.Type {
		result.AddError((&AssertionError{
			Subject:  "failure type",
			Expected: expect.Type,
			Actual:   fmt.Sprintf("%s (%s)", result.Failure.Type, result.Failure.Message),
		}).Error())
	}

	if expect.Contains != "" && !strings.Contains(result.Failure.Message, expect.Contains) {
		result.AddError((&AssertionError{
			Subject:  "failure message",
			Expected: fmt.Sprintf("contains %q", expect.Contains),
			Actual:   result.Failure.Message,
		}).Error())
	}
}

func evaluateMethod(expect MethodExpect, result *Result) {
	fact, ok := findFact(result.Facts, expect.Declaration, expect.Method)
	if !ok {
		result.AddError((&AssertionError{
			Subject:  fmt.Sprintf("%s.%s", expect.Declaration, expect.Method),
			Expected: "method present in rewritten declarations",
			Actual:   "not found",
			Facts:    result.Facts,
		}).Error())
		return
	}

	check := func(field string, want, got any) {
		if want != got {
			result.AddError((&AssertionError{
				Subject:  fmt.Sprintf("%s.%s %s", expect.Declaration, expect.Method, field),
				Expected: fmt.Sprintf("%v", want),
				Actual:   fmt.Sprintf("%v", got),
				Facts:    result.Facts,
			}).Error())
		}
	}

	if expect.Deferred != nil {
		check("deferred", *expect.Deferred, fact.Deferred)
	}
	if expect.Yields != "" {
		check("yields", expect.Yields, fact.Yields)
	}
	if expect.Transferable != nil {
		check("transferable", *expect.Transferable, fact.Transferable)
	}
	if expect.SharedAccess != nil {
		check("shared_access", *expect.SharedAccess, fact.SharedAccess)
	}
	if expect.MustObserve != nil {
		check("must_observe", *expect.MustObserve, fact.MustObserve)
	}
	if expect.Wrapped != nil {
		check("wrapped", *expect.Wrapped, fact.Wrapped)
	}
	if expect.Suppress != nil && !slices.Equal(expect.Suppress, fact.Suppress) {
		check("suppress", fmt.Sprintf("%v", expect.Suppress), fmt.Sprintf("%v", fact.Suppress))
	}
}

// findFact locates a fact by declaration and method name.
func findFact(facts []MethodFact, declaration, method string) (MethodFact, bool) {
	for _, f := range facts {
		if f.Declaration == declaration && f.Method == method {
			return f, true
		}
	}
	return MethodFact{}, false
}
