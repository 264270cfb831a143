package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/serress/internal/engine"
	"github.com/roach88/serress/internal/label"
)

// AssertionError is a failed assertion with expected and actual values.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion against result and returns the
// failure messages. A Conflict that no conflict assertion expects is itself
// a failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string

	expectsConflict := false
	for _, a := range assertions {
		if a.Type == AssertConflict {
			expectsConflict = true
		}
		if err := evaluateAssertion(result, a); err != nil {
			failures = append(failures, err.Error())
		}
	}

	if result.Conflict != nil && !expectsConflict {
		failures = append(failures, fmt.Sprintf("unexpected conflict: %v", result.Conflict))
	}
	return failures
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertCell:
		return assertCell(result.Sequence, a)
	case AssertRow:
		return assertLine(result.Sequence, a, func(pg *engine.Page) []label.Label { return pg.Row(a.Q) },
			fmt.Sprintf("row q=%d", a.Q))
	case AssertColumn:
		return assertLine(result.Sequence, a, func(pg *engine.Page) []label.Label { return pg.Column(a.P) },
			fmt.Sprintf("column p=%d", a.P))
	case AssertResolved:
		return assertResolved(result.Sequence, a)
	case AssertConflict:
		return assertConflict(result.Conflict, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertCell(s *engine.Sequence, a Assertion) error {
	c := engine.Coord{Page: a.Page, P: a.P, Q: a.Q}

	if a.Label != nil {
		got := s.Get(a.Page, a.P, a.Q)
		if got != a.Label.Label {
			return &AssertionError{
				Type:     AssertCell,
				Expected: fmt.Sprintf("%s = %s", c, a.Label.Display()),
				Actual:   got.Display(),
			}
		}
	}

	if a.Rule != "" {
		rule := "none"
		for _, d := range s.Deductions() {
			if d.Coord == c {
				rule = string(d.Rule)
				break
			}
		}
		if rule != a.Rule {
			return &AssertionError{
				Type:     AssertCell,
				Expected: fmt.Sprintf("%s deduced by %s", c, a.Rule),
				Actual:   rule,
			}
		}
	}
	return nil
}

func assertLine(s *engine.Sequence, a Assertion, line func(*engine.Page) []label.Label, what string) error {
	pg, ok := s.Page(a.Page)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("page %d", a.Page),
			Actual:   fmt.Sprintf("pages %d..%d", engine.FirstPage, s.MaxDegree()),
		}
	}

	want := label.Symbols(Labels(a.Labels))
	got := label.Symbols(line(pg))
	if strings.Join(want, " ") != strings.Join(got, " ") {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("E_%d %s = [%s]", a.Page, what, strings.Join(want, " ")),
			Actual:   "[" + strings.Join(got, " ") + "]",
		}
	}
	return nil
}

func assertResolved(s *engine.Sequence, a Assertion) error {
	if got := s.Resolved(); got != *a.Value {
		return &AssertionError{
			Type:     AssertResolved,
			Expected: fmt.Sprintf("resolved = %t", *a.Value),
			Actual:   fmt.Sprintf("%t", got),
		}
	}
	return nil
}

func assertConflict(conflict *engine.ConflictError, a Assertion) error {
	if conflict == nil {
		return &AssertionError{Type: AssertConflict, Expected: "a conflict", Actual: "none"}
	}
	if a.Page == 0 {
		return nil
	}
	want := engine.Coord{Page: a.Page, P: a.P, Q: a.Q}
	if conflict.Coord() != want {
		return &AssertionError{
			Type:     AssertConflict,
			Expected: "conflict at " + want.String(),
			Actual:   conflict.Coord().String(),
		}
	}
	return nil
}
