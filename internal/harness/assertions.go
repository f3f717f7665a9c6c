package harness

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/housingjson/internal/jsonval"
	"github.com/roach88/housingjson/internal/querysql"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Step     string // Step the failure relates to, if any
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if e.Step != "" {
		fmt.Fprintf(&buf, " (step %q)", e.Step)
	}
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	return buf.String()
}

// EvaluateAssertions runs every scenario assertion and returns the failure
// messages. An empty result means all assertions passed.
func (h *Harness) EvaluateAssertions(ctx context.Context, scenario *Scenario, result *Result) []string {
	var errs []string
	for _, a := range scenario.Assertions {
		for _, err := range h.evaluate(ctx, scenario, a, result) {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func (h *Harness) evaluate(ctx context.Context, scenario *Scenario, a Assertion, result *Result) []error {
	switch a.Type {
	case AssertOracle:
		return h.assertOracle(scenario, result)
	case AssertStrategiesAgree:
		return h.assertStrategiesAgree(ctx, scenario, result)
	case AssertBindParity:
		return assertBindParity(result)
	case AssertRowCount:
		return assertRowCount(a, result)
	default:
		return []error{fmt.Errorf("unknown assertion type %q", a.Type)}
	}
}

// assertOracle compares every successful step with the oracle's evaluation.
func (h *Harness) assertOracle(scenario *Scenario, result *Result) []error {
	oracle := Oracle{Normalizer: h.normalizer}

	var errs []error
	for i, sr := range result.Steps {
		if sr.Error != "" {
			continue
		}
		step := scenario.Steps[i]
		strategy, err := querysql.ParseStrategy(step.Strategy)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		want, err := oracle.Evaluate(h.docs, strategy, step.Query.request())
		if err != nil {
			errs = append(errs, fmt.Errorf("step %q: oracle: %w", sr.Name, err))
			continue
		}
		if msg := diffData(want, sr.Data); msg != "" {
			errs = append(errs, &AssertionError{
				Type:     AssertOracle,
				Step:     sr.Name,
				Expected: render(want),
				Actual:   msg,
			})
		}
	}
	return errs
}

// assertStrategiesAgree reruns every successful step under the other
// strategy and compares the data.
func (h *Harness) assertStrategiesAgree(ctx context.Context, scenario *Scenario, result *Result) []error {
	var errs []error
	for i, sr := range result.Steps {
		if sr.Error != "" {
			continue
		}

		other := querysql.FunctionProjection{}.Name()
		if sr.Strategy == other {
			other = querysql.NativePathProjection{}.Name()
		}

		alt, err := h.runStep(ctx, sr.Name, other, scenario.Steps[i].Query.request())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if alt.Error != "" {
			errs = append(errs, &AssertionError{
				Type:     AssertStrategiesAgree,
				Step:     sr.Name,
				Expected: fmt.Sprintf("%s succeeds like %s", other, sr.Strategy),
				Actual:   alt.Error,
			})
			continue
		}
		if msg := diffData(sr.Data, alt.Data); msg != "" {
			errs = append(errs, &AssertionError{
				Type:     AssertStrategiesAgree,
				Step:     sr.Name,
				Expected: fmt.Sprintf("%s: %s", sr.Strategy, render(sr.Data)),
				Actual:   fmt.Sprintf("%s: %s", other, msg),
			})
		}
	}
	return errs
}

// assertBindParity checks one bind per ? placeholder in every compiled step.
func assertBindParity(result *Result) []error {
	var errs []error
	for _, sr := range result.Steps {
		if sr.SQL == "" {
			continue
		}
		if n := strings.Count(sr.SQL, "?"); n != len(sr.Binds) {
			errs = append(errs, &AssertionError{
				Type:     AssertBindParity,
				Step:     sr.Name,
				Expected: fmt.Sprintf("%d binds for %q", n, sr.SQL),
				Actual:   fmt.Sprintf("%d binds", len(sr.Binds)),
			})
		}
	}
	return errs
}

// assertRowCount checks the number of rows of one step.
func assertRowCount(a Assertion, result *Result) []error {
	sr, ok := result.Step(a.Step)
	if !ok {
		return []error{fmt.Errorf("row_count: unknown step %q", a.Step)}
	}
	if sr.Error != "" || len(sr.Data) != a.Count {
		return []error{&AssertionError{
			Type:     AssertRowCount,
			Step:     a.Step,
			Expected: fmt.Sprintf("%d rows", a.Count),
			Actual:   describe(sr),
		}}
	}
	return nil
}

// diffData returns "" when want and got hold the same values in the same
// order, or a rendering of got otherwise.
func diffData(want, got []jsonval.Value) string {
	if len(want) == 0 && len(got) == 0 {
		return ""
	}
	if reflect.DeepEqual(want, got) {
		return ""
	}
	return render(got)
}

func render(data []jsonval.Value) string {
	out, err := jsonval.Marshal(jsonval.Array(data))
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(out)
}
