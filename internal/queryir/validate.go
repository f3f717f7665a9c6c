package queryir

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/housingjson/internal/querypath"
)

// ValidationError reports malformed query input. It is raised before any SQL
// is generated and lists every problem found, not just the first.
type ValidationError struct {
	Problems []string
	Err      error // first underlying cause, if any
}

func (e *ValidationError) Error() string {
	return "invalid query: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Parse builds a Query from raw request parameters.
//
// Rules:
//  1. Every Select entry is trimmed and must parse as a querypath.Path.
//  2. Output keys must be unique (compared case-folded).
//  3. A filter is built only when both Where and Value are non-empty;
//     Where must parse as a querypath.Path.
//  4. Limit must not be negative.
//
// Parse is a pure function with no side effects.
func Parse(req Request) (Query, error) {
	v := &validator{}
	q := Query{Limit: req.Limit}

	for i, raw := range req.Select {
		raw = strings.TrimSpace(raw)
		p, err := querypath.Parse(raw)
		if err != nil {
			v.addProblem(err, "select[%d]: %v", i, err)
			continue
		}
		q.Columns = append(q.Columns, Column{Path: p})
	}

	where := strings.TrimSpace(req.Where)
	if where != "" && req.Value != "" {
		p, err := querypath.Parse(where)
		if err != nil {
			v.addProblem(err, "where: %v", err)
		} else {
			mode := MatchEquals
			if req.Pattern {
				mode = MatchPattern
			}
			q.Filter = &Filter{Path: p, Value: req.Value, Mode: mode}
		}
	}

	v.validateQuery(q)

	if err := v.err(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Validate checks a programmatically built Query against the same rules as Parse.
func Validate(q Query) error {
	v := &validator{}
	for i, col := range q.Columns {
		if col.Path.Len() == 0 {
			v.addProblem(querypath.ErrInvalidPath, "columns[%d]: empty path", i)
		}
	}
	if q.Filter != nil && q.Filter.Path.Len() == 0 {
		v.addProblem(querypath.ErrInvalidPath, "filter: empty path")
	}
	v.validateQuery(q)
	return v.err()
}

// validator accumulates problems during validation.
type validator struct {
	problems []string
	cause    error
}

func (v *validator) addProblem(cause error, format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
	if v.cause == nil {
		v.cause = cause
	}
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: v.problems, Err: v.cause}
}

// validateQuery checks rules that span columns.
func (v *validator) validateQuery(q Query) {
	seen := make(map[string]string, len(q.Columns))
	for _, col := range q.Columns {
		key := col.OutputKey()
		if key == "" {
			continue
		}
		folded := querypath.FoldKey(key)
		if prev, ok := seen[folded]; ok {
			v.addProblem(nil, "select: %q and %q both produce output key %q", prev, col.Path.String(), key)
			continue
		}
		seen[folded] = col.Path.String()
	}

	if q.Limit < 0 {
		v.addProblem(nil, "limit: must not be negative, got %d", q.Limit)
	}
}
