package harness

import (
	"context"
	"fmt"

	"github.com/roach88/housingjson/internal/housing"
	"github.com/roach88/housingjson/internal/jsonval"
	"github.com/roach88/housingjson/internal/queryir"
	"github.com/roach88/housingjson/internal/querypath"
	"github.com/roach88/housingjson/internal/querysql"
	"github.com/roach88/housingjson/internal/store"
)

// Harness is the scenario execution engine.
type Harness struct {
	store      *store.Store
	svc        *housing.Service
	normalizer querypath.Normalizer
	docs       []jsonval.Value
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Store seed and inline documents
// 3. Run every step, checking its expect clause
// 4. Evaluate assertions over all step results
func Run(scenario *Scenario) (*Result, error) {
	// Create fresh in-memory SQLite database
	st, err := store.Open(store.DriverCGO, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	casing, err := querypath.ParseCasing(scenario.KeyCasing)
	if err != nil {
		return nil, err
	}
	normalizer := querypath.Normalizer{Casing: casing}

	h := &Harness{
		store:      st,
		svc:        housing.NewService(st, normalizer),
		normalizer: normalizer,
	}

	ctx := context.Background()

	if err := h.seed(ctx, scenario); err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	result := NewResult()
	for _, step := range scenario.Steps {
		sr, err := h.runStep(ctx, step.Name, step.Strategy, step.Query.request())
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", step.Name, err)
		}
		result.Steps = append(result.Steps, sr)

		for _, msg := range checkExpect(step, sr) {
			result.AddError(fmt.Sprintf("step %q: %s", step.Name, msg))
		}
	}

	for _, msg := range h.EvaluateAssertions(ctx, scenario, result) {
		result.AddError(msg)
	}

	return result, nil
}

// seed stores the seed file and inline documents.
func (h *Harness) seed(ctx context.Context, scenario *Scenario) error {
	if scenario.Seed != "" {
		docs, err := housing.LoadDocuments(scenario.Seed)
		if err != nil {
			return err
		}
		h.docs = append(h.docs, docs...)
	}

	for i, raw := range scenario.Documents {
		doc, err := jsonval.FromAny(raw)
		if err != nil {
			return fmt.Errorf("documents[%d]: %w", i, err)
		}
		h.docs = append(h.docs, doc)
	}

	if len(h.docs) == 0 {
		return nil
	}
	_, err := h.svc.CreateBulk(ctx, h.docs)
	return err
}

// runStep compiles and runs one query. Query failures are recorded in the
// StepResult; only harness failures are returned as errors.
func (h *Harness) runStep(ctx context.Context, name, strategyName string, req queryir.Request) (StepResult, error) {
	strategy, err := querysql.ParseStrategy(strategyName)
	if err != nil {
		return StepResult{}, err
	}

	sr := StepResult{Name: name, Strategy: strategy.Name()}

	cq, _, err := h.svc.Compile(strategy, req)
	if err != nil {
		sr.Error = err.Error()
		sr.Validation = queryir.IsValidationError(err)
		return sr, nil
	}
	sr.SQL = cq.SQL
	sr.Binds = cq.Binds

	resp, err := h.svc.Query(ctx, strategy, req)
	if err != nil {
		sr.Error = err.Error()
		sr.Validation = queryir.IsValidationError(err)
		return sr, nil
	}
	sr.Data = resp.Data

	return sr, nil
}

// request converts the YAML query parameters.
func (q QuerySpec) request() queryir.Request {
	return queryir.Request{
		Select:  q.Select,
		Where:   q.Where,
		Value:   q.Value,
		Pattern: q.String,
		Limit:   q.Limit,
	}
}

// checkExpect compares a step result with its expect clause.
func checkExpect(step Step, sr StepResult) []string {
	var errs []string

	exp := step.Expect
	if exp == nil {
		exp = &Expect{}
	}

	switch {
	case exp.Error == ExpectValidation:
		if !sr.Validation {
			errs = append(errs, fmt.Sprintf("expected validation error, got %s", describe(sr)))
		}
		return errs
	case sr.Error != "":
		errs = append(errs, "unexpected error: "+sr.Error)
		return errs
	}

	if exp.Count != nil && len(sr.Data) != *exp.Count {
		errs = append(errs, fmt.Sprintf("expected %d rows, got %d", *exp.Count, len(sr.Data)))
	}

	if exp.Rows != nil {
		want, err := jsonval.FromAny(exp.Rows)
		if err != nil {
			return append(errs, fmt.Sprintf("expect.rows: %v", err))
		}
		if msg := diffData(want.(jsonval.Array), sr.Data); msg != "" {
			errs = append(errs, "rows mismatch: "+msg)
		}
	}

	return errs
}

func describe(sr StepResult) string {
	if sr.Error != "" {
		return "error: " + sr.Error
	}
	return fmt.Sprintf("%d rows", len(sr.Data))
}
