package harness

import (
	"github.com/roach88/housingjson/internal/jsonval"
)

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Name     string          `json:"name"`
	Strategy string          `json:"strategy"`
	SQL      string          `json:"sql,omitempty"`
	Binds    []any           `json:"binds,omitempty"`
	Data     []jsonval.Value `json:"data,omitempty"`
	Error    string          `json:"error,omitempty"`

	// Validation reports whether Error is a query validation error.
	Validation bool `json:"-"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every step expectation and every
	// assertion held.
	Pass bool `json:"pass"`

	// Steps holds one entry per scenario step, in order.
	Steps []StepResult `json:"steps"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepResult{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Step returns the result of the named step.
func (r *Result) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}
