package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/housingjson/internal/jsonval"
	"github.com/roach88/housingjson/internal/querysql"
)

func intPtr(n int) *int { return &n }

func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
			assert.Len(t, result.Steps, len(s.Steps))
		})
	}
}

func TestRunWithGolden_Projection(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "projection.yaml"))
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
}

func TestRun_ReportsExpectationFailures(t *testing.T) {
	s := &Scenario{
		Name:        "failing",
		Description: "Wrong expectations are reported, not swallowed",
		Documents:   []map[string]any{{"CSD": "Banff"}},
		Steps: []Step{
			{Name: "count", Strategy: "dot", Query: QuerySpec{Select: []string{"CSD"}}, Expect: &Expect{Count: intPtr(2)}},
			{Name: "rows", Strategy: "jq", Query: QuerySpec{Select: []string{"CSD"}}, Expect: &Expect{Rows: []any{map[string]any{"CSD": "Canmore"}}}},
			{Name: "should_fail", Strategy: "dot", Query: QuerySpec{Select: []string{"CSD"}}, Expect: &Expect{Error: ExpectValidation}},
			{Name: "should_pass", Strategy: "dot", Query: QuerySpec{Select: []string{"a..b"}}},
		},
		Assertions: []Assertion{{Type: AssertRowCount, Step: "count", Count: 5}},
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "expected 2 rows, got 1")
	assert.Contains(t, result.Errors[1], "rows mismatch")
	assert.Contains(t, result.Errors[2], "expected validation error")
	assert.Contains(t, result.Errors[3], "unexpected error")
	assert.Contains(t, result.Errors[4], "Assertion failed: row_count")
}

func TestRun_StepResultRecordsCompilation(t *testing.T) {
	s := &Scenario{
		Name:        "compiled",
		Description: "Step results carry SQL and binds",
		Documents:   []map[string]any{{"CSD": "Banff"}},
		Steps: []Step{
			{Name: "filtered", Strategy: "jq", Query: QuerySpec{Select: []string{"CSD"}, Where: "CSD", Value: "Ban%", String: true}},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass, strings.Join(result.Errors, "\n"))

	sr, ok := result.Step("filtered")
	require.True(t, ok)
	assert.Equal(t, "jq", sr.Strategy)
	assert.Contains(t, sr.SQL, "LIKE ?")
	assert.Equal(t, []any{"Ban%"}, sr.Binds)
	assert.Equal(t, []jsonval.Value{jsonval.Object{"CSD": jsonval.String("Banff")}}, sr.Data)

	_, ok = result.Step("missing")
	assert.False(t, ok)
}

func TestAssertBindParity_DetectsMismatch(t *testing.T) {
	result := &Result{Steps: []StepResult{
		{Name: "ok", SQL: "SELECT 1 WHERE x = ?", Binds: []any{"a"}},
		{Name: "bad", SQL: "SELECT 1 WHERE x = ? LIMIT ?", Binds: []any{"a"}},
		{Name: "invalid"},
	}}

	errs := assertBindParity(result)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `step "bad"`)
}

func TestDiffData(t *testing.T) {
	a := []jsonval.Value{jsonval.Object{"CSD": jsonval.String("Banff")}}
	b := []jsonval.Value{jsonval.Object{"CSD": jsonval.String("Jasper")}}

	assert.Empty(t, diffData(a, a))
	assert.Empty(t, diffData(nil, []jsonval.Value{}))
	assert.Equal(t, `[{"CSD":"Jasper"}]`, diffData(a, b))
}

func TestMarshalSnapshot_DoesNotEscapeOperators(t *testing.T) {
	data, err := MarshalSnapshot(Snapshot{
		Scenario: "s",
		Steps:    []StepResult{{Name: "a", Strategy: querysql.NativePathProjection{}.Name(), SQL: "h.json_data -> 'A'"}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), "h.json_data -> 'A'")
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
}
