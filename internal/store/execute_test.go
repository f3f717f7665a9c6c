package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/housingjson/internal/jsonval"
)

func TestExecute_QueryReturnsOrderedColumns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, housingDoc("4801", "Red Deer", "Apartment", 12))
	require.NoError(t, err)

	res, err := s.Execute(ctx, `
		SELECT h.json_data -> 'CSDUID' AS "CSDUID",
		       json_extract(h.json_data, '$.OriginalValue') AS "OriginalValue",
		       h.json_data -> 'Missing' AS "Missing"
		FROM housing_json_data h`)
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.Equal(t, jsonval.Row{
		{Key: "CSDUID", Value: jsonval.String(`"4801"`)},
		{Key: "OriginalValue", Value: jsonval.Number("12")},
		{Key: "Missing", Value: jsonval.Null{}},
	}, res.Rows[0])
}

func TestExecute_PositionalBinds(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, doc := range []jsonval.Object{
		housingDoc("4801", "Red Deer", "Apartment", 1),
		housingDoc("4802", "Calgary", "Row", 2),
		housingDoc("4803", "Red Earth Creek", "Apartment", 3),
	} {
		_, err := s.Insert(ctx, doc)
		require.NoError(t, err)
	}

	res, err := s.Execute(ctx,
		`SELECT h.json_data -> 'CSDUID' AS "CSDUID" FROM housing_json_data h WHERE json_extract(h.json_data, '$.CSD') LIKE ? ORDER BY h.id ASC LIMIT ?`,
		"Red%", int64(5))
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	first, _ := res.Rows[0].Get("CSDUID")
	second, _ := res.Rows[1].Get("CSDUID")
	assert.Equal(t, jsonval.String(`"4801"`), first)
	assert.Equal(t, jsonval.String(`"4803"`), second)
}

func TestExecute_EmptyResultIsNotNil(t *testing.T) {
	s := createTestStore(t)

	res, err := s.Execute(context.Background(), `SELECT json_data FROM housing_json_data`)
	require.NoError(t, err)
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
}

func TestExecute_StatementReportsRowsAffected(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, housingDoc("4801", "Red Deer", "Apartment", 1))
	require.NoError(t, err)
	_, err = s.Insert(ctx, housingDoc("4802", "Calgary", "Row", 2))
	require.NoError(t, err)

	res, err := s.Execute(ctx, `DELETE FROM housing_json_data WHERE json_extract(json_data, '$.CSD') = ?`, "Calgary")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.Nil(t, res.Rows)
}

func TestExecute_PropagatesErrors(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Execute(context.Background(), `SELECT nope FROM missing_table`)
	assert.Error(t, err)
}

func TestExecute_HonoursCancelledContext(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Execute(ctx, `SELECT json_data FROM housing_json_data`)
	assert.Error(t, err)
}

func TestReturnsRows(t *testing.T) {
	assert.True(t, returnsRows("  select 1"))
	assert.True(t, returnsRows("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.False(t, returnsRows("DELETE FROM housing_json_data"))
}
