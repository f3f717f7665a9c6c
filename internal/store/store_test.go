package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/housingjson/internal/jsonval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesPragmas(t *testing.T) {
	s := createTestStore(t)

	require.NoError(t, s.verifyPragma("journal_mode", "wal"))
	require.NoError(t, s.verifyPragma("synchronous", "1")) // NORMAL
	require.NoError(t, s.verifyPragma("busy_timeout", "5000"))
}

func TestOpen_SetsSchemaVersion(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")

	s1, err := Open(DriverCGO, path)
	require.NoError(t, err)
	_, err = s1.Insert(context.Background(), housingDoc("4801", "Red Deer", "Apartment", 1))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open("", path)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOpen_PureGoDriver(t *testing.T) {
	s, err := Open(DriverPureGo, filepath.Join(t.TempDir(), "purego.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	_, err = s.Insert(ctx, housingDoc("4801", "Red Deer", "Apartment", 1))
	require.NoError(t, err)

	res, err := s.Execute(ctx, `SELECT h.json_data -> 'Dimensions' -> 'Value' AS "Value" FROM housing_json_data h`)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	v, ok := res.Rows[0].Get("Value")
	require.True(t, ok)
	assert.Equal(t, jsonval.String(`"Apartment"`), v)
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open("postgres", filepath.Join(t.TempDir(), "x.db"))
	assert.Error(t, err)
}

func TestClose_NilDB(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}

func TestPing(t *testing.T) {
	s := createTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
	assert.NotNil(t, s.DB())
}
