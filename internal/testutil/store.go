package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/housingjson/internal/jsonval"
	"github.com/roach88/housingjson/internal/store"
)

// OpenStore opens a store in a fresh temp directory and closes it when the
// test ends.
func OpenStore(t testing.TB, driver string) *store.Store {
	t.Helper()

	st, err := store.Open(driver, filepath.Join(t.TempDir(), "housing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// ReadDocuments decodes the JSON array of documents in file.
func ReadDocuments(t testing.TB, file string) []jsonval.Value {
	t.Helper()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	v, err := jsonval.Parse(data)
	require.NoError(t, err)
	arr, ok := v.(jsonval.Array)
	require.True(t, ok, "%s: expected a JSON array, got %T", file, v)
	return []jsonval.Value(arr)
}

// SeededStore opens a temp store holding the documents in file, inserted in
// file order so record ids start at 1.
func SeededStore(t testing.TB, driver, file string) (*store.Store, []jsonval.Value) {
	t.Helper()

	st := OpenStore(t, driver)
	docs := ReadDocuments(t, file)
	n, err := st.InsertBulk(context.Background(), docs)
	require.NoError(t, err)
	require.Equal(t, int64(len(docs)), n)
	return st, docs
}
