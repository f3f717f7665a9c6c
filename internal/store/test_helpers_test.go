package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/housingjson/internal/jsonval"
)

// createTestStore creates a new temp-file store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(DriverCGO, path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// housingDoc builds a minimal housing document.
func housingDoc(csduid, csd, dwelling string, value int64) jsonval.Object {
	return jsonval.Object{
		"CSDUID": jsonval.String(csduid),
		"CSD":    jsonval.String(csd),
		"Period": jsonval.String("2023-01"),
		"Dimensions": jsonval.Object{
			"Name":  jsonval.String("Type of dwelling"),
			"Value": jsonval.String(dwelling),
		},
		"OriginalValue": jsonval.NewInt(value),
	}
}
