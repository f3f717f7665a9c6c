package housing

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/housingjson/internal/jsonval"
)

// SeedResult reports the outcome of Seed.
type SeedResult struct {
	Inserted int64 `json:"inserted"`
	Existing int64 `json:"existing"`
	Skipped  bool  `json:"skipped"`
}

// Seed inserts docs only when the store holds no records.
// A non-empty store is left untouched and reported as skipped.
func (s *Service) Seed(ctx context.Context, docs []jsonval.Value) (SeedResult, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("seed: %w", err)
	}
	if n > 0 {
		slog.Info("store already seeded, skipping", "records", n)
		return SeedResult{Existing: n, Skipped: true}, nil
	}

	slog.Info("seeding store", "records", len(docs))
	inserted, err := s.CreateBulk(ctx, docs)
	if err != nil {
		return SeedResult{}, fmt.Errorf("seed: %w", err)
	}
	return SeedResult{Inserted: inserted}, nil
}

// LoadDocuments reads a JSON array of documents from path.
func LoadDocuments(path string) ([]jsonval.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseDocuments(data)
}

// ParseDocuments decodes a JSON array of documents.
func ParseDocuments(data []byte) ([]jsonval.Value, error) {
	v, err := jsonval.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	arr, ok := v.(jsonval.Array)
	if !ok {
		return nil, fmt.Errorf("decode documents: expected a JSON array, got %T", v)
	}
	return []jsonval.Value(arr), nil
}
