package housing

import (
	"context"
	"fmt"

	"github.com/roach88/housingjson/internal/jsonval"
	"github.com/roach88/housingjson/internal/store"
)

// List returns every record ordered by id.
func (s *Service) List(ctx context.Context) ([]store.Record, error) {
	return s.store.ReadAll(ctx)
}

// Get returns one record. Returns store.ErrNotFound if there is none.
func (s *Service) Get(ctx context.Context, id int64) (store.Record, error) {
	return s.store.ReadByID(ctx, id)
}

// Create stores doc and returns the new record.
func (s *Service) Create(ctx context.Context, doc jsonval.Value) (store.Record, error) {
	if err := checkDocument(doc); err != nil {
		return store.Record{}, err
	}
	id, err := s.store.Insert(ctx, doc)
	if err != nil {
		return store.Record{}, err
	}
	return store.Record{ID: id, Document: doc}, nil
}

// CreateBulk stores docs in one transaction and returns how many were stored.
func (s *Service) CreateBulk(ctx context.Context, docs []jsonval.Value) (int64, error) {
	if len(docs) == 0 {
		return 0, fmt.Errorf("%w: array of housing data is required", ErrEmptyDocument)
	}
	for i, doc := range docs {
		if err := checkDocument(doc); err != nil {
			return 0, fmt.Errorf("document %d: %w", i, err)
		}
	}
	return s.store.InsertBulk(ctx, docs)
}

// Update replaces the document of record id.
func (s *Service) Update(ctx context.Context, id int64, doc jsonval.Value) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	return s.store.Update(ctx, id, doc)
}

// Delete removes record id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func checkDocument(doc jsonval.Value) error {
	obj, ok := doc.(jsonval.Object)
	if !ok || len(obj) == 0 {
		return ErrEmptyDocument
	}
	return nil
}
