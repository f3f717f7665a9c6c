package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/housingjson/internal/jsonval"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// Record is one stored housing document.
type Record struct {
	ID       int64         `json:"id"`
	Document jsonval.Value `json:"json_data"`
}

// Insert stores a document and returns its id.
func (s *Store) Insert(ctx context.Context, doc jsonval.Value) (int64, error) {
	data, err := marshalDocument(doc)
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO housing_json_data (json_data) VALUES (json(?))`, data)
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert: last insert id: %w", err)
	}
	return id, nil
}

// InsertBulk stores documents in a single transaction and returns the number
// of rows inserted. Either all documents are stored or none.
func (s *Store) InsertBulk(ctx context.Context, docs []jsonval.Value) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("bulk insert: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO housing_json_data (json_data) VALUES (json(?))`)
	if err != nil {
		return 0, fmt.Errorf("bulk insert: prepare: %w", err)
	}
	defer stmt.Close()

	var n int64
	for i, doc := range docs {
		data, err := marshalDocument(doc)
		if err != nil {
			return 0, fmt.Errorf("bulk insert: document %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, data); err != nil {
			return 0, fmt.Errorf("bulk insert: document %d: %w", i, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("bulk insert: commit: %w", err)
	}
	return n, nil
}

// ReadAll returns every record ordered by id.
func (s *Store) ReadAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, json_data FROM housing_json_data ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("read all: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read all: %w", err)
	}
	return records, nil
}

// ReadByID returns the record with the given id.
// Returns ErrNotFound if there is none.
func (s *Store) ReadByID(ctx context.Context, id int64) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, json_data FROM housing_json_data WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// Update replaces the document of the record with the given id.
// Returns ErrNotFound if there is none.
func (s *Store) Update(ctx context.Context, id int64, doc jsonval.Value) error {
	data, err := marshalDocument(doc)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE housing_json_data SET json_data = json(?) WHERE id = ?`, data, id)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return requireAffected(res)
}

// Delete removes the record with the given id.
// Returns ErrNotFound if there is none.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM housing_json_data WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return requireAffected(res)
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM housing_json_data`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(r rowScanner) (Record, error) {
	var (
		rec  Record
		data string
	)
	if err := r.Scan(&rec.ID, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan record: %w", err)
	}

	doc, err := jsonval.Parse([]byte(data))
	if err != nil {
		return Record{}, fmt.Errorf("record %d: decode json_data: %w", rec.ID, err)
	}
	rec.Document = doc
	return rec, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalDocument(doc jsonval.Value) (string, error) {
	if _, ok := doc.(jsonval.Object); !ok {
		return "", fmt.Errorf("document must be a JSON object, got %T", doc)
	}
	data, err := jsonval.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	return string(data), nil
}
