package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/housingjson/internal/jsonval"
)

// Result is the outcome of Execute.
type Result struct {
	// Rows holds the result set of a query statement, nil for other statements.
	Rows []jsonval.Row

	// RowsAffected counts changed rows for data-modifying statements and
	// returned rows for queries.
	RowsAffected int64
}

// Execute runs a single statement with positional binds.
//
// Statements starting with SELECT or WITH are run as queries and their rows
// are returned; anything else is executed for its side effects. Errors from
// the database are returned wrapped and otherwise uninterpreted.
func (s *Store) Execute(ctx context.Context, query string, binds ...any) (Result, error) {
	if !returnsRows(query) {
		res, err := s.db.ExecContext(ctx, query, binds...)
		if err != nil {
			return Result{}, fmt.Errorf("execute statement: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return Result{}, fmt.Errorf("rows affected: %w", err)
		}
		return Result{RowsAffected: n}, nil
	}

	rows, err := s.db.QueryContext(ctx, query, binds...)
	if err != nil {
		return Result{}, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return Result{}, err
	}
	return Result{Rows: out, RowsAffected: int64(len(out))}, nil
}

// returnsRows reports whether the statement is a query.
func returnsRows(query string) bool {
	head := strings.ToUpper(strings.TrimSpace(query))
	return strings.HasPrefix(head, "SELECT") || strings.HasPrefix(head, "WITH")
}

// scanRows reads every row into an ordered jsonval.Row.
// Returns an empty slice (not nil) when there are no rows.
func scanRows(rows *sql.Rows) ([]jsonval.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := []jsonval.Row{}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(jsonval.Row, len(cols))
		for i, col := range cols {
			v, err := jsonval.FromAny(values[i])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col, err)
			}
			row[i] = jsonval.Field{Key: col, Value: v}
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return out, nil
}
