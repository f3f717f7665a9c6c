package queryir

import (
	"fmt"

	"github.com/roach88/housingjson/internal/querypath"
)

// MatchMode selects the comparison used by a Filter.
type MatchMode int

const (
	// MatchEquals compares for exact equality.
	MatchEquals MatchMode = iota

	// MatchPattern compares with SQL LIKE; the caller supplies % and _ wildcards.
	MatchPattern
)

// String returns a readable name of the mode.
func (m MatchMode) String() string {
	switch m {
	case MatchEquals:
		return "equals"
	case MatchPattern:
		return "pattern"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// Column is one requested output column.
type Column struct {
	Path querypath.Path
}

// OutputKey is the response field name: the last raw path segment.
func (c Column) OutputKey() string {
	return c.Path.OutputKey()
}

// Filter restricts rows to documents whose value at Path matches Value.
// Value is always passed to the store as a bind parameter.
type Filter struct {
	Path  querypath.Path
	Value string
	Mode  MatchMode
}

// Query is a projection over stored housing documents.
//
// Semantics:
//
//	SELECT <columns | whole document> FROM housing_json_data
//	[WHERE <filter>] ORDER BY id [LIMIT <limit>]
//
// An empty Columns slice selects the whole document.
type Query struct {
	Columns []Column
	Filter  *Filter // nil = no filter
	Limit   int     // 0 = no limit
}

// WholeDocument reports whether the query selects entire documents.
func (q Query) WholeDocument() bool {
	return len(q.Columns) == 0
}

// Request carries the raw, unvalidated parameters of a query, as received
// from HTTP query strings or CLI flags.
type Request struct {
	// Select lists dotted paths. Entries are trimmed; see Parse.
	Select []string

	// Where and Value must both be non-empty to produce a filter.
	Where string
	Value string

	// Pattern selects MatchPattern instead of MatchEquals.
	Pattern bool

	// Limit caps the number of rows; 0 means unlimited.
	Limit int
}
