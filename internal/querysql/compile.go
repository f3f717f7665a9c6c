package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/housingjson/internal/queryir"
	"github.com/roach88/housingjson/internal/querypath"
)

// Table layout of the record store.
const (
	Table          = "housing_json_data"
	TableAlias     = "h"
	DocumentColumn = "json_data"

	// DocumentAlias names the single column of a whole-document query.
	DocumentAlias = "JSON_DATA"
)

// CompiledQuery is a SQL statement and its ordered bind values.
// It is consumed once by the record store and never modified.
type CompiledQuery struct {
	SQL   string
	Binds []any
}

// Compiler compiles queryir.Query values to SQL for one Strategy.
// A Compiler holds no mutable state and is safe for concurrent use.
type Compiler struct {
	strategy   Strategy
	normalizer querypath.Normalizer
}

// NewCompiler creates a Compiler. A nil strategy selects NativePathProjection.
func NewCompiler(strategy Strategy, normalizer querypath.Normalizer) *Compiler {
	if strategy == nil {
		strategy = NativePathProjection{}
	}
	return &Compiler{strategy: strategy, normalizer: normalizer}
}

// Strategy returns the projection strategy.
func (c *Compiler) Strategy() Strategy {
	return c.strategy
}

// Compile converts q to parameterized SQL.
//
// The query is validated first; a *queryir.ValidationError is returned for
// malformed input and no SQL is produced. Every statement orders by id so
// results are deterministic.
func (c *Compiler) Compile(q queryir.Query) (CompiledQuery, error) {
	if err := queryir.Validate(q); err != nil {
		return CompiledQuery{}, err
	}
	if err := c.check(q); err != nil {
		return CompiledQuery{}, err
	}

	doc := TableAlias + "." + DocumentColumn

	var sb strings.Builder
	var binds []any

	sb.WriteString("SELECT ")
	sb.WriteString(c.compileProjection(doc, q))
	sb.WriteString(" FROM ")
	sb.WriteString(Table)
	sb.WriteString(" ")
	sb.WriteString(TableAlias)

	if q.Filter != nil {
		where, params := c.compileFilter(doc, *q.Filter)
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
		binds = append(binds, params...)
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(TableAlias)
	sb.WriteString(".id ASC")

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		binds = append(binds, int64(q.Limit))
	}

	return CompiledQuery{SQL: sb.String(), Binds: binds}, nil
}

// compileProjection renders the SELECT list.
// Columns keep request order; each is aliased to its normalized output key.
func (c *Compiler) compileProjection(doc string, q queryir.Query) string {
	if q.WholeDocument() {
		return c.strategy.document(doc) + " AS " + quoteIdent(DocumentAlias)
	}

	parts := make([]string, len(q.Columns))
	for i, col := range q.Columns {
		expr := c.strategy.column(doc, c.segments(col.Path))
		parts[i] = fmt.Sprintf("%s AS %s", expr, quoteIdent(c.normalizer.OutputAlias(col.Path)))
	}
	return strings.Join(parts, ", ")
}

// compileFilter renders the WHERE predicate.
// The value is NEVER interpolated - always a ? placeholder.
func (c *Compiler) compileFilter(doc string, f queryir.Filter) (string, []any) {
	op := "="
	if f.Mode == queryir.MatchPattern {
		op = "LIKE"
	}
	sql := fmt.Sprintf("%s %s ?", extract(doc, c.segments(f.Path)), op)
	return sql, []any{f.Value}
}

// check runs the strategy's own path checks over every column and the filter.
func (c *Compiler) check(q queryir.Query) error {
	var problems []string
	for _, col := range q.Columns {
		if err := c.strategy.check(c.segments(col.Path)); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if q.Filter != nil {
		if err := c.strategy.check(c.segments(q.Filter.Path)); err != nil {
			problems = append(problems, "filter: "+err.Error())
		}
	}
	if len(problems) > 0 {
		return &queryir.ValidationError{Problems: problems}
	}
	return nil
}

func (c *Compiler) segments(p querypath.Path) []string {
	segs := p.Segments()
	for i, s := range segs {
		segs[i] = c.normalizer.Segment(s)
	}
	return segs
}

// Aliases returns the SQL column alias for every output key of q, in column
// order. For whole-document queries it returns DocumentAlias.
func (c *Compiler) Aliases(q queryir.Query) []string {
	if q.WholeDocument() {
		return []string{DocumentAlias}
	}
	out := make([]string, len(q.Columns))
	for i, col := range q.Columns {
		out[i] = c.normalizer.OutputAlias(col.Path)
	}
	return out
}
