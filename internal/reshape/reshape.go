// Package reshape turns raw record-store rows into the rows returned to callers.
//
// Store columns hold JSON fragments as text: a projected string arrives with
// its quotes, as `"Apartment"`. Each text value is decoded back
// into structured JSON; text that is not valid JSON is kept as it is. Column
// aliases are mapped back to the output keys the caller asked for.
package reshape

import (
	"github.com/roach88/housingjson/internal/jsonval"
	"github.com/roach88/housingjson/internal/queryir"
	"github.com/roach88/housingjson/internal/querypath"
)

// Rows reshapes raw rows for the given columns.
//
// With no columns (whole-document queries) each row is replaced by its single
// decoded document. Otherwise each row becomes an Object keyed by output key.
// Aliases are matched case-insensitively; keys that match no column are kept
// under their store name. Row order is preserved.
func Rows(raw []jsonval.Row, columns []queryir.Column) []jsonval.Value {
	out := make([]jsonval.Value, len(raw))

	if len(columns) == 0 {
		for i, row := range raw {
			out[i] = document(row)
		}
		return out
	}

	keys := make(map[string]string, len(columns))
	for _, col := range columns {
		keys[querypath.FoldKey(col.OutputKey())] = col.OutputKey()
	}

	for i, row := range raw {
		obj := make(jsonval.Object, len(row))
		for _, f := range row {
			key, ok := keys[querypath.FoldKey(f.Key)]
			if !ok {
				key = f.Key
			}
			obj[key] = Decode(f.Value)
		}
		out[i] = obj
	}
	return out
}

// document unwraps a whole-document row.
func document(row jsonval.Row) jsonval.Value {
	if len(row) == 0 {
		return jsonval.Null{}
	}
	return Decode(row[0].Value)
}

// Decode parses a text value as JSON.
//
// Non-text values are returned unchanged. Text that fails to parse is kept,
// except that a surrounding pair of double quotes is removed.
func Decode(v jsonval.Value) jsonval.Value {
	if v == nil {
		return jsonval.Null{}
	}

	s, ok := v.(jsonval.String)
	if !ok {
		return v
	}

	if parsed, err := jsonval.Parse([]byte(s)); err == nil {
		return parsed
	}

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
