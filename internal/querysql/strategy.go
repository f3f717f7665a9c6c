package querysql

import (
	"fmt"
	"strings"

	"github.com/theory/jsonpath"
)

// Strategy renders the SELECT list for one projection idiom.
//
// This is a sealed interface; NativePathProjection and FunctionProjection are
// the only implementations.
type Strategy interface {
	// Name is the short name used in routes, flags and metrics.
	Name() string

	// column renders one projected column for the normalized path segments.
	column(doc string, segments []string) string

	// document renders the whole-document projection.
	document(doc string) string

	// check rejects segments the strategy cannot express.
	check(segments []string) error
}

// NativePathProjection navigates the JSON column with chained -> operators,
// one label per path segment. Each step yields JSON text.
type NativePathProjection struct{}

// Name implements Strategy.
func (NativePathProjection) Name() string { return "dot" }

func (NativePathProjection) column(doc string, segments []string) string {
	var b strings.Builder
	b.WriteString(doc)
	for _, seg := range segments {
		b.WriteString(" -> ")
		b.WriteString(quoteLiteral(seg))
	}
	return b.String()
}

func (NativePathProjection) document(doc string) string {
	return fmt.Sprintf("json(%s)", doc)
}

func (NativePathProjection) check([]string) error { return nil }

// FunctionProjection extracts each column with json_extract and a $.-path.
// json_quote turns scalar results back into JSON text so every column is a
// JSON fragment, as with NativePathProjection.
//
// SQLite's json_extract reports JSON booleans as the integers 1 and 0, so a
// top-level boolean comes back as a number under this strategy.
type FunctionProjection struct{}

// Name implements Strategy.
func (FunctionProjection) Name() string { return "jq" }

func (FunctionProjection) column(doc string, segments []string) string {
	return fmt.Sprintf("json_quote(%s)", extract(doc, segments))
}

func (FunctionProjection) document(doc string) string {
	return fmt.Sprintf("json_extract(%s, '$')", doc)
}

// check parses the $.-path as RFC 9535 JSONPath.
func (FunctionProjection) check(segments []string) error {
	raw := jsonPath(segments)
	if _, err := jsonpath.Parse(raw); err != nil {
		return fmt.Errorf("path %q: %w", raw, err)
	}
	return nil
}

// ParseStrategy maps a name to a Strategy.
// Accepted names: dot, native (NativePathProjection); jq, function (FunctionProjection).
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dot", "native":
		return NativePathProjection{}, nil
	case "jq", "function":
		return FunctionProjection{}, nil
	default:
		return nil, fmt.Errorf("unknown projection strategy %q: must be dot or jq", name)
	}
}

// extract renders json_extract(doc, '$.a.b').
func extract(doc string, segments []string) string {
	return fmt.Sprintf("json_extract(%s, %s)", doc, quoteLiteral(jsonPath(segments)))
}

// jsonPath renders segments as a $.-prefixed path.
func jsonPath(segments []string) string {
	return "$." + strings.Join(segments, ".")
}

// quoteLiteral renders s as a SQL string literal.
// Segments are already restricted to [A-Za-z0-9_]; doubling quotes keeps the
// literal well-formed regardless.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteIdent renders s as a double-quoted SQL identifier.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
