package harness

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/theory/jsonpath"

	"github.com/roach88/housingjson/internal/jsonval"
	"github.com/roach88/housingjson/internal/queryir"
	"github.com/roach88/housingjson/internal/querypath"
	"github.com/roach88/housingjson/internal/querysql"
)

// Oracle evaluates projection queries directly over documents, without SQL.
// Paths are resolved with RFC 9535 JSONPath so results are independent of
// the SQLite JSON functions under test.
type Oracle struct {
	Normalizer querypath.Normalizer
}

// Evaluate returns the rows a query over docs must produce. docs are taken
// to be in id order.
func (o Oracle) Evaluate(docs []jsonval.Value, strategy querysql.Strategy, req queryir.Request) ([]jsonval.Value, error) {
	q, err := queryir.Parse(req)
	if err != nil {
		return nil, err
	}

	out := []jsonval.Value{}
	for _, doc := range docs {
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}

		plain := jsonval.ToAny(doc)

		if q.Filter != nil {
			node, found, err := o.selectFirst(plain, q.Filter.Path)
			if err != nil {
				return nil, err
			}
			if !found || !filterMatches(node, *q.Filter) {
				continue
			}
		}

		if q.WholeDocument() {
			out = append(out, doc)
			continue
		}

		row := make(jsonval.Object, len(q.Columns))
		for _, col := range q.Columns {
			v, err := o.project(plain, col.Path, strategy)
			if err != nil {
				return nil, err
			}
			row[col.OutputKey()] = v
		}
		out = append(out, row)
	}
	return out, nil
}

// project resolves one column. Missing paths are null.
func (o Oracle) project(doc any, p querypath.Path, strategy querysql.Strategy) (jsonval.Value, error) {
	node, found, err := o.selectFirst(doc, p)
	if err != nil {
		return nil, err
	}
	if !found {
		return jsonval.Null{}, nil
	}

	// json_extract reports booleans as 1 and 0.
	if b, ok := node.(bool); ok {
		if _, fn := strategy.(querysql.FunctionProjection); fn {
			if b {
				return jsonval.NewInt(1), nil
			}
			return jsonval.NewInt(0), nil
		}
	}

	return jsonval.FromAny(node)
}

// selectFirst returns the first node the normalized path selects.
func (o Oracle) selectFirst(doc any, p querypath.Path) (any, bool, error) {
	expr := o.expression(p)
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, false, fmt.Errorf("invalid JSONPath %s: %w", expr, err)
	}

	nodes := path.Select(doc)
	if len(nodes) == 0 {
		return nil, false, nil
	}
	return nodes[0], true, nil
}

// expression renders p in bracket notation, which accepts any segment.
func (o Oracle) expression(p querypath.Path) string {
	var b strings.Builder
	b.WriteString("$")
	for _, seg := range p.Segments() {
		fmt.Fprintf(&b, "['%s']", o.Normalizer.Segment(seg))
	}
	return b.String()
}

// filterMatches applies SQLite comparison rules to the extracted node.
// Equality compares text only: an extracted number never equals a text bind.
// LIKE compares the text rendering of the node.
func filterMatches(node any, f queryir.Filter) bool {
	if f.Mode == queryir.MatchEquals {
		s, ok := node.(string)
		return ok && s == f.Value
	}

	text, ok := sqlText(node)
	if !ok {
		return false
	}
	return likePattern(f.Value).MatchString(text)
}

// sqlText renders a node the way SQLite renders json_extract's result as text.
func sqlText(node any) (string, bool) {
	switch v := node.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}

// likePattern compiles a LIKE pattern: % matches any run, _ any one
// character. Like SQLite's built-in LIKE, only ASCII letters match
// case-insensitively; other characters must match exactly.
func likePattern(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?s)^")
	for _, r := range pattern {
		switch {
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteString(".")
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
			lower := r | 0x20
			fmt.Fprintf(&b, "[%c%c]", lower, lower-0x20)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}
