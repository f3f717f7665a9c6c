package querypath

import "golang.org/x/text/cases"

// FoldKey returns the case-folded form of a column key.
// Stores differ in how they case unquoted aliases (Oracle upper-cases them,
// SQLite keeps them), so aliases are compared in folded form.
func FoldKey(s string) string {
	// A Caser is stateful; build one per call.
	return cases.Fold().String(s)
}
