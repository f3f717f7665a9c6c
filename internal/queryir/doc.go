// Package queryir provides the intermediate representation of a housing
// projection query.
//
//	[HTTP / CLI parameters] → [Query IR] → [querysql] → SQL + binds
//
// A Query names the output columns (dotted paths into the stored document),
// at most one Filter, and an optional row limit. Parse builds a Query from
// raw request strings and is the single validation gate: anything that
// reaches querysql has already been checked, so the compiler never sees an
// empty segment, an unsafe identifier or a duplicate output key.
//
// Query values are immutable once built and safe to share between goroutines.
package queryir
