// Package jsonval provides the value model shared by the query pipeline.
//
// Rows read from the record store and rows returned to HTTP callers are both
// expressed in terms of Value, a sealed tagged union:
//
//	Null | String | Number | Bool | Array | Object
//
// Numbers keep their decimal text so that values such as 48001 or 12.5 pass
// through the pipeline without float rounding. This package imports nothing
// internal; every other internal package may import it.
package jsonval
