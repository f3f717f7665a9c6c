// Package querysql compiles queryir.Query values to parameterized SQLite SQL
// over the housing_json_data table.
//
// Two projection strategies produce equivalent results through different
// SQL idioms:
//
//	NativePathProjection   h.json_data -> 'Dimensions' -> 'Value' AS "Value"
//	FunctionProjection     json_quote(json_extract(h.json_data, '$.Dimensions.Value')) AS "Value"
//
// Both strategies share the filter, ordering and limit clauses:
//
//	WHERE json_extract(h.json_data, '$.Dimensions.Value') = ?   (or LIKE ?)
//	ORDER BY h.id ASC
//	LIMIT ?
//
// Values are never interpolated: the filter value and the limit are always
// bind parameters, and the number of binds equals the number of ? markers.
// Path segments do appear in SQL text; querypath restricts them to
// [A-Za-z0-9_] before they get here.
package querysql
