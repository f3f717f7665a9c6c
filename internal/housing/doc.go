// Package housing ties the query pipeline to the record store.
//
// A projection query flows through four stages:
//
//	queryir.Parse -> querysql.Compiler.Compile -> store.Execute -> reshape.Rows
//
// The Service owns one Compiler per projection strategy and reports every
// query to an Observer. It also exposes record CRUD and dataset seeding.
package housing
