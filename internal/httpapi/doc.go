// Package httpapi serves the housing query service over HTTP with gin.
//
// Routes:
//
//	GET    /housing/dot      projection query, native path strategy
//	GET    /housing/jq       projection query, function strategy
//	GET    /housing          list records
//	GET    /housing/id/:id   read one record
//	POST   /housing          create a record
//	POST   /housing/bulk     create records in one transaction
//	PUT    /housing/:id      replace a record
//	DELETE /housing/:id      delete a record
//	GET    /health           store reachability
//	GET    /metrics          Prometheus metrics
package httpapi
