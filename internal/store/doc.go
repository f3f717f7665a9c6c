// Package store provides SQLite-backed storage for housing JSON documents.
//
// Every record is one row of housing_json_data:
//
//	id         INTEGER PRIMARY KEY AUTOINCREMENT
//	json_data  TEXT NOT NULL, CHECK (json_valid(json_data))
//
// Queries compiled by querysql run through Execute, which returns rows as
// ordered jsonval.Row values. CRUD helpers cover the record lifecycle.
//
// # Drivers
//
//   - "sqlite3": github.com/mattn/go-sqlite3 (cgo, default)
//   - "sqlite":  modernc.org/sqlite (pure Go)
//
// Both bundle SQLite with the JSON functions and the -> operator.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// The Store owns its *sql.DB pool for its whole lifetime; open it once at
// process start and Close it at shutdown.
package store
