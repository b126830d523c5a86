// Package database provides SQLite persistence for accountd.
//
// It wraps database/sql with connection setup (WAL mode, busy timeout,
// foreign keys), embedded schema migrations, and health checks.
//
// SQLite is opened with a single-connection pool: SQLite supports one
// writer at a time, and a pool of one serialises writes without lock
// errors while WAL mode keeps reads concurrent.
//
// Migrations are embedded into the binary by the top-level migrations
// package and applied on startup:
//
//	db, err := database.Open(database.Config{Path: "./data/accountd.db"})
//	if err != nil { ... }
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil { ... }
package database
