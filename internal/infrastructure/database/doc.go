// Package database provides SQLite connectivity for Hearth Core.
//
// It wraps database/sql with lifecycle management, health checks, and
// embedded schema migrations.
//
// # Usage
//
//	db, err := database.Open(ctx, database.Config{
//	    Path:        cfg.Database.Path,
//	    WALMode:     true,
//	    BusyTimeout: 5,
//	})
//	if err != nil { ... }
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil { ... }
//
// # Migrations
//
// Migration files are embedded into the binary by the top-level migrations
// package. Files are named YYYYMMDD_HHMMSS_description.up.sql and applied
// in version order, each in its own transaction.
//
// # Concurrency
//
// SQLite allows a single writer. The connection pool is limited to one
// connection; write serialisation across owners is handled by the owner
// registry, not this package.
package database
