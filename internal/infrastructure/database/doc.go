// Package database provides SQLite connectivity for the run store.
//
// This package manages:
//   - Opening the database file with WAL mode and a busy timeout
//   - Forward-only schema migrations with checksum verification
//   - A trivial health check used by the HTTP API
//
// Solved cycle runs are written by cycle.SQLiteRepository, which takes the
// embedded *sql.DB. The schema lives in the top-level migrations package,
// which registers its files in MigrationsFS on import.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if _, err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.sql and run once
// each, in their own transaction. Editing an applied file makes Migrate
// fail with ErrMigrationChanged; schema changes go in a new file.
package database
