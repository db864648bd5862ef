package database

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the path to the single shared database
func DBPath() string {
	return filepath.Join("data", "contravento.db")
}

// dsn builds the connection string. The foreign_keys pragma rides in
// the DSN because database/sql pools connections: an Exec-ed PRAGMA
// reaches only the one connection that ran it, while a DSN pragma is
// applied to every connection the pool opens.
func dsn(dbPath string) string {
	return "file:" + dbPath + "?_pragma=foreign_keys(1)"
}

// EnsureTripSchema ensures that the trip tables exist.
// Coordinates are nullable on purpose: a NULL column is the stored form
// of "no coordinate data", distinct from any real value including 0.
func EnsureTripSchema(dbPath string) error {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return fmt.Errorf("opening database to ensure schema: %w", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS trips (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS trip_locations (
			id TEXT PRIMARY KEY,
			trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			latitude REAL,
			longitude REAL,
			sequence INTEGER NOT NULL,
			UNIQUE(trip_id, sequence)
		);
		CREATE INDEX IF NOT EXISTS idx_trip_locations_trip ON trip_locations(trip_id);
	`)
	if err != nil {
		return fmt.Errorf("creating trip tables: %w", err)
	}

	return nil
}

// Open opens the database with foreign keys enabled on every pooled
// connection.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}
