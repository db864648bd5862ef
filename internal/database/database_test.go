package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestEnsureTripSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	if err := EnsureTripSchema(dbPath); err != nil {
		t.Fatalf("EnsureTripSchema: %v", err)
	}
	// Safe to call twice.
	if err := EnsureTripSchema(dbPath); err != nil {
		t.Fatalf("second EnsureTripSchema: %v", err)
	}

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"trips", "trip_locations"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s missing", table)
		}
	}
}

func TestTripSchema_NullCoordinates(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := EnsureTripSchema(dbPath); err != nil {
		t.Fatalf("EnsureTripSchema: %v", err)
	}

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("INSERT INTO trips (id, title) VALUES ('t1', 'Ruta')"); err != nil {
		t.Fatalf("inserting trip: %v", err)
	}
	_, err = db.Exec(`
		INSERT INTO trip_locations (id, trip_id, name, latitude, longitude, sequence)
		VALUES ('l1', 't1', 'Toledo', NULL, NULL, 0)
	`)
	if err != nil {
		t.Fatalf("inserting location: %v", err)
	}

	var lat, lon sql.NullFloat64
	err = db.QueryRow("SELECT latitude, longitude FROM trip_locations WHERE id = 'l1'").Scan(&lat, &lon)
	if err != nil {
		t.Fatalf("reading location: %v", err)
	}
	if lat.Valid || lon.Valid {
		t.Errorf("NULL coordinates must stay NULL, got %+v/%+v", lat, lon)
	}
}

func TestTripSchema_CascadeDelete(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := EnsureTripSchema(dbPath); err != nil {
		t.Fatalf("EnsureTripSchema: %v", err)
	}

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("INSERT INTO trips (id, title) VALUES ('t1', 'Ruta')"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO trip_locations (id, trip_id, name, sequence) VALUES ('l1', 't1', 'Madrid', 0)"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("DELETE FROM trips WHERE id = 't1'"); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM trip_locations").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("locations after trip delete = %d, want 0 (cascade)", count)
	}
}

func TestTripSchema_ForeignKeysOnEveryConnection(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := EnsureTripSchema(dbPath); err != nil {
		t.Fatalf("EnsureTripSchema: %v", err)
	}

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(2)

	ctx := context.Background()

	// Pin one connection so the delete below is forced onto a second,
	// freshly opened one. The pragma must hold there too; a per-Exec
	// PRAGMA would only have reached the first connection.
	first, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("first connection: %v", err)
	}
	defer first.Close()

	if _, err := first.ExecContext(ctx, "INSERT INTO trips (id, title) VALUES ('t1', 'Ruta')"); err != nil {
		t.Fatal(err)
	}
	if _, err := first.ExecContext(ctx, "INSERT INTO trip_locations (id, trip_id, name, sequence) VALUES ('l1', 't1', 'Madrid', 0)"); err != nil {
		t.Fatal(err)
	}

	second, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("second connection: %v", err)
	}
	defer second.Close()

	if _, err := second.ExecContext(ctx, "DELETE FROM trips WHERE id = 't1'"); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := second.QueryRowContext(ctx, "SELECT COUNT(*) FROM trip_locations").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("locations after delete on a second connection = %d, want 0 (cascade)", count)
	}
}
