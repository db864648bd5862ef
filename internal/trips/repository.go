// Package trips persists trips and their ordered location routes, and
// re-validates every location at the storage boundary. The REST layer
// that fronts this in production is a separate service; everything that
// must hold before a row is written holds here.
package trips

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/contravento/routemap/internal/database"
	"github.com/contravento/routemap/internal/models"
	_ "modernc.org/sqlite"
)

// Repository handles persistence for trips and their locations.
type Repository struct {
	dbPath string
}

// NewRepository creates a repository backed by the sqlite file at dbPath.
func NewRepository(dbPath string) *Repository {
	return &Repository{dbPath: dbPath}
}

// SaveTrip writes a trip and its full location list in one transaction.
// Locations are replaced wholesale: they have no lifecycle outside a
// trip write, so the stored route always mirrors the submitted one.
func (r *Repository) SaveTrip(trip *models.Trip) error {
	if err := database.EnsureTripSchema(r.dbPath); err != nil {
		return err
	}

	db, err := database.Open(r.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now()
	}

	_, err = tx.Exec(`
		INSERT INTO trips (id, title, description, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description
	`, trip.ID, trip.Title, trip.Description, trip.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving trip: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM trip_locations WHERE trip_id = ?", trip.ID); err != nil {
		return fmt.Errorf("clearing locations: %w", err)
	}

	for _, loc := range trip.Locations {
		var lat, lon interface{}
		if loc.Latitude != nil {
			lat = *loc.Latitude
		}
		if loc.Longitude != nil {
			lon = *loc.Longitude
		}
		_, err := tx.Exec(`
			INSERT INTO trip_locations (id, trip_id, name, latitude, longitude, sequence)
			VALUES (?, ?, ?, ?, ?, ?)
		`, loc.ID, trip.ID, loc.Name, lat, lon, loc.Sequence)
		if err != nil {
			return fmt.Errorf("saving location %q: %w", loc.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing trip: %w", err)
	}
	return nil
}

// GetTrip loads a trip with its locations in sequence order.
func (r *Repository) GetTrip(id string) (*models.Trip, error) {
	if err := database.EnsureTripSchema(r.dbPath); err != nil {
		return nil, err
	}

	db, err := database.Open(r.dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var trip models.Trip
	var description sql.NullString
	err = db.QueryRow("SELECT id, title, description, created_at FROM trips WHERE id = ?", id).
		Scan(&trip.ID, &trip.Title, &description, &trip.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trip not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying trip: %w", err)
	}
	trip.Description = description.String

	rows, err := db.Query(`
		SELECT id, name, latitude, longitude, sequence
		FROM trip_locations WHERE trip_id = ? ORDER BY sequence
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var loc models.Location
		var lat, lon sql.NullFloat64

		if err := rows.Scan(&loc.ID, &loc.Name, &lat, &lon, &loc.Sequence); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		if lat.Valid {
			v := lat.Float64
			loc.Latitude = &v
		}
		if lon.Valid {
			v := lon.Float64
			loc.Longitude = &v
		}
		trip.Locations = append(trip.Locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading locations: %w", err)
	}

	return &trip, nil
}

// ListTrips retrieves all trips without their locations, newest first.
func (r *Repository) ListTrips() ([]models.Trip, error) {
	if err := database.EnsureTripSchema(r.dbPath); err != nil {
		return nil, err
	}

	db, err := database.Open(r.dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query("SELECT id, title, description, created_at FROM trips ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var t models.Trip
		var description sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}
		t.Description = description.String
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// DeleteTrip removes a trip; its locations go with it (cascade).
func (r *Repository) DeleteTrip(id string) error {
	if err := database.EnsureTripSchema(r.dbPath); err != nil {
		return err
	}

	db, err := database.Open(r.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec("DELETE FROM trips WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	return nil
}
