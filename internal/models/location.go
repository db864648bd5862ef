package models

import "time"

// Location represents one stop along a trip route.
// Coordinates are optional: a stop entered as "Toledo" with no GPS data
// is valid, it just never appears on the map.
type Location struct {
	ID        string   `json:"id"`        // Opaque identifier, assigned at creation
	Name      string   `json:"name"`      // Human-readable label (e.g. "Madrid")
	Sequence  int      `json:"sequence"`  // 0-based position within the trip route
	Latitude  *float64 `json:"latitude"`  // Decimal degrees [-90, 90], nil = no data
	Longitude *float64 `json:"longitude"` // Decimal degrees [-180, 180], nil = no data
}

// Mappable reports whether the location has both coordinates and can be
// placed on a map.
func (l Location) Mappable() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Trip is a cycling trip with an ordered route of locations.
type Trip struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Locations   []Location `json:"locations"` // Ordered by Sequence
	CreatedAt   time.Time  `json:"created_at"`
}

// MappableLocations returns the subset of locations with both
// coordinates set, preserving sequence order. Marker numbers on the map
// are 1-based ranks within this subset, not the original sequence.
func (t Trip) MappableLocations() []Location {
	var out []Location
	for _, l := range t.Locations {
		if l.Mappable() {
			out = append(out, l)
		}
	}
	return out
}
