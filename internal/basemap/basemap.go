// Package basemap provides an offline coastline backdrop for the route
// map, provisioned once from the Natural Earth coastline shapefile into
// SQLite.
package basemap

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// Point is one coastline vertex.
type Point struct {
	Lat float64
	Lon float64
}

// Segment is a contiguous coastline polyline.
type Segment struct {
	Points []Point
}

// SegmentsInBounds returns coastline segments whose bounding box
// intersects the given viewport rectangle. Returns nothing (and no
// error) when the coastline table was never provisioned; the backdrop
// is optional.
func SegmentsInBounds(dbPath string, minLat, maxLat, minLon, maxLon float64) ([]Segment, error) {
	needed, err := NeedsProvisioning(dbPath)
	if err != nil {
		return nil, err
	}
	if needed {
		return nil, nil
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT points FROM coastline_segments
		WHERE bbox_max_lat >= ? AND bbox_min_lat <= ?
		  AND bbox_max_lon >= ? AND bbox_min_lon <= ?
	`, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, fmt.Errorf("querying segments: %w", err)
	}
	defer rows.Close()

	var segments []Segment
	for rows.Next() {
		var pointsJSON string
		if err := rows.Scan(&pointsJSON); err != nil {
			return nil, fmt.Errorf("scanning segment: %w", err)
		}

		var coords [][]float64
		if err := json.Unmarshal([]byte(pointsJSON), &coords); err != nil {
			continue // Skip malformed rows
		}

		seg := Segment{Points: make([]Point, 0, len(coords))}
		for _, c := range coords {
			if len(c) != 2 {
				continue
			}
			seg.Points = append(seg.Points, Point{Lat: c[0], Lon: c[1]})
		}
		if len(seg.Points) >= 2 {
			segments = append(segments, seg)
		}
	}
	return segments, rows.Err()
}
