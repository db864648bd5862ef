package basemap

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jonas-p/go-shp"
	_ "modernc.org/sqlite"
)

const (
	// Natural Earth 1:110m coastline shapefile (public domain)
	coastlineURL  = "https://naturalearth.s3.amazonaws.com/110m_physical/ne_110m_coastline.zip"
	shapefileBase = "ne_110m_coastline"
)

// NeedsProvisioning reports whether the coastline table is missing.
func NeedsProvisioning(dbPath string) (bool, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return true, nil
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return false, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='coastline_segments'").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking for coastline_segments table: %w", err)
	}
	return count == 0, nil
}

// ProvisionDatabase downloads the Natural Earth coastline shapefile and
// loads its polylines into the coastline_segments table. No-op when the
// table already exists.
func ProvisionDatabase(dbPath string) error {
	needed, err := NeedsProvisioning(dbPath)
	if err != nil {
		return err
	}
	if !needed {
		return nil
	}

	log.Println("Coastline table not found, provisioning...")

	dataDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	zipPath := filepath.Join(dataDir, shapefileBase+".zip")
	log.Printf("Downloading Natural Earth coastline from %s...", coastlineURL)
	if err := downloadFile(zipPath, coastlineURL); err != nil {
		return fmt.Errorf("downloading shapefile: %w", err)
	}
	defer os.Remove(zipPath)

	log.Println("Extracting shapefile...")
	if err := unzipFile(zipPath, dataDir); err != nil {
		return fmt.Errorf("extracting shapefile: %w", err)
	}

	shapefilePath := filepath.Join(dataDir, shapefileBase+".shp")
	log.Println("Building coastline database...")
	if err := buildDatabase(shapefilePath, dbPath); err != nil {
		return fmt.Errorf("building database: %w", err)
	}

	cleanupShapefiles(dataDir, shapefileBase)

	log.Printf("Successfully provisioned coastline database at %s", dbPath)
	return nil
}

// downloadFile downloads a file from a URL to a local path
func downloadFile(filepath string, url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	out, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

// unzipFile extracts a zip file to a destination directory
func unzipFile(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		fpath := filepath.Join(dest, f.Name)

		// Check for ZipSlip
		if !filepath.HasPrefix(fpath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal file path: %s", fpath)
		}

		if f.FileInfo().IsDir() {
			os.MkdirAll(fpath, os.ModePerm)
			continue
		}

		if err = os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
			return err
		}

		outFile, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			outFile.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()

		if err != nil {
			return err
		}
	}
	return nil
}

// buildDatabase loads coastline polylines from the shapefile into the
// coastline_segments table. Each segment row stores its point run as
// JSON plus a bounding box for cheap viewport filtering.
func buildDatabase(shapefilePath, dbPath string) error {
	shape, err := shp.Open(shapefilePath)
	if err != nil {
		return fmt.Errorf("opening shapefile: %w", err)
	}
	defer shape.Close()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE coastline_segments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			points TEXT NOT NULL,
			bbox_min_lat REAL NOT NULL,
			bbox_max_lat REAL NOT NULL,
			bbox_min_lon REAL NOT NULL,
			bbox_max_lon REAL NOT NULL
		);

		CREATE INDEX idx_coastline_bbox ON coastline_segments(
			bbox_min_lat, bbox_max_lat, bbox_min_lon, bbox_max_lon
		);
	`)
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	count := 0
	for shape.Next() {
		_, p := shape.Shape()

		polyline, ok := p.(*shp.PolyLine)
		if !ok {
			continue
		}

		bbox := polyline.BBox()

		// Store each part as its own segment so draws never connect
		// across part boundaries.
		for partIdx := 0; partIdx < len(polyline.Parts); partIdx++ {
			startIdx := int(polyline.Parts[partIdx])
			endIdx := len(polyline.Points)
			if partIdx+1 < len(polyline.Parts) {
				endIdx = int(polyline.Parts[partIdx+1])
			}

			coords := make([][]float64, 0, endIdx-startIdx)
			for i := startIdx; i < endIdx; i++ {
				point := polyline.Points[i]
				coords = append(coords, []float64{point.Y, point.X}) // lat, lon
			}
			if len(coords) < 2 {
				continue
			}

			pointsJSON, err := json.Marshal(coords)
			if err != nil {
				log.Printf("Error marshaling coastline segment: %v", err)
				continue
			}

			_, err = db.Exec(`
				INSERT INTO coastline_segments (
					points, bbox_min_lat, bbox_max_lat, bbox_min_lon, bbox_max_lon
				) VALUES (?, ?, ?, ?, ?)
			`, string(pointsJSON), bbox.MinY, bbox.MaxY, bbox.MinX, bbox.MaxX)
			if err != nil {
				return fmt.Errorf("inserting segment: %w", err)
			}
			count++
		}
	}

	log.Printf("Loaded %d coastline segments", count)
	return nil
}

// cleanupShapefiles removes the extracted shapefile components
func cleanupShapefiles(dir, base string) {
	for _, ext := range []string{".shp", ".shx", ".dbf", ".prj", ".cpg", ".README.html", ".VERSION.txt"} {
		os.Remove(filepath.Join(dir, base+ext))
	}
}
