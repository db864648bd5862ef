package ui

import (
	"github.com/contravento/routemap/internal/models"
	"github.com/contravento/routemap/internal/tiles"
)

// One terminal cell covers a small block of map pixels. Cells are about
// twice as tall as wide, so the vertical step is doubled to keep the
// map aspect roughly correct.
const (
	cellPxX = 2.0
	cellPxY = 4.0
)

// defaultZoom is used when the route has a single mappable stop and
// there is no extent to fit.
const defaultZoom = 12

// fitPaddingCells keeps markers away from the pane edges.
const fitPaddingCells = 2

// Viewport is the map camera: a center coordinate and a slippy-map
// zoom. It survives load failures untouched so a retry resumes exactly
// where the user left the map.
type Viewport struct {
	CenterLat float64
	CenterLon float64
	Zoom      int
}

// FitBounds computes the viewport that shows every given location
// inside a cols x rows pane with padding. Locations without coordinates
// must already be filtered out by the caller.
func FitBounds(locs []models.Location, cols, rows int) Viewport {
	if len(locs) == 0 {
		return Viewport{Zoom: defaultZoom}
	}
	if len(locs) == 1 {
		return Viewport{CenterLat: *locs[0].Latitude, CenterLon: *locs[0].Longitude, Zoom: defaultZoom}
	}

	minLat, maxLat := *locs[0].Latitude, *locs[0].Latitude
	minLon, maxLon := *locs[0].Longitude, *locs[0].Longitude
	for _, l := range locs[1:] {
		if *l.Latitude < minLat {
			minLat = *l.Latitude
		}
		if *l.Latitude > maxLat {
			maxLat = *l.Latitude
		}
		if *l.Longitude < minLon {
			minLon = *l.Longitude
		}
		if *l.Longitude > maxLon {
			maxLon = *l.Longitude
		}
	}

	usableX := float64(max(cols-2*fitPaddingCells, 1)) * cellPxX
	usableY := float64(max(rows-2*fitPaddingCells, 1)) * cellPxY

	// Deepest zoom whose pixel extent of the bounding box still fits
	// the usable pane area.
	zoom := 1
	for z := tiles.MaxZoom; z >= 1; z-- {
		x1, y1 := tiles.PixelForLatLon(maxLat, minLon, z) // top-left
		x2, y2 := tiles.PixelForLatLon(minLat, maxLon, z) // bottom-right
		if x2-x1 <= usableX && y2-y1 <= usableY {
			zoom = z
			break
		}
	}

	// Center on the pixel midpoint rather than the geographic one so
	// the fit is symmetric in mercator space.
	x1, y1 := tiles.PixelForLatLon(maxLat, minLon, zoom)
	x2, y2 := tiles.PixelForLatLon(minLat, maxLon, zoom)
	centerLat, centerLon := tiles.LatLonForPixel((x1+x2)/2, (y1+y2)/2, zoom)

	return Viewport{CenterLat: centerLat, CenterLon: centerLon, Zoom: zoom}
}

// CellForLatLon maps a coordinate to a pane cell under this viewport.
// Cells outside [0,cols) x [0,rows) are off-pane.
func (v Viewport) CellForLatLon(lat, lon float64, cols, rows int) (col, row int) {
	px, py := tiles.PixelForLatLon(lat, lon, v.Zoom)
	cx, cy := tiles.PixelForLatLon(v.CenterLat, v.CenterLon, v.Zoom)
	col = cols/2 + int((px-cx)/cellPxX+signedHalf(px-cx))
	row = rows/2 + int((py-cy)/cellPxY+signedHalf(py-cy))
	return col, row
}

// PixelBounds returns the global-pixel rectangle the pane covers.
func (v Viewport) PixelBounds(cols, rows int) (minX, minY, maxX, maxY float64) {
	cx, cy := tiles.PixelForLatLon(v.CenterLat, v.CenterLon, v.Zoom)
	halfX := float64(cols) / 2 * cellPxX
	halfY := float64(rows) / 2 * cellPxY
	return cx - halfX, cy - halfY, cx + halfX, cy + halfY
}

// GeoBounds returns the lat/lon rectangle the pane covers.
func (v Viewport) GeoBounds(cols, rows int) (minLat, maxLat, minLon, maxLon float64) {
	minX, minY, maxX, maxY := v.PixelBounds(cols, rows)
	maxLat, minLon = tiles.LatLonForPixel(minX, minY, v.Zoom)
	minLat, maxLon = tiles.LatLonForPixel(maxX, maxY, v.Zoom)
	return minLat, maxLat, minLon, maxLon
}

// Pan shifts the center by whole cells.
func (v Viewport) Pan(dCols, dRows int) Viewport {
	cx, cy := tiles.PixelForLatLon(v.CenterLat, v.CenterLon, v.Zoom)
	lat, lon := tiles.LatLonForPixel(cx+float64(dCols)*cellPxX, cy+float64(dRows)*cellPxY, v.Zoom)
	v.CenterLat, v.CenterLon = lat, lon
	return v
}

// ZoomBy changes the zoom level, clamped to the valid range.
func (v Viewport) ZoomBy(delta int) Viewport {
	z := v.Zoom + delta
	if z < 1 {
		z = 1
	}
	if z > tiles.MaxZoom {
		z = tiles.MaxZoom
	}
	v.Zoom = z
	return v
}

func signedHalf(d float64) float64 {
	if d < 0 {
		return -0.5
	}
	return 0.5
}
