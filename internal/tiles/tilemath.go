// Package tiles fetches slippy-map tiles and provides the Web Mercator
// math to move between coordinates, global pixels and tile indices.
package tiles

import "math"

// TileSize is the edge length of a slippy-map tile in pixels.
const TileSize = 256

// MaxZoom is the deepest zoom level supported by common tile servers.
const MaxZoom = 19

// Web Mercator cuts off near the poles; latitudes beyond this render at
// the map edge.
const maxMercatorLat = 85.05112878

// Tile identifies one slippy-map tile.
type Tile struct {
	Zoom int
	X    int
	Y    int
}

// worldSize returns the map edge length in pixels at the given zoom.
func worldSize(zoom int) float64 {
	return TileSize * math.Exp2(float64(zoom))
}

// PixelForLatLon projects a coordinate to global pixel space at the
// given zoom (origin top-left, x east, y south).
func PixelForLatLon(lat, lon float64, zoom int) (x, y float64) {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	size := worldSize(zoom)

	x = (lon + 180) / 360 * size

	latRad := lat * math.Pi / 180
	y = (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * size
	return x, y
}

// LatLonForPixel is the inverse of PixelForLatLon.
func LatLonForPixel(x, y float64, zoom int) (lat, lon float64) {
	size := worldSize(zoom)

	lon = x/size*360 - 180

	n := math.Pi - 2*math.Pi*y/size
	lat = 180 / math.Pi * math.Atan(math.Sinh(n))
	return lat, lon
}

// TileForPixel returns the tile containing a global pixel, clamped to
// the valid tile range at that zoom.
func TileForPixel(x, y float64, zoom int) Tile {
	max := int(math.Exp2(float64(zoom))) - 1
	tx := clampInt(int(math.Floor(x/TileSize)), 0, max)
	ty := clampInt(int(math.Floor(y/TileSize)), 0, max)
	return Tile{Zoom: zoom, X: tx, Y: ty}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
