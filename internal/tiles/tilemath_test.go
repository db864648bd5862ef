package tiles

import (
	"math"
	"testing"
)

func TestPixelForLatLon_KnownPoints(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		zoom     int
		wantX    float64
		wantY    float64
	}{
		{"origin at zoom 0", 0, 0, 0, 128, 128},
		{"west edge", 0, -180, 0, 0, 128},
		{"origin at zoom 1", 0, 0, 1, 256, 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := PixelForLatLon(tt.lat, tt.lon, tt.zoom)
			if math.Abs(x-tt.wantX) > 0.001 || math.Abs(y-tt.wantY) > 0.001 {
				t.Errorf("PixelForLatLon(%v, %v, %d) = (%v, %v), want (%v, %v)",
					tt.lat, tt.lon, tt.zoom, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPixelLatLon_RoundTrip(t *testing.T) {
	points := []struct{ lat, lon float64 }{
		{40.416775, -3.70379},  // Madrid
		{-33.86882, 151.20929}, // Sydney
		{64.146667, -21.9425},  // Reykjavík
	}

	for _, p := range points {
		for _, zoom := range []int{3, 10, 16} {
			x, y := PixelForLatLon(p.lat, p.lon, zoom)
			lat, lon := LatLonForPixel(x, y, zoom)
			if math.Abs(lat-p.lat) > 1e-6 || math.Abs(lon-p.lon) > 1e-6 {
				t.Errorf("round trip at zoom %d: (%v, %v) -> (%v, %v)", zoom, p.lat, p.lon, lat, lon)
			}
		}
	}
}

func TestPixelForLatLon_ClampsPolarLatitudes(t *testing.T) {
	_, yTop := PixelForLatLon(89.9, 0, 5)
	_, yClamp := PixelForLatLon(maxMercatorLat, 0, 5)
	if yTop != yClamp {
		t.Errorf("latitude beyond mercator limit should clamp: %v != %v", yTop, yClamp)
	}
}

func TestTileForPixel(t *testing.T) {
	tests := []struct {
		x, y  float64
		zoom  int
		wantX int
		wantY int
	}{
		{0, 0, 2, 0, 0},
		{255.9, 255.9, 2, 0, 0},
		{256, 256, 2, 1, 1},
		{1023.9, 1023.9, 2, 3, 3},
		{-10, 5000, 2, 0, 3}, // out of range clamps
	}

	for _, tt := range tests {
		got := TileForPixel(tt.x, tt.y, tt.zoom)
		if got.X != tt.wantX || got.Y != tt.wantY {
			t.Errorf("TileForPixel(%v, %v, %d) = (%d, %d), want (%d, %d)",
				tt.x, tt.y, tt.zoom, got.X, got.Y, tt.wantX, tt.wantY)
		}
	}
}
