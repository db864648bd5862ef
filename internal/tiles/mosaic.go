package tiles

import (
	"context"
	"fmt"
	"image"
)

// maxRegionTiles caps how many tiles a single region fetch may cover.
// A terminal map pane spans well under one tile in most cases; hitting
// the cap means the zoom is far too shallow for the pane.
const maxRegionTiles = 16

// Mosaic is a set of adjacent tiles assembled into one samplable
// surface addressed in global pixel coordinates.
type Mosaic struct {
	Zoom         int
	minTX, minTY int
	cols, rows   int
	images       []image.Image
}

// FetchRegion fetches all tiles covering the global-pixel rectangle
// [minX,maxX]x[minY,maxY] at the given zoom. Any single tile failure
// fails the whole region; the caller treats that as a map load failure.
func FetchRegion(ctx context.Context, c Client, zoom int, minX, minY, maxX, maxY float64) (*Mosaic, error) {
	minTile := TileForPixel(minX, minY, zoom)
	maxTile := TileForPixel(maxX, maxY, zoom)

	cols := maxTile.X - minTile.X + 1
	rows := maxTile.Y - minTile.Y + 1
	if cols*rows > maxRegionTiles {
		return nil, fmt.Errorf("region needs %d tiles, limit is %d", cols*rows, maxRegionTiles)
	}

	m := &Mosaic{
		Zoom:   zoom,
		minTX:  minTile.X,
		minTY:  minTile.Y,
		cols:   cols,
		rows:   rows,
		images: make([]image.Image, cols*rows),
	}

	for ty := minTile.Y; ty <= maxTile.Y; ty++ {
		for tx := minTile.X; tx <= maxTile.X; tx++ {
			img, err := c.FetchTile(ctx, Tile{Zoom: zoom, X: tx, Y: ty})
			if err != nil {
				return nil, err
			}
			m.images[(ty-minTile.Y)*cols+(tx-minTile.X)] = img
		}
	}
	return m, nil
}

// Luminance samples the mosaic at a global pixel and returns perceived
// brightness in [0,1]. ok is false outside the fetched region.
func (m *Mosaic) Luminance(x, y float64) (float64, bool) {
	tx := int(x) / TileSize
	ty := int(y) / TileSize
	if tx < m.minTX || tx >= m.minTX+m.cols || ty < m.minTY || ty >= m.minTY+m.rows {
		return 0, false
	}

	img := m.images[(ty-m.minTY)*m.cols+(tx-m.minTX)]
	if img == nil {
		return 0, false
	}

	bounds := img.Bounds()
	px := bounds.Min.X + int(x)%TileSize
	py := bounds.Min.Y + int(y)%TileSize
	r, g, b, _ := img.At(px, py).RGBA()

	// Rec. 709 luma, scaled from the 16-bit color channels.
	lum := (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 65535
	return lum, true
}
