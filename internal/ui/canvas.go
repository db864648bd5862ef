package ui

import (
	"strconv"
	"strings"

	"github.com/contravento/routemap/internal/basemap"
	"github.com/contravento/routemap/internal/models"
	"github.com/contravento/routemap/internal/tiles"
)

// Cell layers, lowest to highest. A higher layer always overwrites a
// lower one; within a layer later draws win.
type cellLayer int

const (
	layerBackdrop cellLayer = iota
	layerCoast
	layerRoute
	layerMarker
	layerSelected
)

// mapCanvas rasterizes one frame of the map pane.
type mapCanvas struct {
	cols, rows int
	runes      []rune
	layers     []cellLayer
}

func newMapCanvas(cols, rows int) *mapCanvas {
	c := &mapCanvas{
		cols:   cols,
		rows:   rows,
		runes:  make([]rune, cols*rows),
		layers: make([]cellLayer, cols*rows),
	}
	for i := range c.runes {
		c.runes[i] = ' '
	}
	return c
}

func (c *mapCanvas) set(col, row int, r rune, layer cellLayer) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	i := row*c.cols + col
	if layer < c.layers[i] {
		return
	}
	c.runes[i] = r
	c.layers[i] = layer
}

// drawBackdrop shades each cell from the tile mosaic. OSM tiles are a
// light base with dark features, so feature density is inverted luma.
func (c *mapCanvas) drawBackdrop(vp Viewport, mosaic *tiles.Mosaic) {
	if mosaic == nil {
		return
	}
	minX, minY, _, _ := vp.PixelBounds(c.cols, c.rows)
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			px := minX + (float64(col)+0.5)*cellPxX
			py := minY + (float64(row)+0.5)*cellPxY
			lum, ok := mosaic.Luminance(px, py)
			if !ok {
				continue
			}
			density := 1 - lum
			var r rune
			switch {
			case density < 0.15:
				r = ' '
			case density < 0.35:
				r = '░'
			case density < 0.6:
				r = '▒'
			default:
				r = '▓'
			}
			c.set(col, row, r, layerBackdrop)
		}
	}
}

// drawCoastline traces provisioned coastline segments over the backdrop.
func (c *mapCanvas) drawCoastline(vp Viewport, segments []basemap.Segment) {
	for _, seg := range segments {
		for i := 1; i < len(seg.Points); i++ {
			a, b := seg.Points[i-1], seg.Points[i]
			c1, r1 := vp.CellForLatLon(a.Lat, a.Lon, c.cols, c.rows)
			c2, r2 := vp.CellForLatLon(b.Lat, b.Lon, c.cols, c.rows)
			c.line(c1, r1, c2, r2, '·', layerCoast)
		}
	}
}

// drawRoute draws the connecting polyline and the numbered markers for
// the mappable locations, in order. Marker numbers are 1-based ranks in
// this filtered list. selected highlights one marker (-1 for none).
func (c *mapCanvas) drawRoute(vp Viewport, mappable []models.Location, selected int) {
	type cell struct{ col, row int }
	cells := make([]cell, len(mappable))
	for i, loc := range mappable {
		col, row := vp.CellForLatLon(*loc.Latitude, *loc.Longitude, c.cols, c.rows)
		cells[i] = cell{col, row}
	}

	for i := 1; i < len(cells); i++ {
		c.line(cells[i-1].col, cells[i-1].row, cells[i].col, cells[i].row, '•', layerRoute)
	}

	for i, pos := range cells {
		layer := layerMarker
		if i == selected {
			layer = layerSelected
		}
		label := strconv.Itoa(i + 1)
		for j, r := range label {
			c.set(pos.col+j, pos.row, r, layer)
		}
	}
}

// line draws a straight cell run between two points (Bresenham).
func (c *mapCanvas) line(x0, y0, x1, y1 int, r rune, layer cellLayer) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.set(x0, y0, r, layer)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// render materializes the canvas into a styled string, one style run
// per layer change.
func (c *mapCanvas) render() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		col := 0
		for col < c.cols {
			i := row*c.cols + col
			layer := c.layers[i]
			start := col
			for col < c.cols && c.layers[row*c.cols+col] == layer {
				col++
			}
			b.WriteString(layerStyle(layer).Render(string(c.runes[row*c.cols+start : row*c.cols+col])))
		}
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
