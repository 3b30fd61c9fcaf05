package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/twpayne/go-geom"
	"golang.org/x/image/vector"
)

// fillMultiPolygon rasterizes every ring of every polygon into dst with the
// given fill color. Interior rings are handled by the rasterizer's non-zero
// winding rule because GeoJSON stores them wound opposite to their shell.
func fillMultiPolygon(dst *image.RGBA, mp *geom.MultiPolygon, proj *Projection, fill color.Color) {
	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())

	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		for j := 0; j < poly.NumLinearRings(); j++ {
			addRing(r, poly.LinearRing(j), proj)
		}
	}

	r.Draw(dst, b, image.NewUniform(fill), image.Point{})
}

func addRing(r *vector.Rasterizer, ring *geom.LinearRing, proj *Projection) {
	n := ring.NumCoords()
	if n < 3 {
		return
	}
	c := ring.Coord(0)
	x, y := proj.ToPixel(c.X(), c.Y())
	r.MoveTo(float32(x), float32(y))
	for i := 1; i < n; i++ {
		c = ring.Coord(i)
		x, y = proj.ToPixel(c.X(), c.Y())
		r.LineTo(float32(x), float32(y))
	}
	r.ClosePath()
}

// strokeMultiPolygon draws the outline of every ring as stroked segments.
func strokeMultiPolygon(dst *image.RGBA, mp *geom.MultiPolygon, proj *Projection, width float64, c color.Color) {
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		for j := 0; j < poly.NumLinearRings(); j++ {
			strokeRing(dst, poly.LinearRing(j), proj, width, c)
		}
	}
}

func strokeRing(dst *image.RGBA, ring *geom.LinearRing, proj *Projection, width float64, c color.Color) {
	n := ring.NumCoords()
	if n < 2 {
		return
	}
	prev := ring.Coord(0)
	px, py := proj.ToPixel(prev.X(), prev.Y())
	for i := 1; i < n; i++ {
		cur := ring.Coord(i)
		x, y := proj.ToPixel(cur.X(), cur.Y())
		strokeSegment(dst, px, py, x, y, width, c)
		px, py = x, y
	}
}

// strokeSegment fills a quad around the segment with the rasterizer so thin
// borders stay antialiased.
func strokeSegment(dst *image.RGBA, x0, y0, x1, y1, width float64, c color.Color) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Half-width normal.
	nx := -dy / length * width / 2
	ny := dx / length * width / 2

	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.MoveTo(float32(x0+nx), float32(y0+ny))
	r.LineTo(float32(x1+nx), float32(y1+ny))
	r.LineTo(float32(x1-nx), float32(y1-ny))
	r.LineTo(float32(x0-nx), float32(y0-ny))
	r.ClosePath()
	r.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// fillRect paints an axis-aligned rectangle.
func fillRect(dst *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	draw.Draw(dst, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{}, draw.Over)
}
