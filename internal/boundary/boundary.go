// Package boundary loads county boundary geometries from GeoJSON and
// shapefile sources into a uniform multipolygon representation.
package boundary

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Boundary is one county's geometry. Name is the join key against the
// indicator dataset.
type Boundary struct {
	Name string
	Geom *geom.MultiPolygon
}

// Centroid returns the area centroid of the boundary, used for label
// placement.
func (b Boundary) Centroid() (lon, lat float64, err error) {
	c, err := xy.Centroid(b.Geom)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "boundary: centroid of %s", b.Name)
	}
	return c[0], c[1], nil
}

// BBox is a geographic bounding box in lon/lat degrees.
type BBox struct {
	MinLon, MinLat float64
	MaxLon, MaxLat float64
}

// Width returns the longitudinal extent.
func (b BBox) Width() float64 { return b.MaxLon - b.MinLon }

// Height returns the latitudinal extent.
func (b BBox) Height() float64 { return b.MaxLat - b.MinLat }

// MidLat returns the central latitude, used for projection scaling.
func (b BBox) MidLat() float64 { return (b.MinLat + b.MaxLat) / 2 }

// Extent computes the bounding box of a set of boundaries.
func Extent(bounds []Boundary) (BBox, error) {
	if len(bounds) == 0 {
		return BBox{}, eris.New("boundary: cannot compute extent of zero boundaries")
	}

	box := BBox{
		MinLon: math.Inf(1), MinLat: math.Inf(1),
		MaxLon: math.Inf(-1), MaxLat: math.Inf(-1),
	}
	for _, b := range bounds {
		flat := b.Geom.FlatCoords()
		stride := b.Geom.Stride()
		for i := 0; i+1 < len(flat); i += stride {
			box.MinLon = math.Min(box.MinLon, flat[i])
			box.MaxLon = math.Max(box.MaxLon, flat[i])
			box.MinLat = math.Min(box.MinLat, flat[i+1])
			box.MaxLat = math.Max(box.MaxLat, flat[i+1])
		}
	}
	return box, nil
}

// asMultiPolygon promotes a Polygon to a single-member MultiPolygon so every
// boundary carries the same geometry type.
func asMultiPolygon(g geom.T) (*geom.MultiPolygon, error) {
	switch t := g.(type) {
	case *geom.MultiPolygon:
		return t, nil
	case *geom.Polygon:
		mp := geom.NewMultiPolygon(t.Layout())
		if err := mp.Push(t); err != nil {
			return nil, eris.Wrap(err, "boundary: promote polygon")
		}
		return mp, nil
	default:
		return nil, eris.Errorf("boundary: unsupported geometry type %T", g)
	}
}
