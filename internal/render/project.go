package render

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/choromap/internal/boundary"
)

// Projection maps lon/lat coordinates onto canvas pixels. It is an
// equirectangular projection with the longitude axis scaled by the cosine of
// the extent's mid latitude, fitted and centered inside the canvas with
// uniform padding.
type Projection struct {
	bbox    boundary.BBox
	cosLat  float64
	scale   float64 // pixels per projected degree
	offsetX float64
	offsetY float64
}

// NewProjection fits the extent into a width x height canvas. The pad is a
// fraction of the canvas reserved on each side.
func NewProjection(bbox boundary.BBox, width, height int, pad float64) (*Projection, error) {
	if width <= 0 || height <= 0 {
		return nil, eris.Errorf("render: invalid canvas %dx%d", width, height)
	}
	if bbox.Width() <= 0 || bbox.Height() <= 0 {
		return nil, eris.New("render: degenerate extent")
	}
	if pad < 0 || pad >= 0.5 {
		return nil, eris.Errorf("render: pad %v out of range", pad)
	}

	cosLat := math.Cos(bbox.MidLat() * math.Pi / 180)
	projW := bbox.Width() * cosLat
	projH := bbox.Height()

	availW := float64(width) * (1 - 2*pad)
	availH := float64(height) * (1 - 2*pad)

	scale := availW / projW
	if s := availH / projH; s < scale {
		scale = s
	}

	// Center the extent.
	offsetX := (float64(width) - projW*scale) / 2
	offsetY := (float64(height) - projH*scale) / 2

	return &Projection{
		bbox:    bbox,
		cosLat:  cosLat,
		scale:   scale,
		offsetX: offsetX,
		offsetY: offsetY,
	}, nil
}

// ToPixel converts a lon/lat coordinate to canvas pixels. Latitude grows
// north while pixel y grows down, so the y axis is flipped.
func (p *Projection) ToPixel(lon, lat float64) (x, y float64) {
	x = p.offsetX + (lon-p.bbox.MinLon)*p.cosLat*p.scale
	y = p.offsetY + (p.bbox.MaxLat-lat)*p.scale
	return x, y
}
