// Package render rasterizes classified counties into a static choropleth
// image with a bivariate legend.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/choromap/internal/boundary"
	"github.com/sells-group/choromap/internal/classify"
)

// County is one fillable region on the map.
type County struct {
	Boundary boundary.Boundary
	Fill     color.RGBA
}

// MapOptions controls canvas geometry and styling.
type MapOptions struct {
	Title        string
	Width        int
	Ratio        float64 // height = Width * Ratio
	Background   color.Color
	BordersWidth float64
	BordersColor color.Color
	Labels       bool
	Legend       LegendOptions
}

const mapPadding = 0.05

// Map renders the counties onto a new canvas.
func Map(counties []County, pal *classify.Palette, opts MapOptions) (*image.RGBA, error) {
	if len(counties) == 0 {
		return nil, eris.New("render: no counties to draw")
	}
	if opts.Width <= 0 {
		return nil, eris.Errorf("render: invalid width %d", opts.Width)
	}
	if opts.Ratio <= 0 {
		return nil, eris.Errorf("render: invalid ratio %v", opts.Ratio)
	}

	width := opts.Width
	height := int(float64(opts.Width) * opts.Ratio)

	bounds := make([]boundary.Boundary, len(counties))
	for i, c := range counties {
		bounds[i] = c.Boundary
	}
	extent, err := boundary.Extent(bounds)
	if err != nil {
		return nil, eris.Wrap(err, "render: extent")
	}

	proj, err := NewProjection(extent, width, height, mapPadding)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := opts.Background
	if bg == nil {
		bg = color.White
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for _, c := range counties {
		fillMultiPolygon(img, c.Boundary.Geom, proj, c.Fill)
	}

	if opts.BordersWidth > 0 && opts.BordersColor != nil {
		for _, c := range counties {
			strokeMultiPolygon(img, c.Boundary.Geom, proj, opts.BordersWidth, opts.BordersColor)
		}
	}

	textColor := color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	shadow := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	if opts.Labels {
		for _, c := range counties {
			lon, lat, err := c.Boundary.Centroid()
			if err != nil {
				zap.L().Warn("skipping label",
					zap.String("component", "render"),
					zap.String("county", c.Boundary.Name),
					zap.Error(err))
				continue
			}
			x, y := proj.ToPixel(lon, lat)
			drawTextCentered(img, c.Boundary.Name, int(x), int(y), textColor, shadow)
		}
	}

	drawLegend(img, pal, opts.Legend)

	if opts.Title != "" {
		drawTextCentered(img, opts.Title, width/2, labelFace.Height+6, textColor, shadow)
	}

	return img, nil
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "render: create %s", path)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return eris.Wrapf(err, "render: encode %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "render: close %s", path)
	}

	zap.L().Info("wrote map image",
		zap.String("component", "render"),
		zap.String("path", path))
	return nil
}
