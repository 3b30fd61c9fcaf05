package render

import (
	"image"
	"image/color"

	"github.com/sells-group/choromap/internal/classify"
)

// LegendOptions positions the bivariate legend on the canvas. Top and Right
// place the top right corner of the square block as fractions of the canvas,
// measured from the bottom left. BoxW is the side of one square as a
// fraction of the canvas width.
type LegendOptions struct {
	Top    float64
	Right  float64
	BoxW   float64
	XLabel string
	YLabel string
}

// Legend renders the legend block onto its own canvas, sized so the square
// block plus labels fit.
func Legend(pal *classify.Palette, xLabel, yLabel string) *image.RGBA {
	const box = 24
	const margin = 20

	k := pal.K
	w := k*box + 2*margin + labelFace.Height
	h := k*box + 2*margin + labelFace.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	drawLegend(img, pal, LegendOptions{
		Top:    1 - float64(margin)/float64(h),
		Right:  float64(w-margin) / float64(w),
		BoxW:   float64(box) / float64(w),
		XLabel: xLabel,
		YLabel: yLabel,
	})
	return img
}

// drawLegend paints the k x k color block plus its axis labels. Square (0, 0)
// sits at the bottom left corner, x grows rightward and y grows upward,
// matching the classification axes.
func drawLegend(dst *image.RGBA, pal *classify.Palette, opts LegendOptions) {
	w := dst.Bounds().Dx()
	h := dst.Bounds().Dy()

	k := pal.K
	box := int(opts.BoxW * float64(w))
	if box < 1 {
		box = 1
	}

	right := int(opts.Right * float64(w))
	top := int((1 - opts.Top) * float64(h))
	left := right - k*box
	bottom := top + k*box

	for yi := 0; yi < k; yi++ {
		for xi := 0; xi < k; xi++ {
			c := pal.Color(classify.Pair{X: xi, Y: yi})
			x0 := left + xi*box
			y0 := bottom - (yi+1)*box
			fillRect(dst, x0, y0, x0+box, y0+box, c)
		}
	}

	text := color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	shadow := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	if opts.XLabel != "" {
		label := opts.XLabel + " ->"
		drawText(dst, label, left, bottom+labelFace.Height+2, text, shadow)
	}
	if opts.YLabel != "" {
		label := opts.YLabel + " ->"
		drawTextRotated(dst, label, left-labelFace.Height-4, bottom, text, shadow)
	}
}
