package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var labelFace = basicfont.Face7x13

// textWidth returns the pixel width of s in the label face.
func textWidth(s string) int {
	d := font.Drawer{Face: labelFace}
	return d.MeasureString(s).Ceil()
}

// drawText renders s with its baseline at (x, y), with a one pixel offset
// shadow so labels stay legible over both light and dark county fills.
func drawText(dst *image.RGBA, s string, x, y int, c, shadow color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(shadow),
		Face: labelFace,
		Dot:  fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)},
	}
	d.DrawString(s)

	d.Src = image.NewUniform(c)
	d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	d.DrawString(s)
}

// drawTextCentered renders s horizontally centered on x with its baseline
// at y.
func drawTextCentered(dst *image.RGBA, s string, x, y int, c, shadow color.Color) {
	drawText(dst, s, x-textWidth(s)/2, y, c, shadow)
}

// drawTextRotated renders s rotated 90 degrees counterclockwise, reading
// bottom to top, with the bottom of the text at (x, y). It draws into a
// scratch image and transposes the pixels because the bitmap face cannot be
// rotated directly.
func drawTextRotated(dst *image.RGBA, s string, x, y int, c, shadow color.Color) {
	w := textWidth(s) + 2
	h := labelFace.Height + 2
	scratch := image.NewRGBA(image.Rect(0, 0, w, h))
	drawText(scratch, s, 0, labelFace.Ascent, c, shadow)

	for sy := 0; sy < h; sy++ {
		for sx := 0; sx < w; sx++ {
			px := scratch.RGBAAt(sx, sy)
			if px.A == 0 {
				continue
			}
			// (sx, sy) -> (x + sy, y - sx)
			tx, ty := x+sy, y-sx
			if image.Pt(tx, ty).In(dst.Bounds()) {
				dst.SetRGBA(tx, ty, px)
			}
		}
	}
}
