package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RasterCanvas draws onto an in-memory RGBA image.
type RasterCanvas struct {
	img  *image.RGBA
	face font.Face
}

func NewRasterCanvas(img *image.RGBA) *RasterCanvas {
	return &RasterCanvas{img: img, face: basicfont.Face7x13}
}

func (r *RasterCanvas) Text(s string, at image.Point, c color.RGBA) {
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(at.X, at.Y),
	}
	d.DrawString(s)
}

// FilledCircle paints every pixel within radius of center. Pixels outside
// the image are skipped by SetRGBA.
func (r *RasterCanvas) FilledCircle(center image.Point, radius int, c color.RGBA) {
	rr := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= rr {
				r.img.SetRGBA(center.X+dx, center.Y+dy, c)
			}
		}
	}
}
