// Package render draws the labelling overlay for a frame.
//
// Draw is a pure function of its inputs: it reads the view and annotation and
// emits primitives onto a Canvas. Overlay applies it to a copy of the frame
// image, so the same inputs always produce the same pixels.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
)

// Canvas is the drawing capability the overlay needs.
type Canvas interface {
	// Text draws s with its baseline starting at at.
	Text(s string, at image.Point, c color.RGBA)
	FilledCircle(center image.Point, radius int, c color.RGBA)
}

// View is the session state shown on screen.
type View struct {
	Index    int
	Count    int
	Selected labels.Feature // zero when nothing is selected
	Pending  labels.SwingPhase
}

const (
	markerRadius = 5
	labelOffset  = 7
)

var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	// NoneColor is used for the selection line when no feature is selected.
	NoneColor = color.RGBA{R: 123, G: 37, B: 180, A: 255}

	featureColors = map[labels.Feature]color.RGBA{
		labels.Head:          {R: 0, G: 255, B: 0, A: 255},
		labels.Hips:          {R: 0, G: 0, B: 255, A: 255},
		labels.Hands:         {R: 255, G: 0, B: 0, A: 255},
		labels.LeftShoulder:  {R: 120, G: 0, B: 120, A: 255},
		labels.RightShoulder: {R: 120, G: 120, B: 0, A: 255},
	}
)

// FeatureColor returns the fixed marker color of f.
func FeatureColor(f labels.Feature) color.RGBA {
	if c, ok := featureColors[f]; ok {
		return c
	}
	return NoneColor
}

// SelectionText is the label shown for the selected feature.
func SelectionText(f labels.Feature) string {
	if !f.Valid() {
		return "<None>"
	}
	return f.String()
}

// PositionText is the frame counter.
func PositionText(v View) string {
	return fmt.Sprintf("%d / %d", v.Index, v.Count)
}

// SwingText shows the stored phase followed by the pending cursor.
func SwingText(stored, pending labels.SwingPhase) string {
	return fmt.Sprintf("%s (%s)", stored, pending)
}

// Draw emits the overlay for one frame onto c.
func Draw(c Canvas, v View, ann labels.FrameAnnotation) {
	c.Text(SelectionText(v.Selected), image.Pt(10, 30), FeatureColor(v.Selected))
	c.Text(PositionText(v), image.Pt(10, 60), White)
	c.Text(SwingText(ann.Swing, v.Pending), image.Pt(10, 90), White)

	// Fixed feature order keeps overlapping markers stacked the same way every time.
	for _, f := range labels.Features {
		pt, ok := ann.Pose[f]
		if !ok {
			continue
		}
		col := FeatureColor(f)
		c.FilledCircle(image.Pt(pt.X, pt.Y), markerRadius, col)
		c.Text(f.String(), image.Pt(pt.X+labelOffset, pt.Y+labelOffset), col)
	}
}

// Overlay copies base and draws the overlay on the copy. base is not modified.
func Overlay(base image.Image, v View, ann labels.FrameAnnotation) *image.RGBA {
	b := base.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, base, b.Min, draw.Src)
	Draw(NewRasterCanvas(dst), v, ann)
	return dst
}

// LoadFrame decodes the image at path. The file is closed before returning.
func LoadFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open frame %s: %v", labels.ErrIO, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %s: %w", path, err)
	}
	return img, nil
}

// FrameSize reads only the header of the image at path.
func FrameSize(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, fmt.Errorf("%w: failed to open frame %s: %v", labels.ErrIO, path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Point{}, fmt.Errorf("failed to decode frame header %s: %w", path, err)
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}
