package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
)

// DirSink saves every overlay it is shown as a numbered PNG.
type DirSink struct {
	dir string
	n   int
}

func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create overlay directory: %v", labels.ErrIO, err)
	}
	return &DirSink{dir: dir}, nil
}

func (d *DirSink) Show(img image.Image) error {
	path := filepath.Join(d.dir, fmt.Sprintf("overlay_%06d.png", d.n))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", labels.ErrIO, path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	d.n++
	return nil
}

// Count returns how many overlays have been written.
func (d *DirSink) Count() int {
	return d.n
}
