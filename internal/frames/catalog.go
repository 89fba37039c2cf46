// Package frames enumerates the frame images of one directory.
package frames

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
)

// Pattern selects frame images inside a directory.
const Pattern = "*.jpg"

// Catalog is the ordered list of frame images found directly inside a directory.
// Names are sorted lexicographically and never parsed.
type Catalog struct {
	dir   string
	paths []string
}

// Open lists the frames of dir. An empty catalog is returned without error.
func Open(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: frame directory not found: %s", labels.ErrConfig, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to stat %s: %v", labels.ErrIO, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", labels.ErrConfig, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list %s: %v", labels.ErrIO, dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		// ReadDir names carry no separators, so Match only fails on a bad pattern.
		if ok, _ := filepath.Match(Pattern, e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}

	slog.Info("Opened frame catalog", "dir", dir, "frames", len(paths))

	return &Catalog{dir: dir, paths: paths}, nil
}

// Dir returns the directory the catalog was opened on.
func (c *Catalog) Dir() string {
	return c.dir
}

func (c *Catalog) Count() int {
	return len(c.paths)
}

// PathAt returns the path of frame i. It panics when i is out of range.
func (c *Catalog) PathAt(i int) string {
	return c.paths[i]
}

// Paths returns a copy of all frame paths in order.
func (c *Catalog) Paths() []string {
	return append([]string(nil), c.paths...)
}

// IndexOf returns the position of path in the catalog, or -1.
func (c *Catalog) IndexOf(path string) int {
	i := sort.SearchStrings(c.paths, path)
	if i < len(c.paths) && c.paths[i] == path {
		return i
	}
	return -1
}

// LabelsPath returns where the label file for this catalog lives.
func (c *Catalog) LabelsPath() string {
	return filepath.Join(c.dir, labels.FileName)
}
