package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/swing-labeler/internal/frames"
	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
)

// openWorkspace opens the frame catalog in dir and the labels.json next to it.
// A directory without frames is an error.
func openWorkspace(dir string) (*frames.Catalog, *labels.Store, error) {
	if dir == "" {
		return nil, nil, fmt.Errorf("--directory is required")
	}

	catalog, err := frames.Open(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open frames: %w", err)
	}
	if catalog.Count() == 0 {
		return nil, nil, fmt.Errorf("%w: no %s frames in %s", labels.ErrConfig, frames.Pattern, dir)
	}

	store, err := labels.LoadFile(catalog.LabelsPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load labels: %w", err)
	}
	slog.Info("Loaded labels", "path", catalog.LabelsPath(), "entries", store.Len())

	return catalog, store, nil
}
