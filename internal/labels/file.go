package labels

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FileName is the label file kept inside each frame directory.
const FileName = "labels.json"

// LoadFile reads the store at path. A missing file yields an empty store.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No label file, starting empty", "path", path)
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrIO, path, err)
	}

	store, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	slog.Debug("Loaded label file", "path", path, "frames", store.Len())
	return store, nil
}

// SaveFile writes the store to path through a temp file in the same
// directory and an atomic rename, so a failed save leaves the old file intact.
func (s *Store) SaveFile(path string) error {
	data, err := s.Serialize()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".labels-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", ErrIO, filepath.Base(path), err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrIO, filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: sync %s: %v", ErrIO, filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp %s: %v", ErrIO, filepath.Base(path), err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: chmod %s: %v", ErrIO, filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename %s: %v", ErrIO, filepath.Base(path), err)
	}

	return nil
}
