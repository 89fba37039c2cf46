package audit

import (
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
)

type fakeCatalog []string

func (c fakeCatalog) IndexOf(path string) int {
	for i, p := range c {
		if p == path {
			return i
		}
	}
	return -1
}

func fixedSize(w, h int) func(string) (image.Point, error) {
	return func(string) (image.Point, error) {
		return image.Pt(w, h), nil
	}
}

func TestCheck(t *testing.T) {
	store := labels.Empty()
	store.UpsertFeature("f/0.jpg", labels.Head, labels.Coordinate{X: 10, Y: 10})
	store.UpsertFeature("f/0.jpg", labels.Hips, labels.Coordinate{X: 100, Y: 10})
	store.UpsertFeature("f/0.jpg", labels.Hands, labels.Coordinate{X: -1, Y: 5})
	store.SetSwing("f/1.jpg", labels.Back)
	store.UpsertFeature("gone.jpg", labels.Head, labels.Coordinate{X: 1, Y: 1})

	var calls []int
	c := &Checker{
		SizeOf:   fixedSize(100, 50),
		Progress: func(done, total int) { calls = append(calls, done*10+total) },
	}
	findings := c.Check(store, fakeCatalog{"f/0.jpg", "f/1.jpg"})

	if len(findings) != 3 {
		t.Fatalf("Expected 3 findings, got %d: %v", len(findings), findings)
	}

	// Findings follow frame order, then feature order.
	if findings[0].Kind != OutOfBounds || findings[0].Feature != labels.Hips {
		t.Errorf("Expected Hips out of bounds first, got %s", findings[0])
	}
	if findings[1].Kind != OutOfBounds || findings[1].Feature != labels.Hands {
		t.Errorf("Expected Hands out of bounds second, got %s", findings[1])
	}
	if findings[2].Kind != Orphan || findings[2].Frame != "gone.jpg" {
		t.Errorf("Expected orphan gone.jpg last, got %s", findings[2])
	}

	if len(calls) != 3 || calls[2] != 33 {
		t.Errorf("Expected progress 1..3 of 3, got %v", calls)
	}
}

func TestCheckUnreadable(t *testing.T) {
	store := labels.Empty()
	store.UpsertFeature("f/0.jpg", labels.Head, labels.Coordinate{X: 1, Y: 1})

	c := &Checker{SizeOf: func(string) (image.Point, error) {
		return image.Point{}, errors.New("bad header")
	}}
	findings := c.Check(store, fakeCatalog{"f/0.jpg"})
	if len(findings) != 1 || findings[0].Kind != Unreadable {
		t.Fatalf("Expected one unreadable finding, got %v", findings)
	}
	if !strings.Contains(findings[0].String(), "bad header") {
		t.Errorf("Expected detail in %q", findings[0].String())
	}
}

func TestCheckDecodesFrames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img_000000.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create frame: %v", err)
	}
	if err := jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 30)), nil); err != nil {
		t.Fatalf("Failed to encode frame: %v", err)
	}
	f.Close()

	store := labels.Empty()
	store.UpsertFeature(path, labels.Head, labels.Coordinate{X: 39, Y: 29})
	store.UpsertFeature(path, labels.Hips, labels.Coordinate{X: 40, Y: 0})

	findings := (&Checker{}).Check(store, fakeCatalog{path})
	if len(findings) != 1 || findings[0].Feature != labels.Hips {
		t.Errorf("Expected only Hips out of bounds, got %v", findings)
	}
}

func TestKindString(t *testing.T) {
	if Orphan.String() != "orphan" || OutOfBounds.String() != "out-of-bounds" || Unreadable.String() != "unreadable" {
		t.Error("Unexpected kind names")
	}
}
