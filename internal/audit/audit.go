// Package audit cross-checks a label store against the frames on disk.
package audit

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
	"github.com/lehigh-university-libraries/swing-labeler/internal/render"
)

type Kind int

const (
	// Orphan is an entry whose frame is not in the catalog.
	Orphan Kind = iota
	// OutOfBounds is a mark outside the decoded frame.
	OutOfBounds
	// Unreadable is an entry whose frame header could not be decoded.
	Unreadable
)

func (k Kind) String() string {
	switch k {
	case Orphan:
		return "orphan"
	case OutOfBounds:
		return "out-of-bounds"
	case Unreadable:
		return "unreadable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Finding struct {
	Kind    Kind
	Frame   string
	Feature labels.Feature
	At      labels.Coordinate
	Detail  string
}

func (f Finding) String() string {
	switch f.Kind {
	case OutOfBounds:
		return fmt.Sprintf("%s: %s %s at (%d,%d) %s", f.Kind, f.Frame, f.Feature, f.At.X, f.At.Y, f.Detail)
	default:
		return fmt.Sprintf("%s: %s %s", f.Kind, f.Frame, f.Detail)
	}
}

type Catalog interface {
	IndexOf(path string) int
}

// Checker runs the audit. SizeOf defaults to render.FrameSize and Progress,
// when set, is called after each entry with the number checked so far.
type Checker struct {
	SizeOf   func(path string) (image.Point, error)
	Progress func(done, total int)
}

func (c *Checker) Check(store *labels.Store, catalog Catalog) []Finding {
	sizeOf := c.SizeOf
	if sizeOf == nil {
		sizeOf = render.FrameSize
	}

	var findings []Finding
	frames := store.Frames()
	for i, frame := range frames {
		findings = append(findings, checkEntry(store, catalog, sizeOf, frame)...)
		if c.Progress != nil {
			c.Progress(i+1, len(frames))
		}
	}

	slog.Info("Checked labels", "entries", len(frames), "findings", len(findings))
	return findings
}

func checkEntry(store *labels.Store, catalog Catalog, sizeOf func(string) (image.Point, error), frame string) []Finding {
	if catalog.IndexOf(frame) < 0 {
		return []Finding{{Kind: Orphan, Frame: frame, Detail: "not in frame directory"}}
	}

	a := store.Get(frame)
	if len(a.Pose) == 0 {
		return nil
	}

	size, err := sizeOf(frame)
	if err != nil {
		return []Finding{{Kind: Unreadable, Frame: frame, Detail: err.Error()}}
	}
	bounds := image.Rectangle{Max: size}

	var findings []Finding
	for _, f := range labels.Features {
		at, ok := a.Pose[f]
		if !ok {
			continue
		}
		if !image.Pt(at.X, at.Y).In(bounds) {
			findings = append(findings, Finding{
				Kind:    OutOfBounds,
				Frame:   frame,
				Feature: f,
				At:      at,
				Detail:  fmt.Sprintf("outside %dx%d", size.X, size.Y),
			})
		}
	}
	return findings
}
