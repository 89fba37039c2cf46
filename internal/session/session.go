// Package session implements the labelling state machine.
//
// A Session owns the frame list and the label store for its lifetime. Input
// events are applied strictly one at a time: each event may mutate the store
// or move the frame index, after which the overlay for the current frame is
// rendered and handed to the display. The store is written to disk on Quit,
// and otherwise only when autosave is enabled.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/swing-labeler/internal/keymap"
	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
	"github.com/lehigh-university-libraries/swing-labeler/internal/render"
)

// Frames is the ordered frame list a session navigates.
type Frames interface {
	Count() int
	PathAt(i int) string
}

// Display presents rendered overlays.
type Display interface {
	Show(img image.Image) error
}

type Config struct {
	// LabelsPath is where the store is saved on Quit.
	LabelsPath string

	// Keys resolves KeyEvents. Defaults to keymap.Default().
	Keys *keymap.Map

	// Display receives an overlay after every event. Nil disables rendering.
	Display Display

	Logger *slog.Logger

	// Autosave saves the store after this many mutations. Zero disables it.
	Autosave int

	// LoadFrame decodes frame images. Defaults to render.LoadFrame.
	LoadFrame func(path string) (image.Image, error)
}

type Session struct {
	frames Frames
	store  *labels.Store
	cfg    Config
	logger *slog.Logger

	index    int
	selected labels.Feature
	pointer  labels.Coordinate
	pending  labels.SwingPhase
	done     bool
	unsaved  int
}

// New starts a session on the first frame. It fails when there are no frames.
func New(frames Frames, store *labels.Store, cfg Config) (*Session, error) {
	if frames.Count() == 0 {
		return nil, fmt.Errorf("%w: no frames to label", labels.ErrConfig)
	}
	if cfg.Keys == nil {
		cfg.Keys = keymap.Default()
	}
	if cfg.LoadFrame == nil {
		cfg.LoadFrame = render.LoadFrame
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Autosave < 0 {
		cfg.Autosave = 0
	}

	return &Session{
		frames:  frames,
		store:   store,
		cfg:     cfg,
		logger:  logger.With("session", uuid.NewString()),
		pending: labels.Start,
	}, nil
}

func (s *Session) Index() int { return s.index }
func (s *Session) Selected() labels.Feature { return s.selected }
func (s *Session) Pointer() labels.Coordinate { return s.pointer }
func (s *Session) Pending() labels.SwingPhase { return s.pending }
func (s *Session) Done() bool { return s.done }
func (s *Session) Unsaved() int { return s.unsaved }
func (s *Session) Current() string { return s.frames.PathAt(s.index) }

// SetDisplay replaces the display overlays are shown on. Nil disables
// rendering. It is meant to be called before Run.
func (s *Session) SetDisplay(d Display) {
	s.cfg.Display = d
}

// Annotation returns a copy of what is stored for frame i.
func (s *Session) Annotation(i int) labels.FrameAnnotation {
	return s.store.Get(s.frames.PathAt(i))
}

// View is the state the renderer shows for the current frame.
func (s *Session) View() render.View {
	return render.View{
		Index:    s.index,
		Count:    s.frames.Count(),
		Selected: s.selected,
		Pending:  s.pending,
	}
}

// Render draws the overlay for the current frame.
func (s *Session) Render() (*image.RGBA, error) {
	path := s.Current()
	base, err := s.cfg.LoadFrame(path)
	if err != nil {
		return nil, err
	}
	return render.Overlay(base, s.View(), s.store.Get(path)), nil
}

// Run shows the first frame, then applies events from src until Quit.
// If src ends or ctx is cancelled first, edits since the last save are not
// written.
func (s *Session) Run(ctx context.Context, src EventSource) error {
	s.logger.Info("Session started", "frames", s.frames.Count(), "labels", s.cfg.LabelsPath)
	s.show()

	for !s.done {
		ev, err := src.Next(ctx)
		if err != nil {
			if s.unsaved > 0 {
				s.logger.Warn("Input ended without quit, discarding edits", "unsaved", s.unsaved)
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if err := s.Dispatch(ev); err != nil {
			return err
		}
		if !s.done {
			s.show()
		}
	}

	s.logger.Info("Session finished", "frame", s.index)
	return nil
}

func (s *Session) show() {
	if s.cfg.Display == nil {
		return
	}
	img, err := s.Render()
	if err != nil {
		s.logger.Error("Unable to render frame", "frame", s.Current(), "err", err)
		return
	}
	if err := s.cfg.Display.Show(img); err != nil {
		s.logger.Error("Unable to show frame", "frame", s.Current(), "err", err)
	}
}

// Dispatch applies one event. The only error it returns is a failed save on Quit.
func (s *Session) Dispatch(ev Event) error {
	switch ev.Kind {
	case PointerEvent:
		s.pointer = ev.Point
		return nil
	case KeyEvent:
		b, ok := s.cfg.Keys.Lookup(ev.Key)
		if !ok {
			s.logger.Debug("Unrecognized key", "key", ev.Key, "name", keymap.KeyName(ev.Key))
			return nil
		}
		return s.apply(b)
	case CommandEvent:
		if err := ev.Binding.Validate(); err != nil {
			s.logger.Warn("Ignoring invalid command", "command", ev.Binding.String(), "err", err)
			return nil
		}
		return s.apply(ev.Binding)
	default:
		s.logger.Debug("Ignoring unknown event", "event", ev.String())
		return nil
	}
}

func (s *Session) apply(b keymap.Binding) error {
	s.logger.Debug("Applying", "action", b.String(), "frame", s.index)

	switch b.Action {
	case keymap.SelectFeature:
		s.selected = b.Feature
	case keymap.SelectNone:
		s.selected = 0
	case keymap.Commit:
		if s.selected.Valid() {
			s.store.UpsertFeature(s.Current(), s.selected, s.pointer)
			s.mutated()
		}
		s.step(1)
	case keymap.Delete:
		if s.selected.Valid() {
			s.store.RemoveFeature(s.Current(), s.selected)
			s.mutated()
		}
		s.step(-1)
	case keymap.AdvanceSwing:
		s.store.SetSwing(s.Current(), s.pending)
		s.pending = s.pending.Next()
		s.mutated()
	case keymap.MarkOther:
		s.store.SetSwing(s.Current(), labels.Other)
		s.mutated()
	case keymap.NextFrame:
		s.step(1)
	case keymap.PrevFrame:
		s.step(-1)
	case keymap.Quit:
		return s.quit()
	}
	return nil
}

// step moves the index by delta, saturating at both ends.
func (s *Session) step(delta int) {
	s.index = max(0, min(s.index+delta, s.frames.Count()-1))
}

func (s *Session) mutated() {
	s.unsaved++
	if s.cfg.Autosave > 0 && s.unsaved >= s.cfg.Autosave {
		if err := s.save(); err != nil {
			s.logger.Warn("Autosave failed", "err", err)
		}
	}
}

func (s *Session) save() error {
	if err := s.store.SaveFile(s.cfg.LabelsPath); err != nil {
		return fmt.Errorf("failed to save labels: %w", err)
	}
	s.logger.Info("Saved labels", "path", s.cfg.LabelsPath, "frames", s.store.Len())
	s.unsaved = 0
	return nil
}

func (s *Session) quit() error {
	if err := s.save(); err != nil {
		return err
	}
	s.done = true
	return nil
}
