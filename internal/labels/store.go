package labels

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"
)

// Store maps frame paths to their annotations. Frames without an entry
// implicitly carry NewFrameAnnotation(); entries are created on first mutation.
type Store struct {
	entries map[string]*FrameAnnotation
}

// Empty returns a store with no entries.
func Empty() *Store {
	return &Store{
		entries: make(map[string]*FrameAnnotation),
	}
}

// Get returns a copy of the annotation stored for frame, or the default
// annotation when there is none. It never creates an entry.
func (s *Store) Get(frame string) FrameAnnotation {
	a, exists := s.entries[frame]
	if !exists {
		return NewFrameAnnotation()
	}
	return a.Clone()
}

// Has reports whether frame has a materialized entry.
func (s *Store) Has(frame string) bool {
	_, exists := s.entries[frame]
	return exists
}

// Len returns the number of materialized entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Frames returns the keys of all materialized entries in lexicographic order.
func (s *Store) Frames() []string {
	frames := make([]string, 0, len(s.entries))
	for k := range s.entries {
		frames = append(frames, k)
	}
	sort.Strings(frames)
	return frames
}

func (s *Store) entry(frame string) *FrameAnnotation {
	a, exists := s.entries[frame]
	if !exists {
		def := NewFrameAnnotation()
		a = &def
		s.entries[frame] = a
	}
	return a
}

// UpsertFeature sets the coordinate of feature on frame, replacing any previous mark.
func (s *Store) UpsertFeature(frame string, feature Feature, c Coordinate) {
	s.entry(frame).Pose[feature] = c
}

// RemoveFeature deletes the mark for feature on frame. Missing entries and
// unset features are left alone; an emptied pose map is kept.
func (s *Store) RemoveFeature(frame string, feature Feature) {
	a, exists := s.entries[frame]
	if !exists {
		return
	}
	delete(a.Pose, feature)
}

// SetSwing records the swing phase of frame.
func (s *Store) SetSwing(frame string, phase SwingPhase) {
	s.entry(frame).Swing = phase
}

// Equal reports whether both stores hold the same entries.
func (s *Store) Equal(other *Store) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for frame, a := range s.entries {
		b, exists := other.entries[frame]
		if !exists || !a.Equal(*b) {
			return false
		}
	}
	return true
}

type wireAnnotation struct {
	Pose  map[string]wireCoordinate `json:"pose"`
	Swing *string                   `json:"swing"`
}

type wireCoordinate struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type outAnnotation struct {
	Pose  map[string]Coordinate `json:"pose"`
	Swing string                `json:"swing"`
}

// Serialize renders the store as indented JSON. Map keys are sorted by
// encoding/json, so the output is deterministic. Frame paths must be valid
// UTF-8; anything else would not survive the round trip.
func (s *Store) Serialize() ([]byte, error) {
	out := make(map[string]outAnnotation, len(s.entries))
	for frame, a := range s.entries {
		if !utf8.ValidString(frame) {
			return nil, fmt.Errorf("%w: frame path %q is not valid UTF-8", ErrSchema, frame)
		}
		pose := make(map[string]Coordinate, len(a.Pose))
		for f, c := range a.Pose {
			pose[f.String()] = c
		}
		out[frame] = outAnnotation{Pose: pose, Swing: a.Swing.String()}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(out); err != nil {
		return nil, fmt.Errorf("failed to encode labels: %w", err)
	}
	return buf.Bytes(), nil
}

// Load parses serialized labels. The whole document is validated before a
// store is returned; nothing is partially applied on error.
func Load(text []byte) (*Store, error) {
	if !json.Valid(text) {
		var v any
		err := json.Unmarshal(text, &v)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if err := rejectDuplicateKeys(json.NewDecoder(bytes.NewReader(text))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	dec := json.NewDecoder(bytes.NewReader(text))
	dec.DisallowUnknownFields()

	var raw map[string]*wireAnnotation
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: top level must be an object", ErrSchema)
	}

	store := Empty()
	for frame, w := range raw {
		a, err := w.annotation()
		if err != nil {
			return nil, fmt.Errorf("frame %q: %w", frame, err)
		}
		store.entries[frame] = a
	}

	return store, nil
}

// rejectDuplicateKeys walks one JSON value and fails on any object that
// repeats a key. encoding/json would otherwise keep the last one.
func rejectDuplicateKeys(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		seen := make(map[string]bool)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := tok.(string)
			if seen[key] {
				return fmt.Errorf("duplicate key %q", key)
			}
			seen[key] = true
			if err := rejectDuplicateKeys(dec); err != nil {
				return err
			}
		}
	case '[':
		for dec.More() {
			if err := rejectDuplicateKeys(dec); err != nil {
				return err
			}
		}
	}

	// closing delimiter
	_, err = dec.Token()
	return err
}

func (w *wireAnnotation) annotation() (*FrameAnnotation, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: annotation must be an object", ErrSchema)
	}
	if w.Pose == nil {
		return nil, fmt.Errorf("%w: missing pose", ErrSchema)
	}
	if w.Swing == nil {
		return nil, fmt.Errorf("%w: missing swing", ErrSchema)
	}

	swing, err := ParseSwingPhase(*w.Swing)
	if err != nil {
		return nil, err
	}

	a := &FrameAnnotation{
		Pose:  make(map[Feature]Coordinate, len(w.Pose)),
		Swing: swing,
	}
	for name, c := range w.Pose {
		f, err := ParseFeature(name)
		if err != nil {
			return nil, err
		}
		if c.X == nil || c.Y == nil {
			return nil, fmt.Errorf("%w: %s coordinate needs x and y", ErrSchema, name)
		}
		a.Pose[f] = Coordinate{X: *c.X, Y: *c.Y}
	}

	return a, nil
}
