// Package script replays labelling input from a YAML file, so a session can
// run without a window.
//
//	events:
//	  - select Head
//	  - pointer 10 20
//	  - commit
//	  - key j
//	  - quit
//
// Besides the action names of the key map, a step may be "pointer X Y" or
// "key K" where K is anything keymap.ParseKey accepts.
package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/swing-labeler/internal/keymap"
	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
	"github.com/lehigh-university-libraries/swing-labeler/internal/session"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a script.
type File struct {
	Events []string `yaml:"events"`
}

// Source yields the events of a parsed script in order, then io.EOF.
type Source struct {
	events []session.Event
	pos    int
}

// Parse reads a script. Every step is validated before anything is returned.
func Parse(data []byte) (*Source, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: failed to parse script: %v", labels.ErrConfig, err)
	}

	events := make([]session.Event, 0, len(f.Events))
	for i, step := range f.Events {
		ev, err := ParseEvent(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		events = append(events, ev)
	}

	return &Source{events: events}, nil
}

// Load reads the script at path.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read script %s: %v", labels.ErrConfig, path, err)
	}
	return Parse(data)
}

// ParseEvent turns one script step into an event.
func ParseEvent(step string) (session.Event, error) {
	fields := strings.Fields(step)
	if len(fields) == 0 {
		return session.Event{}, fmt.Errorf("%w: empty step", labels.ErrConfig)
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "pointer":
		if len(args) != 2 {
			return session.Event{}, fmt.Errorf("%w: pointer needs x and y", labels.ErrConfig)
		}
		x, errX := strconv.Atoi(args[0])
		y, errY := strconv.Atoi(args[1])
		if errX != nil || errY != nil {
			return session.Event{}, fmt.Errorf("%w: bad pointer %q", labels.ErrConfig, step)
		}
		return session.Pointer(x, y), nil

	case "key":
		if len(args) != 1 {
			return session.Event{}, fmt.Errorf("%w: key needs one argument", labels.ErrConfig)
		}
		code, err := keymap.ParseKey(args[0])
		if err != nil {
			return session.Event{}, err
		}
		return session.Key(code), nil
	}

	action, err := keymap.ParseAction(name)
	if err != nil {
		return session.Event{}, err
	}
	b := keymap.Binding{Action: action}
	switch {
	case action == keymap.SelectFeature && len(args) == 1:
		f, err := labels.ParseFeature(args[0])
		if err != nil {
			return session.Event{}, fmt.Errorf("%w: %v", labels.ErrConfig, err)
		}
		b.Feature = f
	case len(args) != 0:
		return session.Event{}, fmt.Errorf("%w: unexpected arguments in %q", labels.ErrConfig, step)
	}

	if err := b.Validate(); err != nil {
		return session.Event{}, err
	}
	return session.Command(b), nil
}

func (s *Source) Next(ctx context.Context) (session.Event, error) {
	if err := ctx.Err(); err != nil {
		return session.Event{}, err
	}
	if s.pos >= len(s.events) {
		return session.Event{}, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// Len returns the number of events in the script.
func (s *Source) Len() int {
	return len(s.events)
}

// Remaining returns how many events have not been read yet.
func (s *Source) Remaining() int {
	return len(s.events) - s.pos
}
