package session

import (
	"context"
	"fmt"

	"github.com/lehigh-university-libraries/swing-labeler/internal/keymap"
	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
)

type EventKind uint8

const (
	// KeyEvent carries a raw key code, resolved through the session's key map.
	KeyEvent EventKind = iota + 1
	// PointerEvent carries the pointer position in image pixels.
	PointerEvent
	// CommandEvent carries an already resolved binding.
	CommandEvent
)

// Event is one unit of input.
type Event struct {
	Kind    EventKind
	Key     int
	Point   labels.Coordinate
	Binding keymap.Binding
}

func Key(code int) Event {
	return Event{Kind: KeyEvent, Key: code}
}

func Pointer(x, y int) Event {
	return Event{Kind: PointerEvent, Point: labels.Coordinate{X: x, Y: y}}
}

func Command(b keymap.Binding) Event {
	return Event{Kind: CommandEvent, Binding: b}
}

func (e Event) String() string {
	switch e.Kind {
	case KeyEvent:
		return "key " + keymap.KeyName(e.Key)
	case PointerEvent:
		return fmt.Sprintf("pointer %d %d", e.Point.X, e.Point.Y)
	case CommandEvent:
		return e.Binding.String()
	default:
		return fmt.Sprintf("Event(%d)", e.Kind)
	}
}

// EventSource yields input events one at a time. Next blocks until an event
// is available; it returns io.EOF when the input is exhausted.
type EventSource interface {
	Next(ctx context.Context) (Event, error)
}
