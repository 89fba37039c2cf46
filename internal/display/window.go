// Package display shows overlays in an OpenCV window and reads key and
// pointer input from it.
package display

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
	"github.com/lehigh-university-libraries/swing-labeler/internal/session"
	"gocv.io/x/gocv"
)

// DefaultPoll is how long, in milliseconds, each WaitKey call blocks before
// the window checks for cancellation.
const DefaultPoll = 30

// Window is both the session's Display and its EventSource. All calls must
// come from the goroutine that created it.
type Window struct {
	win  *gocv.Window
	poll int

	pointer labels.Coordinate
	moved   bool
	queue   []session.Event
}

// Open creates a named window and starts tracking the pointer over it.
func Open(name string, poll int) *Window {
	if poll <= 0 {
		poll = DefaultPoll
	}
	w := &Window{
		win:  gocv.NewWindow(name),
		poll: poll,
	}
	w.win.SetMouseHandler(w.onMouse, nil)
	return w
}

// onMouse runs inside WaitKey; only the latest position is kept.
func (w *Window) onMouse(event int, x int, y int, flags int, userdata interface{}) {
	w.pointer = labels.Coordinate{X: x, Y: y}
	w.moved = true
}

func (w *Window) Show(img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("failed to convert overlay: %w", err)
	}
	defer mat.Close()

	w.win.IMShow(mat)
	return nil
}

// Next waits for the next key press or pointer move. A pointer move seen
// during the same wait as a key press is delivered first. Closing the window
// ends the input with io.EOF.
func (w *Window) Next(ctx context.Context) (session.Event, error) {
	for len(w.queue) == 0 {
		if err := ctx.Err(); err != nil {
			return session.Event{}, err
		}

		key := w.win.WaitKey(w.poll)
		if w.moved {
			w.moved = false
			w.queue = append(w.queue, session.Pointer(w.pointer.X, w.pointer.Y))
		}
		if key >= 0 {
			w.queue = append(w.queue, session.Key(key&0xFF))
		}

		if len(w.queue) == 0 && !w.win.IsOpen() {
			return session.Event{}, io.EOF
		}
	}

	ev := w.queue[0]
	w.queue = w.queue[1:]
	return ev, nil
}

func (w *Window) Close() error {
	return w.win.Close()
}
