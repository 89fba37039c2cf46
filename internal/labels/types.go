package labels

import (
	"fmt"
	"maps"
)

// Feature identifies a pose landmark that can be marked on a frame.
// The zero value means "no feature" and is never stored.
type Feature uint8

const (
	Head Feature = iota + 1
	Hips
	Hands
	LeftShoulder
	RightShoulder
)

// Features lists every valid Feature in display order.
var Features = []Feature{Head, Hips, Hands, LeftShoulder, RightShoulder}

var featureNames = map[Feature]string{
	Head:          "Head",
	Hips:          "Hips",
	Hands:         "Hands",
	LeftShoulder:  "LeftShoulder",
	RightShoulder: "RightShoulder",
}

func (f Feature) Valid() bool {
	_, ok := featureNames[f]
	return ok
}

func (f Feature) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Feature(%d)", uint8(f))
}

// ParseFeature resolves a feature by its stored name.
func ParseFeature(name string) (Feature, error) {
	for f, n := range featureNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown feature %q", ErrSchema, name)
}

// SwingPhase is the stage of the swing a frame belongs to.
type SwingPhase uint8

const (
	Start SwingPhase = iota
	Back
	Impact
	Finish
	Other
)

// SwingPhases lists every valid SwingPhase in order.
var SwingPhases = []SwingPhase{Start, Back, Impact, Finish, Other}

var swingNames = [...]string{
	Start:  "Start",
	Back:   "Back",
	Impact: "Impact",
	Finish: "Finish",
	Other:  "Other",
}

func (p SwingPhase) Valid() bool {
	return int(p) < len(swingNames)
}

func (p SwingPhase) String() string {
	if p.Valid() {
		return swingNames[p]
	}
	return fmt.Sprintf("SwingPhase(%d)", uint8(p))
}

// Next returns the phase that follows p in the Start, Back, Impact, Finish cycle.
// Other is outside the cycle and restarts it.
func (p SwingPhase) Next() SwingPhase {
	switch p {
	case Start:
		return Back
	case Back:
		return Impact
	case Impact:
		return Finish
	default:
		return Start
	}
}

// ParseSwingPhase resolves a phase by its stored name.
func ParseSwingPhase(name string) (SwingPhase, error) {
	for i, n := range swingNames {
		if n == name {
			return SwingPhase(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown swing phase %q", ErrSchema, name)
}

// Coordinate is a pixel position in image space.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FrameAnnotation holds the marks and swing phase recorded for one frame.
type FrameAnnotation struct {
	Pose  map[Feature]Coordinate
	Swing SwingPhase
}

// NewFrameAnnotation returns the annotation an unlabelled frame implicitly has.
func NewFrameAnnotation() FrameAnnotation {
	return FrameAnnotation{
		Pose:  map[Feature]Coordinate{},
		Swing: Other,
	}
}

// Clone returns a deep copy of a.
func (a FrameAnnotation) Clone() FrameAnnotation {
	pose := make(map[Feature]Coordinate, len(a.Pose))
	maps.Copy(pose, a.Pose)
	return FrameAnnotation{Pose: pose, Swing: a.Swing}
}

// Equal reports whether a and b hold the same marks and phase.
func (a FrameAnnotation) Equal(b FrameAnnotation) bool {
	return a.Swing == b.Swing && maps.Equal(a.Pose, b.Pose)
}
