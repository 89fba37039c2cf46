// Package keymap holds the table that turns raw key codes into labelling actions.
package keymap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
)

// Action is a labelling command a key can trigger.
type Action uint8

const (
	SelectFeature Action = iota + 1
	SelectNone
	Commit
	Delete
	AdvanceSwing
	MarkOther
	NextFrame
	PrevFrame
	Quit
)

var actionNames = map[Action]string{
	SelectFeature: "select",
	SelectNone:    "select-none",
	Commit:        "commit",
	Delete:        "delete",
	AdvanceSwing:  "advance-swing",
	MarkOther:     "mark-other",
	NextFrame:     "next",
	PrevFrame:     "prev",
	Quit:          "quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// ParseAction resolves an action by name.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown action %q", labels.ErrConfig, name)
}

// Binding is what a key does. Feature is only meaningful for SelectFeature.
type Binding struct {
	Action  Action
	Feature labels.Feature
}

// Select returns the binding that selects f.
func Select(f labels.Feature) Binding {
	return Binding{Action: SelectFeature, Feature: f}
}

func (b Binding) String() string {
	if b.Action == SelectFeature {
		return b.Action.String() + " " + b.Feature.String()
	}
	return b.Action.String()
}

// Validate checks that b names a known action and carries a feature exactly
// when it selects one.
func (b Binding) Validate() error {
	if _, ok := actionNames[b.Action]; !ok {
		return fmt.Errorf("%w: unknown action %d", labels.ErrConfig, b.Action)
	}
	if b.Action == SelectFeature && !b.Feature.Valid() {
		return fmt.Errorf("%w: select needs a feature", labels.ErrConfig)
	}
	if b.Action != SelectFeature && b.Feature != 0 {
		return fmt.Errorf("%w: %s takes no feature", labels.ErrConfig, b.Action)
	}
	return nil
}

// Map binds key codes to actions.
type Map struct {
	keys map[int]Binding
}

// New returns a map with no bindings.
func New() *Map {
	return &Map{keys: make(map[int]Binding)}
}

// Default returns the stock layout: a/s/d/f/g select features and w clears the
// selection, space commits, backspace deletes, j advances the swing phase, l
// marks Other, z/x step frames (k also steps forward) and q quits.
func Default() *Map {
	m := New()
	m.Bind('a', Select(labels.Head))
	m.Bind('s', Select(labels.Hips))
	m.Bind('d', Select(labels.Hands))
	m.Bind('f', Select(labels.LeftShoulder))
	m.Bind('g', Select(labels.RightShoulder))
	m.Bind('w', Binding{Action: SelectNone})
	m.Bind(KeySpace, Binding{Action: Commit})
	m.Bind(KeyBackspace, Binding{Action: Delete})
	m.Bind('j', Binding{Action: AdvanceSwing})
	m.Bind('l', Binding{Action: MarkOther})
	m.Bind('z', Binding{Action: PrevFrame})
	m.Bind('x', Binding{Action: NextFrame})
	m.Bind('k', Binding{Action: NextFrame})
	m.Bind('q', Binding{Action: Quit})
	return m
}

// Bind assigns b to key, replacing any previous binding.
func (m *Map) Bind(key int, b Binding) {
	m.keys[key] = b
}

// Unbind removes any binding for key.
func (m *Map) Unbind(key int) {
	delete(m.keys, key)
}

func (m *Map) Lookup(key int) (Binding, bool) {
	b, ok := m.keys[key]
	return b, ok
}

// Keys returns every bound key code in ascending order.
func (m *Map) Keys() []int {
	keys := make([]int, 0, len(m.keys))
	for k := range m.keys {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Named key codes as delivered by the display.
const (
	KeyBackspace = 8
	KeyTab       = 9
	KeyEnter     = 13
	KeyEscape    = 27
	KeySpace     = 32
	KeyDelete    = 127
)

var keyNames = map[string]int{
	"backspace": KeyBackspace,
	"tab":       KeyTab,
	"enter":     KeyEnter,
	"esc":       KeyEscape,
	"space":     KeySpace,
	"delete":    KeyDelete,
}

// ParseKey accepts a named key ("space", "backspace", ...), a single
// character, or "code:N" for a raw code.
func ParseKey(s string) (int, error) {
	if code, ok := keyNames[strings.ToLower(s)]; ok {
		return code, nil
	}
	if raw, ok := strings.CutPrefix(s, "code:"); ok {
		code, err := strconv.Atoi(raw)
		if err != nil || code < 0 {
			return 0, fmt.Errorf("%w: bad key code %q", labels.ErrConfig, s)
		}
		return code, nil
	}
	r := []rune(s)
	if len(r) == 1 {
		return int(r[0]), nil
	}
	return 0, fmt.Errorf("%w: unknown key %q", labels.ErrConfig, s)
}

// KeyName is the inverse of ParseKey.
func KeyName(code int) string {
	for name, c := range keyNames {
		if c == code {
			return name
		}
	}
	if code > KeySpace && code < unicode.MaxRune && unicode.IsPrint(rune(code)) {
		return string(rune(code))
	}
	return "code:" + strconv.Itoa(code)
}
