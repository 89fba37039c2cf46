package keymap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a key map file.
//
//	base: default        # or "empty" to start from nothing
//	bindings:
//	  - key: h
//	    action: select
//	    feature: Head
//	  - key: a
//	    action: unbind
type File struct {
	Base     string  `yaml:"base,omitempty"`
	Bindings []Entry `yaml:"bindings"`
}

// Entry is one key binding in a File.
type Entry struct {
	Key     string `yaml:"key"`
	Action  string `yaml:"action"`
	Feature string `yaml:"feature,omitempty"`
}

const unbindAction = "unbind"

// Parse builds a map from YAML. Entries are applied in order on top of the base layout.
func Parse(data []byte) (*Map, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: failed to parse key map: %v", labels.ErrConfig, err)
	}

	var m *Map
	switch f.Base {
	case "", "default":
		m = Default()
	case "empty":
		m = New()
	default:
		return nil, fmt.Errorf("%w: unknown key map base %q", labels.ErrConfig, f.Base)
	}

	for i, e := range f.Bindings {
		key, err := ParseKey(e.Key)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i+1, err)
		}

		if e.Action == unbindAction {
			m.Unbind(key)
			continue
		}

		b, err := e.binding()
		if err != nil {
			return nil, fmt.Errorf("binding %d (%s): %w", i+1, e.Key, err)
		}
		m.Bind(key, b)
	}

	return m, nil
}

func (e Entry) binding() (Binding, error) {
	action, err := ParseAction(e.Action)
	if err != nil {
		return Binding{}, err
	}

	b := Binding{Action: action}
	if e.Feature != "" {
		f, err := labels.ParseFeature(e.Feature)
		if err != nil {
			return Binding{}, fmt.Errorf("%w: %v", labels.ErrConfig, err)
		}
		b.Feature = f
	}

	if err := b.Validate(); err != nil {
		return Binding{}, err
	}
	return b, nil
}

// Load reads a key map file.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read key map %s: %v", labels.ErrConfig, path, err)
	}
	return Parse(data)
}

// Encode renders m as a self-contained key map file.
func (m *Map) Encode() ([]byte, error) {
	f := File{Base: "empty"}
	for _, key := range m.Keys() {
		b := m.keys[key]
		e := Entry{Key: KeyName(key), Action: b.Action.String()}
		if b.Action == SelectFeature {
			e.Feature = b.Feature.String()
		}
		f.Bindings = append(f.Bindings, e)
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key map: %w", err)
	}
	return data, nil
}
