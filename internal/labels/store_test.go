package labels

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleStore() *Store {
	s := Empty()
	s.UpsertFeature("frames/img_000000.jpg", Head, Coordinate{X: 3, Y: 7})
	s.UpsertFeature("frames/img_000000.jpg", Hands, Coordinate{X: -4, Y: 1200})
	s.SetSwing("frames/img_000000.jpg", Back)
	s.SetSwing("frames/img_000001.jpg", Impact)
	s.UpsertFeature("frames/img_000002.jpg", RightShoulder, Coordinate{X: 0, Y: 0})
	s.RemoveFeature("frames/img_000002.jpg", RightShoulder)
	return s
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		store *Store
	}{
		{name: "empty store", store: Empty()},
		{name: "mixed entries", store: sampleStore()},
		{
			name: "every feature and phase",
			store: func() *Store {
				s := Empty()
				for i, f := range Features {
					s.UpsertFeature("a.jpg", f, Coordinate{X: i, Y: -i})
				}
				for _, p := range SwingPhases {
					s.SetSwing(p.String()+".jpg", p)
				}
				return s
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.store.Serialize()
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}

			loaded, err := Load(data)
			if err != nil {
				t.Fatalf("Load failed: %v\n%s", err, data)
			}

			if !loaded.Equal(tt.store) {
				t.Errorf("Expected round trip to preserve store, got:\n%s", data)
			}
		})
	}
}

func TestSerializeFormat(t *testing.T) {
	s := Empty()
	s.SetSwing("b.jpg", Finish)
	s.UpsertFeature("a.jpg", Hips, Coordinate{X: 5, Y: 6})
	s.UpsertFeature("a.jpg", Head, Coordinate{X: 3, Y: 7})

	data, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	expected := `{
    "a.jpg": {
        "pose": {
            "Head": {
                "x": 3,
                "y": 7
            },
            "Hips": {
                "x": 5,
                "y": 6
            }
        },
        "swing": "Other"
    },
    "b.jpg": {
        "pose": {},
        "swing": "Finish"
    }
}
`
	if string(data) != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, data)
	}

	again, _ := s.Serialize()
	if string(again) != string(data) {
		t.Error("Expected Serialize to be deterministic")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty input", input: ``, wantErr: ErrParse},
		{name: "truncated", input: `{"a.jpg": {"pose": {}`, wantErr: ErrParse},
		{name: "trailing data", input: `{} {}`, wantErr: ErrParse},
		{name: "unknown feature", input: `{"a.jpg": {"pose": {"Elbow": {"x": 1, "y": 2}}, "swing": "Other"}}`, wantErr: ErrSchema},
		{name: "unknown phase", input: `{"a.jpg": {"pose": {}, "swing": "Backswing"}}`, wantErr: ErrSchema},
		{name: "top level array", input: `[]`, wantErr: ErrSchema},
		{name: "top level null", input: `null`, wantErr: ErrSchema},
		{name: "annotation not object", input: `{"a.jpg": 3}`, wantErr: ErrSchema},
		{name: "null annotation", input: `{"a.jpg": null}`, wantErr: ErrSchema},
		{name: "missing swing", input: `{"a.jpg": {"pose": {}}}`, wantErr: ErrSchema},
		{name: "missing pose", input: `{"a.jpg": {"swing": "Other"}}`, wantErr: ErrSchema},
		{name: "missing y", input: `{"a.jpg": {"pose": {"Head": {"x": 1}}, "swing": "Other"}}`, wantErr: ErrSchema},
		{name: "float coordinate", input: `{"a.jpg": {"pose": {"Head": {"x": 1.5, "y": 2}}, "swing": "Other"}}`, wantErr: ErrSchema},
		{name: "unknown annotation key", input: `{"a.jpg": {"pose": {}, "swing": "Other", "note": "x"}}`, wantErr: ErrSchema},
		{name: "unknown coordinate key", input: `{"a.jpg": {"pose": {"Head": {"x": 1, "y": 2, "z": 3}}, "swing": "Other"}}`, wantErr: ErrSchema},
		{name: "ordinal phase", input: `{"a.jpg": {"pose": {}, "swing": 4}}`, wantErr: ErrSchema},
		{name: "duplicate feature", input: `{"a.jpg": {"pose": {"Head": {"x": 1, "y": 2}, "Head": {"x": 9, "y": 9}}, "swing": "Other"}}`, wantErr: ErrSchema},
		{name: "duplicate frame", input: `{"a.jpg": {"pose": {}, "swing": "Back"}, "a.jpg": {"pose": {}, "swing": "Other"}}`, wantErr: ErrSchema},
		{name: "duplicate swing", input: `{"a.jpg": {"pose": {}, "swing": "Back", "swing": "Other"}}`, wantErr: ErrSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Load([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if store != nil {
				t.Error("Expected no store on error")
			}
		})
	}
}

func TestSerializeRejectsInvalidUTF8(t *testing.T) {
	s := Empty()
	s.UpsertFeature("frames/img_\xff.jpg", Head, Coordinate{X: 1, Y: 2})

	data, err := s.Serialize()
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("Expected ErrSchema, got %v", err)
	}
	if data != nil {
		t.Errorf("Expected no output, got %q", data)
	}

	path := filepath.Join(t.TempDir(), FileName)
	if err := s.SaveFile(path); !errors.Is(err, ErrSchema) {
		t.Errorf("Expected SaveFile to fail with ErrSchema, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no label file to be written, got %v", err)
	}
}

func TestSerializeKeepsHTMLCharacters(t *testing.T) {
	s := Empty()
	s.SetSwing("frames/a&b<c>.jpg", Start)

	data, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(string(data), `"frames/a&b<c>.jpg"`) {
		t.Errorf("Expected unescaped frame path, got:\n%s", data)
	}

	loaded, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.Equal(s) {
		t.Error("Expected round trip to preserve the store")
	}
}

func TestLoadRejectsWholeDocument(t *testing.T) {
	input := `{
    "a.jpg": {"pose": {"Head": {"x": 1, "y": 2}}, "swing": "Start"},
    "b.jpg": {"pose": {"Elbow": {"x": 1, "y": 2}}, "swing": "Start"},
    "c.jpg": {"pose": {}, "swing": "Back"}
}`
	store, err := Load([]byte(input))
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("Expected ErrSchema, got %v", err)
	}
	if store != nil {
		t.Errorf("Expected nil store, got %d entries", store.Len())
	}
}

func TestGetDoesNotMaterialize(t *testing.T) {
	s := Empty()
	a := s.Get("missing.jpg")

	if a.Swing != Other {
		t.Errorf("Expected default swing Other, got %s", a.Swing)
	}
	if len(a.Pose) != 0 {
		t.Errorf("Expected empty pose, got %v", a.Pose)
	}
	if s.Has("missing.jpg") || s.Len() != 0 {
		t.Error("Expected Get to leave store empty")
	}

	a.Pose[Head] = Coordinate{X: 1, Y: 1}
	if s.Has("missing.jpg") {
		t.Error("Expected mutation of returned copy to leave store untouched")
	}
}

func TestMutations(t *testing.T) {
	s := Empty()

	s.UpsertFeature("a.jpg", Head, Coordinate{X: 1, Y: 2})
	s.UpsertFeature("a.jpg", Head, Coordinate{X: 9, Y: 8})
	if got := s.Get("a.jpg").Pose[Head]; got != (Coordinate{X: 9, Y: 8}) {
		t.Errorf("Expected upsert to overwrite, got %+v", got)
	}
	if got := s.Get("a.jpg").Swing; got != Other {
		t.Errorf("Expected new entry swing Other, got %s", got)
	}

	s.RemoveFeature("b.jpg", Head)
	if s.Has("b.jpg") {
		t.Error("Expected RemoveFeature on missing frame to be a no-op")
	}

	s.RemoveFeature("a.jpg", Hips)
	s.RemoveFeature("a.jpg", Head)
	if !s.Has("a.jpg") {
		t.Error("Expected entry to be retained after its last feature is removed")
	}
	if n := len(s.Get("a.jpg").Pose); n != 0 {
		t.Errorf("Expected empty pose, got %d marks", n)
	}

	s.SetSwing("c.jpg", Impact)
	if got := s.Get("c.jpg"); got.Swing != Impact || len(got.Pose) != 0 {
		t.Errorf("Expected Impact with empty pose, got %+v", got)
	}

	frames := s.Frames()
	if len(frames) != 2 || frames[0] != "a.jpg" || frames[1] != "c.jpg" {
		t.Errorf("Expected [a.jpg c.jpg], got %v", frames)
	}
}

func TestSwingPhaseNext(t *testing.T) {
	tests := []struct {
		from SwingPhase
		want SwingPhase
	}{
		{Start, Back},
		{Back, Impact},
		{Impact, Finish},
		{Finish, Start},
		{Other, Start},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			if got := tt.from.Next(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	for _, f := range Features {
		got, err := ParseFeature(f.String())
		if err != nil || got != f {
			t.Errorf("Expected %s, got %v (%v)", f, got, err)
		}
	}
	for _, p := range SwingPhases {
		got, err := ParseSwingPhase(p.String())
		if err != nil || got != p {
			t.Errorf("Expected %s, got %v (%v)", p, got, err)
		}
	}
	if _, err := ParseFeature("head"); !errors.Is(err, ErrSchema) {
		t.Errorf("Expected names to be case sensitive, got %v", err)
	}
	if Feature(0).Valid() {
		t.Error("Expected zero Feature to be invalid")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	store, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Expected missing file to load empty, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d entries", store.Len())
	}

	if err := os.WriteFile(path, []byte(`{"a.jpg": {"pose": {`), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if _, err := LoadFile(path); !errors.Is(err, ErrParse) {
		t.Errorf("Expected ErrParse, got %v", err)
	}
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	store := sampleStore()
	if err := store.SaveFile(path); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !loaded.Equal(store) {
		t.Error("Expected saved file to load back equal")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only %s in directory, got %d entries", FileName, len(entries))
	}
}

func TestSaveFileFailureKeepsTarget(t *testing.T) {
	dir := t.TempDir()

	// A non-empty directory at the target path makes the final rename fail.
	path := filepath.Join(dir, FileName)
	if err := os.MkdirAll(filepath.Join(path, "keep"), 0755); err != nil {
		t.Fatalf("Failed to create blocking directory: %v", err)
	}

	err := sampleStore().SaveFile(path)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("Expected ErrIO, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(path, "keep")); err != nil {
		t.Errorf("Expected target to be untouched, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected temp file to be cleaned up, got %d entries", len(entries))
	}

	if err := Empty().SaveFile(filepath.Join(dir, "missing", FileName)); !errors.Is(err, ErrIO) {
		t.Errorf("Expected ErrIO for missing directory, got %v", err)
	}
}
