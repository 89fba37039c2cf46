// Package summary aggregates a label store into per-feature and per-phase
// statistics.
package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// Catalog is the subset of the frame catalog a report needs.
type Catalog interface {
	Count() int
	IndexOf(path string) int
}

// Report summarizes a store against the frames it was made for.
type Report struct {
	Frames    int            `yaml:"frames"`
	Annotated int            `yaml:"annotated"`
	Orphans   int            `yaml:"orphans"`
	Coverage  float64        `yaml:"coverage"`
	Features  []FeatureStats `yaml:"features"`
	Swing     []PhaseCount   `yaml:"swing"`
}

// FeatureStats describes the marks of one feature. Std values are the
// sample standard deviation and are zero with fewer than two marks.
type FeatureStats struct {
	Feature string  `yaml:"feature"`
	Count   int     `yaml:"count"`
	MeanX   float64 `yaml:"meanx"`
	MeanY   float64 `yaml:"meany"`
	StdX    float64 `yaml:"stdx"`
	StdY    float64 `yaml:"stdy"`
}

type PhaseCount struct {
	Phase string `yaml:"phase"`
	Count int    `yaml:"count"`
}

// Summarize builds a Report. Entries for frames missing from catalog count
// as orphans and are left out of every other figure.
func Summarize(store *labels.Store, catalog Catalog) *Report {
	r := &Report{Frames: catalog.Count()}

	xs := make(map[labels.Feature][]float64)
	ys := make(map[labels.Feature][]float64)
	phases := make(map[labels.SwingPhase]int)

	for _, frame := range store.Frames() {
		if catalog.IndexOf(frame) < 0 {
			r.Orphans++
			continue
		}
		r.Annotated++

		a := store.Get(frame)
		phases[a.Swing]++
		for f, c := range a.Pose {
			xs[f] = append(xs[f], float64(c.X))
			ys[f] = append(ys[f], float64(c.Y))
		}
	}

	if r.Frames > 0 {
		r.Coverage = float64(r.Annotated) / float64(r.Frames)
	}

	for _, f := range labels.Features {
		fs := FeatureStats{Feature: f.String(), Count: len(xs[f])}
		if fs.Count > 0 {
			fs.MeanX, fs.StdX = meanStd(xs[f])
			fs.MeanY, fs.StdY = meanStd(ys[f])
		}
		r.Features = append(r.Features, fs)
	}

	for _, p := range labels.SwingPhases {
		r.Swing = append(r.Swing, PhaseCount{Phase: p.String(), Count: phases[p]})
	}

	return r
}

func meanStd(v []float64) (float64, float64) {
	if len(v) < 2 {
		return stat.Mean(v, nil), 0
	}
	return stat.MeanStdDev(v, nil)
}

func (r *Report) WriteYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return encoder.Close()
}

func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("LABEL SUMMARY\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Frames:    %d\n", r.Frames)
	fmt.Fprintf(&b, "Annotated: %d (%.1f%%)\n", r.Annotated, r.Coverage*100)
	if r.Orphans > 0 {
		fmt.Fprintf(&b, "Orphans:   %d\n", r.Orphans)
	}
	b.WriteString("\n")

	b.WriteString("FEATURES\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, fs := range r.Features {
		if fs.Count == 0 {
			fmt.Fprintf(&b, "%-14s %5d\n", fs.Feature, 0)
			continue
		}
		fmt.Fprintf(&b, "%-14s %5d  x %.1f ± %.1f  y %.1f ± %.1f\n",
			fs.Feature, fs.Count, fs.MeanX, fs.StdX, fs.MeanY, fs.StdY)
	}
	b.WriteString("\n")

	b.WriteString("SWING\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, pc := range r.Swing {
		fmt.Fprintf(&b, "%-14s %5d\n", pc.Phase, pc.Count)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
