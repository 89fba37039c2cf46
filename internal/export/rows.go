// Package export flattens a label store into one row per mark, for tools
// that want a table rather than the nested labels.json layout.
package export

import (
	"github.com/lehigh-university-libraries/swing-labeler/internal/labels"
)

// Row is one feature mark on one frame. Frames with no marks still get a
// single row with an empty Feature so their swing phase is not lost.
type Row struct {
	Frame   string `json:"frame" parquet:"frame"`
	Index   int    `json:"index" parquet:"index"` // position in the frame catalog, -1 if absent
	Swing   string `json:"swing" parquet:"swing"`
	Feature string `json:"feature" parquet:"feature"`
	X       int    `json:"x" parquet:"x"`
	Y       int    `json:"y" parquet:"y"`
}

// Indexer locates a frame path in the catalog.
type Indexer interface {
	IndexOf(path string) int
}

// Rows flattens store in frame order, marks in feature order.
func Rows(store *labels.Store, catalog Indexer) []Row {
	var rows []Row
	for _, frame := range store.Frames() {
		a := store.Get(frame)
		base := Row{
			Frame: frame,
			Index: catalog.IndexOf(frame),
			Swing: a.Swing.String(),
		}

		if len(a.Pose) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, f := range labels.Features {
			c, ok := a.Pose[f]
			if !ok {
				continue
			}
			r := base
			r.Feature = f.String()
			r.X, r.Y = c.X, c.Y
			rows = append(rows, r)
		}
	}
	return rows
}
