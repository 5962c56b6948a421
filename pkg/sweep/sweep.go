// Package sweep decomposes the part of a rectangle left uncovered by a set of
// obstructions into rectangles.
//
// A vertical sweep line moves left to right across the base rectangle and stops
// only where an obstruction starts or ends. At each stop the free vertical
// intervals (gaps) are computed, and a set of active sections, each a candidate
// output rectangle still growing to the right, is reconciled against them.
// Sections that are no longer fully free are closed into output rectangles and
// replaced by narrower ones.
//
// The result covers exactly the free area of the base. Output rectangles are
// maximal in width but are not a minimum-cardinality tiling, and two of them may
// share cells.
package sweep

import "github.com/Sumatoshi-tech/rectsweep/pkg/geom"

// Stats describes the work done by one decomposition.
type Stats struct {
	// Obstructions is the number of obstructions intersecting the base.
	Obstructions int `json:"obstructions" yaml:"obstructions"`

	// Steps is the number of sweep coordinates visited.
	Steps int `json:"steps" yaml:"steps"`

	// Gaps is the total number of free intervals seen across all steps.
	Gaps int `json:"gaps" yaml:"gaps"`

	// Blocked is the number of sections closed because their interval stopped being free.
	Blocked int `json:"blocked" yaml:"blocked"`

	// Spawned is the number of sections started.
	Spawned int `json:"spawned" yaml:"spawned"`

	// Closed is the number of sections still growing when the sweep ended.
	Closed int `json:"closed" yaml:"closed"`
}

// Result holds the output rectangles and the sweep counters.
type Result struct {
	Rects []geom.Rect `json:"rects" yaml:"rects"`
	Stats Stats       `json:"stats" yaml:"stats"`
}

// Decompose returns rectangles whose union is base minus the union of obstructions.
//
// Obstructions may overlap each other, repeat, or lie partly or wholly outside
// base. Base and every obstruction must have positive width and height; this is
// not checked. The output order is unspecified.
func Decompose(base geom.Rect, obstructions []geom.Rect) []geom.Rect {
	return Analyze(base, obstructions).Rects
}

// Analyze is Decompose with sweep counters.
func Analyze(base geom.Rect, obstructions []geom.Rect) Result {
	relevant := relevantObstructions(base, obstructions)
	coords := sweepCoordinates(base, relevant)

	trk := newTracker(base)
	trk.stats.Obstructions = len(relevant)

	for _, x := range coords {
		trk.step(x, gapsAt(base, relevant, x))
	}

	trk.finish()

	return Result{Rects: trk.out, Stats: trk.stats}
}
