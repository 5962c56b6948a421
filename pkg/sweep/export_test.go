package sweep

import "github.com/Sumatoshi-tech/rectsweep/pkg/geom"

// RelevantObstructions exposes relevantObstructions for testing.
func RelevantObstructions(base geom.Rect, obstructions []geom.Rect) []geom.Rect {
	return relevantObstructions(base, obstructions)
}

// SweepCoordinates exposes sweepCoordinates for testing.
func SweepCoordinates(base geom.Rect, obstructions []geom.Rect) []int {
	return sweepCoordinates(base, relevantObstructions(base, obstructions))
}

// GapsAt exposes gapsAt for testing.
func GapsAt(base geom.Rect, obstructions []geom.Rect, x int) []Gap {
	return gapsAt(base, relevantObstructions(base, obstructions), x)
}

// Step runs a single tracker step from the given active sections.
func Step(base geom.Rect, active []ActiveSection, x int, gaps []Gap) ([]ActiveSection, []geom.Rect) {
	trk := newTracker(base)
	trk.active = append(trk.active, active...)
	trk.step(x, gaps)

	return trk.active, trk.out
}
