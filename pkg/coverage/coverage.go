// Package coverage checks that a set of rectangles is a valid decomposition of
// the free area of a base rectangle.
package coverage

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
)

// Sentinel verification errors.
var (
	ErrDegenerate       = errors.New("rectangle has no area")
	ErrOutsideBase      = errors.New("rectangle extends outside the base")
	ErrHitsObstruction  = errors.New("rectangle intersects an obstruction")
	ErrCoverageMismatch = errors.New("rectangles do not cover the free area")
)

// Report summarizes the areas involved in a verification.
type Report struct {
	BaseArea     int `json:"base_area"     yaml:"base_area"`
	BlockedArea  int `json:"blocked_area"  yaml:"blocked_area"`
	FreeArea     int `json:"free_area"     yaml:"free_area"`
	CoveredArea  int `json:"covered_area"  yaml:"covered_area"`
	OverlapCells int `json:"overlap_cells" yaml:"overlap_cells"`
}

// Verify checks that every rectangle lies inside base, misses every obstruction,
// and that together they cover all of base not covered by an obstruction.
// Rectangles may overlap each other.
func Verify(base geom.Rect, obstructions, rects []geom.Rect) error {
	_, err := Check(base, obstructions, rects)

	return err
}

// Check is Verify returning the area report. The report is filled in as far as
// verification got before failing.
func Check(base geom.Rect, obstructions, rects []geom.Rect) (Report, error) {
	report := Report{BaseArea: base.Area()}

	for _, rect := range rects {
		err := checkPlacement(base, obstructions, rect)
		if err != nil {
			return report, err
		}
	}

	clipped := make([]geom.Rect, 0, len(obstructions))

	for _, obs := range obstructions {
		if part, ok := obs.Intersection(base); ok {
			clipped = append(clipped, part)
		}
	}

	report.BlockedArea = geom.UnionArea(clipped)
	report.FreeArea = report.BaseArea - report.BlockedArea
	report.CoveredArea = geom.UnionArea(rects)
	report.OverlapCells = sumArea(rects) - report.CoveredArea

	if report.CoveredArea != report.FreeArea {
		return report, fmt.Errorf("%w: covered %d of %d free cells",
			ErrCoverageMismatch, report.CoveredArea, report.FreeArea)
	}

	return report, nil
}

func checkPlacement(base geom.Rect, obstructions []geom.Rect, rect geom.Rect) error {
	if rect.Area() == 0 {
		return fmt.Errorf("%w: %s", ErrDegenerate, rect)
	}

	if !base.ContainsRect(rect) {
		return fmt.Errorf("%w: %s not in %s", ErrOutsideBase, rect, base)
	}

	for _, obs := range obstructions {
		if rect.Intersects(obs) {
			return fmt.Errorf("%w: %s hits %s", ErrHitsObstruction, rect, obs)
		}
	}

	return nil
}

func sumArea(rects []geom.Rect) int {
	total := 0

	for _, r := range rects {
		total += r.Area()
	}

	return total
}
