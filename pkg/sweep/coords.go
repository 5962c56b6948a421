package sweep

import (
	"slices"

	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
)

// sweepCoordinates returns the ascending columns of base at which the vertical
// coverage profile can change: base.Left plus every obstruction's left edge and
// the column just past its right edge.
func sweepCoordinates(base geom.Rect, obstructions []geom.Rect) []int {
	points := make([]int, 0, 1+2*len(obstructions))
	points = append(points, base.Left())

	for _, obs := range obstructions {
		points = append(points, obs.Left(), obs.Right()+1)
	}

	slices.Sort(points)
	points = slices.Compact(points)

	return slices.DeleteFunc(points, func(x int) bool {
		return x < base.Left() || x > base.Right()
	})
}
