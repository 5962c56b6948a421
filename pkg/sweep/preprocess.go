package sweep

import (
	"cmp"
	"slices"

	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
)

// relevantObstructions keeps the obstructions intersecting base, ordered by
// descending top row. The order lets gapsAt merge overlapping coverage in one
// forward pass.
func relevantObstructions(base geom.Rect, obstructions []geom.Rect) []geom.Rect {
	relevant := make([]geom.Rect, 0, len(obstructions))

	for _, obs := range obstructions {
		if obs.Intersects(base) {
			relevant = append(relevant, obs)
		}
	}

	slices.SortStableFunc(relevant, func(a, b geom.Rect) int {
		return cmp.Compare(b.Top(), a.Top())
	})

	return relevant
}
