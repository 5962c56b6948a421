package sweep

import "github.com/Sumatoshi-tech/rectsweep/pkg/geom"

// Gap is a maximal free vertical interval [Bottom, Top] at one sweep column.
type Gap struct {
	Top    int
	Bottom int
}

// covers reports whether the gap spans the whole interval of sec.
func (g Gap) covers(sec ActiveSection) bool {
	return g.Top >= sec.Top && sec.Bottom >= g.Bottom
}

// overlaps reports whether the gap shares at least one row with sec.
func (g Gap) overlaps(sec ActiveSection) bool {
	return g.Top >= sec.Bottom && g.Bottom <= sec.Top
}

// gapsAt returns the free intervals of base at column x, highest first.
// Obstructions must be ordered by descending top row.
func gapsAt(base geom.Rect, obstructions []geom.Rect, x int) []Gap {
	var gaps []Gap

	lastPos := base.Top()

	for _, obs := range obstructions {
		if x < obs.Left() || x > obs.Right() {
			continue
		}

		if obs.Top() < lastPos {
			gaps = append(gaps, Gap{Top: lastPos, Bottom: obs.Top() + 1})
		}

		lastPos = min(lastPos, obs.Bottom()-1)
	}

	// lastPos == base.Bottom still leaves the bottom row free; a strict > here
	// would drop that row from the output.
	if lastPos >= base.Bottom() {
		gaps = append(gaps, Gap{Top: lastPos, Bottom: base.Bottom()})
	}

	return gaps
}
