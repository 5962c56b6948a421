package sweep

import (
	"cmp"
	"slices"

	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
)

// ActiveSection is a rectangle still growing to the right: the rows
// [Bottom, Top] have been free for every column from StartX up to the current
// sweep column.
type ActiveSection struct {
	StartX int
	Top    int
	Bottom int
}

func (s ActiveSection) hasInterval(top, bottom int) bool {
	return s.Top == top && s.Bottom == bottom
}

// rect closes the section at column endX (exclusive).
func (s ActiveSection) rect(endX int) geom.Rect {
	return geom.New(s.StartX, s.Bottom, endX-s.StartX, s.Top-s.Bottom+1)
}

type tracker struct {
	base   geom.Rect
	active []ActiveSection
	out    []geom.Rect
	stats  Stats
}

func newTracker(base geom.Rect) *tracker {
	return &tracker{base: base}
}

// step reconciles the active sections with the gaps found at column x.
func (t *tracker) step(x int, gaps []Gap) {
	t.stats.Steps++
	t.stats.Gaps += len(gaps)

	// Most recently started first, so a narrower section claims its gap before
	// an older, wider one can absorb it.
	slices.SortStableFunc(t.active, func(a, b ActiveSection) int {
		return cmp.Compare(b.StartX, a.StartX)
	})

	prev := t.active
	kept := make([]ActiveSection, 0, len(prev))

	var spawned []ActiveSection

	for _, sec := range prev {
		if coveredByAny(gaps, sec) {
			kept = append(kept, sec)

			continue
		}

		t.out = append(t.out, sec.rect(x))
		t.stats.Blocked++

		for _, gap := range gaps {
			if !gap.overlaps(sec) {
				continue
			}

			top := min(gap.Top, sec.Top)
			bottom := max(gap.Bottom, sec.Bottom)

			if containsInterval(prev, top, bottom) || containsInterval(spawned, top, bottom) {
				continue
			}

			spawned = append(spawned, ActiveSection{StartX: x, Top: top, Bottom: bottom})
		}
	}

	t.active = append(kept, spawned...)
	t.stats.Spawned += len(spawned)

	for _, gap := range gaps {
		if containsInterval(t.active, gap.Top, gap.Bottom) {
			continue
		}

		t.active = append(t.active, ActiveSection{StartX: x, Top: gap.Top, Bottom: gap.Bottom})
		t.stats.Spawned++
	}
}

// finish closes every section still growing at the right edge of base.
func (t *tracker) finish() {
	for _, sec := range t.active {
		t.out = append(t.out, sec.rect(t.base.Right()+1))
	}

	t.stats.Closed = len(t.active)
	t.active = nil
}

func coveredByAny(gaps []Gap, sec ActiveSection) bool {
	for _, gap := range gaps {
		if gap.covers(sec) {
			return true
		}
	}

	return false
}

func containsInterval(sections []ActiveSection, top, bottom int) bool {
	for _, sec := range sections {
		if sec.hasInterval(top, bottom) {
			return true
		}
	}

	return false
}
