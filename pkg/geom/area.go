package geom

import (
	"cmp"
	"math"
	"slices"
)

// UnionArea returns the number of cells covered by at least one of rects.
//
// Columns are compressed to the distinct vertical rectangle edges; within each
// column slab the covered rows are found by merging sorted intervals, so the
// cost is O(n² log n) in the number of rectangles and independent of their extent.
func UnionArea(rects []Rect) int {
	live := slices.DeleteFunc(slices.Clone(rects), func(r Rect) bool { return r.Area() == 0 })

	xs := make([]int, 0, 2*len(live))
	for _, r := range live {
		xs = append(xs, r.Left(), r.Right()+1)
	}

	slices.Sort(xs)
	xs = slices.Compact(xs)

	spans := make([]span, 0, len(live))
	total := 0

	for xi := 0; xi+1 < len(xs); xi++ {
		x := xs[xi]
		spans = spans[:0]

		for _, r := range live {
			if r.Left() <= x && x <= r.Right() {
				spans = append(spans, span{lo: r.Bottom(), hi: r.Top() + 1})
			}
		}

		total += (xs[xi+1] - x) * coveredLength(spans)
	}

	return total
}

// span is the half-open row interval [lo, hi).
type span struct {
	lo, hi int
}

func coveredLength(spans []span) int {
	slices.SortFunc(spans, func(a, b span) int { return cmp.Compare(a.lo, b.lo) })

	length, end := 0, math.MinInt

	for _, s := range spans {
		switch {
		case s.lo >= end:
			length += s.hi - s.lo
			end = s.hi
		case s.hi > end:
			length += s.hi - end
			end = s.hi
		}
	}

	return length
}
