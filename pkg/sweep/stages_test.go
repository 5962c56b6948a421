package sweep_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
	"github.com/Sumatoshi-tech/rectsweep/pkg/sweep"
)

// TestRelevantObstructions verifies filtering and descending-top order.
func TestRelevantObstructions(t *testing.T) {
	t.Parallel()

	base := geom.New(0, 0, 10, 10)
	low := geom.New(0, 0, 2, 2)
	high := geom.New(5, 7, 2, 2)
	mid := geom.New(3, 3, 2, 2)
	outside := geom.New(10, 0, 2, 2)

	got := sweep.RelevantObstructions(base, []geom.Rect{low, outside, high, mid})

	assert.Equal(t, []geom.Rect{high, mid, low}, got)
}

// TestSweepCoordinates verifies edge collection, dedup, and clipping.
func TestSweepCoordinates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		base         geom.Rect
		obstructions []geom.Rect
		want         []int
	}{
		{"no obstructions", geom.New(3, 0, 5, 5), nil, []int{3}},
		{"two windows", screenBase, []geom.Rect{redWindow, blueWindow}, []int{0, 6, 10}},
		{"clipped both sides", geom.New(0, 0, 10, 10), []geom.Rect{geom.New(-5, 0, 20, 2)}, []int{0}},
		{"adjacent share edge", geom.New(0, 0, 10, 4), []geom.Rect{geom.New(0, 0, 3, 2), geom.New(3, 0, 3, 2)}, []int{0, 3, 6}},
		{"outside ignored", geom.New(0, 0, 10, 10), []geom.Rect{geom.New(2, 2, 2, 2), geom.New(20, 20, 5, 5)}, []int{0, 2, 4}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, sweep.SweepCoordinates(tc.base, tc.obstructions))
		})
	}
}

// TestGapsAt verifies free interval computation at a single column.
func TestGapsAt(t *testing.T) {
	t.Parallel()

	tall := geom.New(0, 0, 5, 10)

	tests := []struct {
		name         string
		base         geom.Rect
		obstructions []geom.Rect
		x            int
		want         []sweep.Gap
	}{
		{"no obstruction", tall, nil, 0, []sweep.Gap{{Top: 9, Bottom: 0}}},
		{"red column", screenBase, []geom.Rect{redWindow, blueWindow}, 0, []sweep.Gap{{Top: 2, Bottom: 0}}},
		{"between windows", screenBase, []geom.Rect{redWindow, blueWindow}, 6, []sweep.Gap{{Top: 6, Bottom: 0}}},
		{"blue column", screenBase, []geom.Rect{redWindow, blueWindow}, 10, []sweep.Gap{{Top: 6, Bottom: 2}}},
		{
			"two bands",
			tall,
			[]geom.Rect{geom.New(0, 2, 5, 2), geom.New(0, 6, 5, 2)},
			0,
			[]sweep.Gap{{Top: 9, Bottom: 8}, {Top: 5, Bottom: 4}, {Top: 1, Bottom: 0}},
		},
		{
			"overlapping merge",
			tall,
			[]geom.Rect{geom.New(0, 1, 5, 4), geom.New(0, 3, 5, 5)},
			0,
			[]sweep.Gap{{Top: 9, Bottom: 8}, {Top: 0, Bottom: 0}},
		},
		{
			"nested",
			tall,
			[]geom.Rect{geom.New(0, 2, 5, 8), geom.New(0, 4, 5, 2)},
			0,
			[]sweep.Gap{{Top: 1, Bottom: 0}},
		},
		{"bottom row only", geom.New(0, 0, 10, 10), []geom.Rect{geom.New(0, 1, 10, 9)}, 0, []sweep.Gap{{Top: 0, Bottom: 0}}},
		{"fully covered", tall, []geom.Rect{tall}, 0, nil},
		{"column outside obstruction", tall, []geom.Rect{geom.New(2, 0, 3, 10)}, 1, []sweep.Gap{{Top: 9, Bottom: 0}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, sweep.GapsAt(tc.base, tc.obstructions, tc.x))
		})
	}
}

// TestStep_Survives verifies a section inside a gap is kept and the gap gets its own section.
func TestStep_Survives(t *testing.T) {
	t.Parallel()

	active, out := sweep.Step(geom.New(0, 0, 10, 10),
		[]sweep.ActiveSection{{StartX: 0, Top: 3, Bottom: 1}},
		4,
		[]sweep.Gap{{Top: 5, Bottom: 0}},
	)

	assert.Empty(t, out)
	assert.Equal(t, []sweep.ActiveSection{
		{StartX: 0, Top: 3, Bottom: 1},
		{StartX: 4, Top: 5, Bottom: 0},
	}, active)
}

// TestStep_ExactMatchNotRespawned verifies a gap equal to a section spawns nothing.
func TestStep_ExactMatchNotRespawned(t *testing.T) {
	t.Parallel()

	active, out := sweep.Step(geom.New(0, 0, 10, 10),
		[]sweep.ActiveSection{{StartX: 0, Top: 5, Bottom: 0}},
		4,
		[]sweep.Gap{{Top: 5, Bottom: 0}},
	)

	assert.Empty(t, out)
	assert.Equal(t, []sweep.ActiveSection{{StartX: 0, Top: 5, Bottom: 0}}, active)
}

// TestStep_BlockedSplitDedup verifies blocked sections close and merged intervals are not duplicated.
func TestStep_BlockedSplitDedup(t *testing.T) {
	t.Parallel()

	active, out := sweep.Step(geom.New(0, 0, 10, 10),
		[]sweep.ActiveSection{
			{StartX: 0, Top: 5, Bottom: 0},
			{StartX: 2, Top: 9, Bottom: 0},
		},
		4,
		[]sweep.Gap{{Top: 3, Bottom: 0}},
	)

	assert.Equal(t, []geom.Rect{
		geom.New(2, 0, 2, 10),
		geom.New(0, 0, 4, 6),
	}, out)
	assert.Equal(t, []sweep.ActiveSection{{StartX: 4, Top: 3, Bottom: 0}}, active)
}

// TestStep_BlockedNoGap verifies a section closes without replacement when nothing is free.
func TestStep_BlockedNoGap(t *testing.T) {
	t.Parallel()

	active, out := sweep.Step(geom.New(0, 0, 10, 10),
		[]sweep.ActiveSection{{StartX: 1, Top: 9, Bottom: 0}},
		6,
		nil,
	)

	assert.Equal(t, []geom.Rect{geom.New(1, 0, 5, 10)}, out)
	assert.Empty(t, active)
}

// TestStep_BlockedSplitIntoTwo verifies one blocked section feeding two disjoint gaps.
func TestStep_BlockedSplitIntoTwo(t *testing.T) {
	t.Parallel()

	active, out := sweep.Step(geom.New(0, 0, 10, 10),
		[]sweep.ActiveSection{{StartX: 0, Top: 9, Bottom: 0}},
		3,
		[]sweep.Gap{{Top: 9, Bottom: 6}, {Top: 2, Bottom: 0}},
	)

	assert.Equal(t, []geom.Rect{geom.New(0, 0, 3, 10)}, out)
	assert.Equal(t, []sweep.ActiveSection{
		{StartX: 3, Top: 9, Bottom: 6},
		{StartX: 3, Top: 2, Bottom: 0},
	}, active)
}
