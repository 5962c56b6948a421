package coverage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/rectsweep/pkg/coverage"
	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
)

var (
	testBase        = geom.New(0, 0, 10, 4)
	testObstruction = geom.New(0, 2, 10, 2)
)

// TestVerify_Valid verifies a correct decomposition passes.
func TestVerify_Valid(t *testing.T) {
	t.Parallel()

	report, err := coverage.Check(testBase, []geom.Rect{testObstruction}, []geom.Rect{geom.New(0, 0, 10, 2)})
	require.NoError(t, err)
	assert.Equal(t, 40, report.BaseArea)
	assert.Equal(t, 20, report.BlockedArea)
	assert.Equal(t, 20, report.FreeArea)
	assert.Equal(t, 20, report.CoveredArea)
	assert.Zero(t, report.OverlapCells)
}

// TestVerify_OverlapAllowed verifies overlapping output is accepted and counted.
func TestVerify_OverlapAllowed(t *testing.T) {
	t.Parallel()

	rects := []geom.Rect{geom.New(0, 0, 6, 2), geom.New(4, 0, 6, 2)}

	report, err := coverage.Check(testBase, []geom.Rect{testObstruction}, rects)
	require.NoError(t, err)
	assert.Equal(t, 4, report.OverlapCells)
}

// TestVerify_Errors verifies each failure mode maps to its sentinel.
func TestVerify_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rects []geom.Rect
		want  error
	}{
		{"degenerate", []geom.Rect{geom.New(0, 0, 0, 2)}, coverage.ErrDegenerate},
		{"outside", []geom.Rect{geom.New(-1, 0, 11, 2)}, coverage.ErrOutsideBase},
		{"hits obstruction", []geom.Rect{geom.New(0, 0, 10, 3)}, coverage.ErrHitsObstruction},
		{"missing cells", []geom.Rect{geom.New(0, 0, 9, 2)}, coverage.ErrCoverageMismatch},
		{"empty output", nil, coverage.ErrCoverageMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := coverage.Verify(testBase, []geom.Rect{testObstruction}, tc.rects)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

// TestVerify_ObstructionOutsideBase verifies obstructions are clipped to the base.
func TestVerify_ObstructionOutsideBase(t *testing.T) {
	t.Parallel()

	obstructions := []geom.Rect{geom.New(20, 20, 5, 5), geom.New(-5, 0, 7, 4)}

	report, err := coverage.Check(testBase, obstructions, []geom.Rect{geom.New(2, 0, 8, 4)})
	require.NoError(t, err)
	assert.Equal(t, 8, report.BlockedArea)
}
