package scene

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
	"github.com/Sumatoshi-tech/rectsweep/pkg/sweep"
)

// Visible is the unobscured part of one layer.
type Visible struct {
	Layer Item        `json:"layer" yaml:"layer"`
	Rects []geom.Rect `json:"rects" yaml:"rects"`
	Stats sweep.Stats `json:"stats" yaml:"stats"`
}

// VisibleRegions computes, for every layer, the rectangles not covered by any
// layer above it. Layers are ordered bottom first. Each layer is an independent
// decomposition; up to workers of them run at once (no limit when workers <= 0).
func VisibleRegions(ctx context.Context, layers []Item, workers int) ([]Visible, error) {
	out := make([]Visible, len(layers))

	grp, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		grp.SetLimit(workers)
	}

	for i := range layers {
		grp.Go(func() error {
			err := gctx.Err()
			if err != nil {
				return fmt.Errorf("layer %d: %w", i, err)
			}

			res := sweep.Analyze(layers[i].Rect, rectsOf(layers[i+1:]))
			out[i] = Visible{Layer: layers[i], Rects: res.Rects, Stats: res.Stats}

			return nil
		})
	}

	err := grp.Wait()
	if err != nil {
		return nil, err
	}

	return out, nil
}

// VisibleRegions runs the package-level VisibleRegions on the scene's layers.
func (sc *Scene) VisibleRegions(ctx context.Context, workers int) ([]Visible, error) {
	return VisibleRegions(ctx, sc.Layers, workers)
}
