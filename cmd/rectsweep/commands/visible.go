package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rectsweep/pkg/config"
	"github.com/Sumatoshi-tech/rectsweep/pkg/render"
	"github.com/Sumatoshi-tech/rectsweep/pkg/scene"
)

// ErrNoLayers is returned when visible is run on a scene without layers.
var ErrNoLayers = errors.New("scene has no layers")

// VisibleCommand holds the flags of the visible command.
type VisibleCommand struct {
	format  string
	workers int
	noColor bool
}

func newVisibleCommand() *cobra.Command {
	vc := &VisibleCommand{}

	cmd := &cobra.Command{
		Use:   "visible <scene|->",
		Short: "Compute the visible regions of stacked windows",
		Long: `For every layer of a layered scene, list the rectangles that no layer
above it covers. Layers are given bottom first.`,
		Args: cobra.ExactArgs(1),
		RunE: vc.run,
	}

	cmd.Flags().StringVar(&vc.format, "format", config.OutputTable, "Output format: table, json, yaml, grid")
	cmd.Flags().IntVar(&vc.workers, "workers", 0, "Concurrent layer decompositions (0 = from config, unbounded by default)")
	cmd.Flags().BoolVar(&vc.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func (vc *VisibleCommand) run(cmd *cobra.Command, args []string) error {
	rt, err := runtimeFrom(cmd)
	if err != nil {
		return err
	}

	format := formatFlag(cmd, vc.format, rt.cfg.Output.Format)

	err = config.ValidateOutputFormat(format)
	if err != nil {
		return err
	}

	if vc.workers < 0 {
		return fmt.Errorf("%w: %d", config.ErrInvalidWorkers, vc.workers)
	}

	sc, err := loadScene(cmd, args[0])
	if err != nil {
		return err
	}

	if len(sc.Layers) == 0 {
		return ErrNoLayers
	}

	workers := vc.workers
	if workers == 0 {
		workers = rt.cfg.Visible.Workers
	}

	start := time.Now()

	visible, err := sc.VisibleRegions(cmd.Context(), workers)
	if err != nil {
		return fmt.Errorf("visible regions: %w", err)
	}

	perLayer := time.Since(start) / time.Duration(len(visible))

	for i, v := range visible {
		rt.sweep.RecordDecomposition(cmd.Context(), sourceCLI, len(sc.Layers)-i-1, len(v.Rects), perLayer)
	}

	rt.logger.DebugContext(cmd.Context(), "visible regions computed", "layers", len(visible), "workers", workers)

	out := cmd.OutOrStdout()

	switch format {
	case config.OutputJSON:
		return render.JSON(out, visible)
	case config.OutputYAML:
		return render.YAML(out, visible)
	default:
		return writeLayers(out, format, sc.Layers, visible, render.Options{NoColor: vc.noColor || rt.cfg.Output.NoColor})
	}
}

// writeLayers prints one titled table or grid per layer, top layer last.
func writeLayers(w io.Writer, format string, layers []scene.Item, visible []scene.Visible, opts render.Options) error {
	for i, v := range visible {
		fmt.Fprintf(w, "layer %d %s %s\n", i, v.Layer.Name, v.Layer.String())

		var err error

		if format == config.OutputGrid {
			err = render.Grid(w, v.Layer.Rect, layers[i+1:], v.Rects, opts)
		} else {
			err = render.Table(w, v.Rects)
		}

		if err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}

	return nil
}
