package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rectsweep/pkg/config"
	"github.com/Sumatoshi-tech/rectsweep/pkg/coverage"
	"github.com/Sumatoshi-tech/rectsweep/pkg/render"
	"github.com/Sumatoshi-tech/rectsweep/pkg/scene"
	"github.com/Sumatoshi-tech/rectsweep/pkg/sweep"
)

const sourceCLI = "cli"

// DecomposeCommand holds the flags of the decompose command.
type DecomposeCommand struct {
	format  string
	verify  bool
	noColor bool
}

func newDecomposeCommand() *cobra.Command {
	dc := &DecomposeCommand{}

	cmd := &cobra.Command{
		Use:   "decompose <scene|->",
		Short: "Decompose the free space of a scene",
		Long: `Decompose the base rectangle of a scene into rectangles that together
cover exactly the cells no obstruction blocks. The scene is a YAML or JSON
file, or "-" for standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: dc.run,
	}

	cmd.Flags().StringVar(&dc.format, "format", config.OutputTable, "Output format: table, json, yaml, grid")
	cmd.Flags().BoolVar(&dc.verify, "verify", false, "Check that the output covers exactly the free cells")
	cmd.Flags().BoolVar(&dc.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func (dc *DecomposeCommand) run(cmd *cobra.Command, args []string) error {
	rt, err := runtimeFrom(cmd)
	if err != nil {
		return err
	}

	format := formatFlag(cmd, dc.format, rt.cfg.Output.Format)

	err = config.ValidateOutputFormat(format)
	if err != nil {
		return err
	}

	sc, err := loadScene(cmd, args[0])
	if err != nil {
		return err
	}

	if sc.Base == nil {
		return scene.ErrNoBase
	}

	ctx := cmd.Context()
	obstructions := sc.ObstructionRects()

	start := time.Now()
	res := sweep.Analyze(*sc.Base, obstructions)
	elapsed := time.Since(start)

	rt.sweep.RecordDecomposition(ctx, sourceCLI, len(obstructions), len(res.Rects), elapsed)
	rt.logger.DebugContext(ctx, "decomposed",
		"base", sc.Base.String(), "obstructions", len(obstructions), "rects", len(res.Rects),
		"steps", res.Stats.Steps, "duration", elapsed)

	report := render.Report{Base: *sc.Base, Obstructions: sc.Obstructions, Rects: res.Rects, Stats: &res.Stats}

	if dc.verify || rt.cfg.Output.Verify {
		check, checkErr := coverage.Check(*sc.Base, obstructions, res.Rects)
		if checkErr != nil {
			return fmt.Errorf("verification failed: %w", checkErr)
		}

		report.Coverage = &check
	}

	opts := render.Options{NoColor: dc.noColor || rt.cfg.Output.NoColor}

	return writeReport(cmd.OutOrStdout(), format, report, opts)
}

func writeReport(w io.Writer, format string, report render.Report, opts render.Options) error {
	switch format {
	case config.OutputJSON:
		return render.JSON(w, report)
	case config.OutputYAML:
		return render.YAML(w, report)
	case config.OutputGrid:
		err := render.Grid(w, report.Base, report.Obstructions, report.Rects, opts)
		if err != nil {
			return err
		}
	default:
		err := render.Table(w, report.Rects)
		if err != nil {
			return err
		}
	}

	if report.Coverage != nil {
		writeVerified(w, *report.Coverage, opts)
	}

	return nil
}

// writeVerified prints the one-line coverage summary for human formats.
func writeVerified(w io.Writer, check coverage.Report, opts render.Options) {
	ok := color.New(color.FgGreen, color.Bold)
	if opts.NoColor {
		ok.DisableColor()
	}

	fmt.Fprintf(w, "%s %s of %s cells free, covered exactly (%s overlapping)\n",
		ok.Sprint("verified:"),
		humanize.Comma(int64(check.FreeArea)),
		humanize.Comma(int64(check.BaseArea)),
		humanize.Comma(int64(check.OverlapCells)))
}
