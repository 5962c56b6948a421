package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
	"github.com/Sumatoshi-tech/rectsweep/pkg/scene"
)

// DefaultMaxGridSize bounds each side of a grid when Options.MaxGridSize is unset.
const DefaultMaxGridSize = 256

// Options controls human-readable output.
type Options struct {
	NoColor bool

	// MaxGridSize bounds the columns and rows a grid prints. Zero means
	// DefaultMaxGridSize.
	MaxGridSize int
}

func (o Options) gridLimit() int {
	if o.MaxGridSize > 0 {
		return o.MaxGridSize
	}

	return DefaultMaxGridSize
}

var rectPalette = []color.Attribute{
	color.FgCyan,
	color.FgGreen,
	color.FgYellow,
	color.FgBlue,
	color.FgMagenta,
	color.FgHiCyan,
	color.FgHiGreen,
	color.FgHiYellow,
}

// Grid writes an ASCII picture of base: obstruction cells show the upper-cased
// first letter of the obstruction name, free cells the glyph of the first
// rectangle covering them. A base larger than the grid limit is cut to its
// top-left corner and a note with the shown size follows the picture.
func Grid(w io.Writer, base geom.Rect, obstructions []scene.Item, rects []geom.Rect, opts Options) error {
	obstructionColor := newColor(opts, color.FgHiRed, color.Bold)
	freeColor := newColor(opts, color.FgHiBlack)

	rectColors := make([]*color.Color, len(rectPalette))
	for i, attr := range rectPalette {
		rectColors[i] = newColor(opts, attr)
	}

	var sb strings.Builder

	limit := opts.gridLimit()

	for _, row := range raster(base, obstructions, rects, limit, limit) {
		for _, c := range row {
			glyph := string(c.glyph)

			switch c.kind {
			case cellObstruction:
				sb.WriteString(obstructionColor.Sprint(glyph))
			case cellRect:
				sb.WriteString(rectColors[c.index%len(rectColors)].Sprint(glyph))
			default:
				sb.WriteString(freeColor.Sprint(glyph))
			}
		}

		sb.WriteByte('\n')
	}

	if base.Width > limit || base.Height > limit {
		fmt.Fprintf(&sb, "(clipped to %dx%d of %dx%d)\n",
			min(base.Width, limit), min(base.Height, limit), base.Width, base.Height)
	}

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("write grid: %w", err)
	}

	return nil
}

func newColor(opts Options, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if opts.NoColor {
		c.DisableColor()
	}

	return c
}
