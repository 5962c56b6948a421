package render

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
)

// Table writes one row per rectangle with its glyph, bounds, and area, and a
// footer with the summed area.
func Table(w io.Writer, rects []geom.Rect) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"#", "glyph", "x", "y", "width", "height", "area"})

	total := 0

	for i, rect := range rects {
		tbl.AppendRow(table.Row{
			i + 1,
			string(RectGlyph(i)),
			rect.X,
			rect.Y,
			rect.Width,
			rect.Height,
			humanize.Comma(int64(rect.Area())),
		})

		total += rect.Area()
	}

	tbl.AppendFooter(table.Row{"", "", "", "", "", fmt.Sprintf("%d rects", len(rects)), humanize.Comma(int64(total))})

	_, err := fmt.Fprintln(w, tbl.Render())
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}
