package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
	"github.com/Sumatoshi-tech/rectsweep/pkg/scene"
)

var (
	obstructionStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkRed).Bold(true)
	freeStyle        = tcell.StyleDefault.Foreground(tcell.ColorGray)

	screenPalette = []tcell.Color{
		tcell.ColorTeal,
		tcell.ColorGreen,
		tcell.ColorOlive,
		tcell.ColorNavy,
		tcell.ColorPurple,
		tcell.ColorSilver,
	}
)

// Paint draws the raster of base into screen with its top-left corner at the
// screen origin and shows it. Only the part of base that fits the screen is drawn.
func Paint(screen tcell.Screen, base geom.Rect, obstructions []scene.Item, rects []geom.Rect) {
	screen.Clear()

	cols, rows := screen.Size()

	for row, cells := range raster(base, obstructions, rects, cols, rows) {
		for col, c := range cells {
			screen.SetContent(col, row, c.glyph, nil, cellStyle(c))
		}
	}

	screen.Show()
}

func cellStyle(c cell) tcell.Style {
	switch c.kind {
	case cellObstruction:
		return obstructionStyle
	case cellRect:
		bg := screenPalette[c.index%len(screenPalette)]

		return tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(bg)
	default:
		return freeStyle
	}
}
