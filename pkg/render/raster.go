// Package render presents decomposition results as tables, structured
// documents, ASCII grids, and tcell screens.
package render

import (
	"unicode"

	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
	"github.com/Sumatoshi-tech/rectsweep/pkg/scene"
)

// Glyphs used in rasters.
const (
	rectGlyphs        = "abcdefghijklmnopqrstuvwxyz0123456789"
	unnamedGlyph rune = '#'
	freeGlyph    rune = '.'
)

type cellKind int

const (
	cellFree cellKind = iota
	cellObstruction
	cellRect
)

type cell struct {
	kind  cellKind
	index int
	glyph rune
}

// raster maps the cells of base to what occupies them, top row first. Only the
// top-left maxCols by maxRows window of base is rasterized.
// Obstructions win over rectangles; among rectangles the first listed wins.
func raster(base geom.Rect, obstructions []scene.Item, rects []geom.Rect, maxCols, maxRows int) [][]cell {
	rows := make([][]cell, clamp(base.Height, maxRows))

	for row := range rows {
		y := base.Top() - row
		rows[row] = make([]cell, clamp(base.Width, maxCols))

		for col := range rows[row] {
			rows[row][col] = classify(base.Left()+col, y, obstructions, rects)
		}
	}

	return rows
}

func classify(x, y int, obstructions []scene.Item, rects []geom.Rect) cell {
	for i, obs := range obstructions {
		if obs.Contains(x, y) {
			return cell{kind: cellObstruction, index: i, glyph: obstructionGlyph(obs)}
		}
	}

	for i, rect := range rects {
		if rect.Contains(x, y) {
			return cell{kind: cellRect, index: i, glyph: RectGlyph(i)}
		}
	}

	return cell{kind: cellFree, glyph: freeGlyph}
}

func clamp(n, limit int) int {
	return max(min(n, limit), 0)
}

// RectGlyph returns the character used for the i-th output rectangle.
func RectGlyph(i int) rune {
	return rune(rectGlyphs[i%len(rectGlyphs)])
}

func obstructionGlyph(obs scene.Item) rune {
	for _, r := range obs.Name {
		return unicode.ToUpper(r)
	}

	return unnamedGlyph
}
