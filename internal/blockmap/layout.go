// Package blockmap implements the block map visualization engine: grid
// layout, viewport camera, per-block state resolution and page math.
// Everything here is pure; rendering lives in internal/ui.
package blockmap

import "math"

// Layout constants, in world units (one unit = one terminal cell at
// zoom 1)
const (
	// BaseBlockSize is the minimum block edge length
	BaseBlockSize = 1.0
	// BlockGap is the spacing between adjacent blocks
	BlockGap = 0.0
	// fillThreshold: grids shorter than this fraction of the viewport
	// height get their blocks grown to fill the space
	fillThreshold = 0.7
)

// GridLayout is derived from the block count and viewport dimensions.
// It is recomputed on every relevant change, never mutated.
type GridLayout struct {
	BlocksPerRow int
	TotalRows    int
	BlockSize    float64 // world units, >= BaseBlockSize
}

// Span is the world-space distance between the origins of adjacent
// blocks
func (g GridLayout) Span() float64 {
	return g.BlockSize + BlockGap
}

// Pos returns the (row, col) of block i
func (g GridLayout) Pos(i int) (row, col int) {
	if g.BlocksPerRow < 1 {
		return 0, 0
	}
	return i / g.BlocksPerRow, i % g.BlocksPerRow
}

// ComputeLayout derives a grid for n blocks in a w x h viewport. The
// row width is chosen so the filled area roughly matches the viewport
// aspect ratio at the base block size, capped by the columns that fit
// horizontally. Deterministic for identical inputs.
func ComputeLayout(n int, w, h float64) GridLayout {
	if n < 1 || w <= 0 || h <= 0 {
		return GridLayout{BlocksPerRow: 1, TotalRows: 0, BlockSize: BaseBlockSize}
	}

	ideal := int(math.Ceil(math.Sqrt(float64(n) * w / h)))
	maxPerRow := int(math.Floor(w / (BaseBlockSize + BlockGap)))

	perRow := ideal
	if perRow > maxPerRow {
		perRow = maxPerRow
	}
	if perRow < 1 {
		perRow = 1
	}

	rows := (n + perRow - 1) / perRow

	size := BaseBlockSize
	if float64(rows)*(BaseBlockSize+BlockGap) < fillThreshold*h {
		// Grow to fill the viewport, bounded by both axes. Never
		// shrink below the base size.
		byHeight := h/float64(rows) - BlockGap
		byWidth := w/float64(perRow) - BlockGap
		grown := math.Min(byHeight, byWidth)
		if grown > size {
			size = grown
		}
	}

	return GridLayout{
		BlocksPerRow: perRow,
		TotalRows:    rows,
		BlockSize:    size,
	}
}

// BlockAt maps a screen coordinate to a block index using the exact
// inverse of the transform the renderer draws with. Returns -1 for
// dead space (outside the grid or past the last block).
func BlockAt(sx, sy float64, cam Camera, grid GridLayout, totalBlocks int) int {
	wx, wy := cam.ScreenToWorld(sx, sy)
	if wx < 0 || wy < 0 {
		return -1
	}
	span := grid.Span()
	if span <= 0 || grid.BlocksPerRow < 1 {
		return -1
	}
	col := int(math.Floor(wx / span))
	row := int(math.Floor(wy / span))
	if col >= grid.BlocksPerRow {
		return -1
	}
	i := row*grid.BlocksPerRow + col
	if i < 0 || i >= totalBlocks {
		return -1
	}
	return i
}
