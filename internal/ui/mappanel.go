package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/samuli/blockdive/internal/blockmap"
	"github.com/samuli/blockdive/internal/model"
)

const (
	// Minimum on-screen block edge before borders are drawn; below this
	// the border would swallow the whole block.
	borderMinSpan = 3.0
	// Minimum on-screen block size before the index label is drawn
	labelMinWidth  = 6.0
	labelMinHeight = 3.0
)

// MapPanel renders the block map under a zoom/pan camera. Every cell of
// the content area is resolved through the same inverse transform the
// hit-testing uses, so what is drawn and what a click lands on can
// never disagree.
type MapPanel struct {
	info     model.BlockInfo
	resolver *blockmap.Resolver
	grid     blockmap.GridLayout
	cam      blockmap.Camera

	width   int
	height  int
	focused bool

	// Screen offset of the panel's content area within the terminal,
	// used to translate mouse coordinates
	originX int
	originY int

	// Drag state
	dragging bool
	dragX    int
	dragY    int
	dragged  bool
}

// NewMapPanel creates a new map panel with an identity camera
func NewMapPanel() MapPanel {
	return MapPanel{cam: blockmap.NewCamera()}
}

// SetSnapshot installs a new snapshot's info and resolver and
// recomputes the grid layout
func (m *MapPanel) SetSnapshot(info model.BlockInfo, resolver *blockmap.Resolver) {
	hovered := -1
	if m.resolver != nil {
		hovered = m.resolver.Hovered()
	}
	m.info = info
	m.resolver = resolver
	if m.resolver != nil && hovered >= 0 && info.InRange(hovered) {
		m.resolver.SetHovered(hovered)
	}
	m.layout()
}

// SetSize sets the panel dimensions
func (m *MapPanel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.layout()
}

// SetOrigin records where the panel's top-left corner sits on screen
func (m *MapPanel) SetOrigin(x, y int) {
	m.originX = x
	m.originY = y
}

// SetFocused sets focus state
func (m *MapPanel) SetFocused(focused bool) {
	m.focused = focused
}

// Camera returns the current camera
func (m MapPanel) Camera() blockmap.Camera {
	return m.cam
}

// Grid returns the current grid layout
func (m MapPanel) Grid() blockmap.GridLayout {
	return m.grid
}

func (m *MapPanel) layout() {
	w, h := m.contentSize()
	m.grid = blockmap.ComputeLayout(m.info.TotalBlocks, float64(w), float64(h))
}

// contentSize is the drawable area inside the border
func (m MapPanel) contentSize() (w, h int) {
	w = m.width - 2
	h = m.height - 2
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// ZoomIn zooms the camera in one step
func (m *MapPanel) ZoomIn() { m.cam.ZoomIn() }

// ZoomOut zooms the camera out one step
func (m *MapPanel) ZoomOut() { m.cam.ZoomOut() }

// ResetView restores the identity camera
func (m *MapPanel) ResetView() { m.cam.Reset() }

// Pan moves the viewport by a screen-space delta
func (m *MapPanel) Pan(dx, dy float64) { m.cam.Pan(dx, dy) }

// contentCoords translates terminal mouse coordinates to content-area
// coordinates. ok is false when the position is outside the content.
func (m MapPanel) contentCoords(x, y int) (cx, cy int, ok bool) {
	cx = x - m.originX - 1 // border
	cy = y - m.originY - 1
	w, h := m.contentSize()
	if cx < 0 || cy < 0 || cx >= w || cy >= h {
		return 0, 0, false
	}
	return cx, cy, true
}

// BlockAtScreen maps a terminal mouse position to a block index, -1 for
// dead space or positions outside the panel
func (m MapPanel) BlockAtScreen(x, y int) int {
	cx, cy, ok := m.contentCoords(x, y)
	if !ok {
		return -1
	}
	return blockmap.BlockAt(float64(cx), float64(cy), m.cam, m.grid, m.info.TotalBlocks)
}

// HandleMotion updates the hovered block from a mouse motion event.
// Returns true when the hover changed and a redraw is needed.
func (m *MapPanel) HandleMotion(x, y int) bool {
	if m.resolver == nil {
		return false
	}
	if m.dragging {
		// Hover is suppressed while dragging
		dx := x - m.dragX
		dy := y - m.dragY
		m.dragX = x
		m.dragY = y
		if dx != 0 || dy != 0 {
			m.dragged = true
			m.cam.Pan(float64(dx), float64(dy))
			return true
		}
		return false
	}
	i := m.BlockAtScreen(x, y)
	if i == m.resolver.Hovered() {
		return false
	}
	m.resolver.SetHovered(i)
	return true
}

// StartDrag begins a drag-to-pan gesture
func (m *MapPanel) StartDrag(x, y int) {
	m.dragging = true
	m.dragged = false
	m.dragX = x
	m.dragY = y
	if m.resolver != nil {
		m.resolver.SetHovered(-1)
	}
}

// EndDrag finishes a drag gesture. Returns true when the gesture was a
// plain click (no movement), in which case the release position should
// be treated as a click.
func (m *MapPanel) EndDrag() bool {
	wasClick := m.dragging && !m.dragged
	m.dragging = false
	m.dragged = false
	return wasClick
}

// ClearHover removes the hover highlight (mouse left the panel)
func (m *MapPanel) ClearHover() bool {
	if m.resolver == nil || m.resolver.Hovered() < 0 {
		return false
	}
	m.resolver.SetHovered(-1)
	return true
}

// HoverLabel returns the contextual label of the hovered block
func (m MapPanel) HoverLabel() string {
	if m.resolver == nil {
		return ""
	}
	i := m.resolver.Hovered()
	if i < 0 {
		return ""
	}
	res := m.resolver.Resolve(i)
	return fmt.Sprintf("Block %d: %s", i, res.Label)
}

// View renders the block map
func (m MapPanel) View() string {
	w, h := m.contentSize()

	grid := make([][]rune, h)
	colors := make([][]lipgloss.Style, h)
	for i := range grid {
		grid[i] = make([]rune, w)
		colors[i] = make([]lipgloss.Style, w)
		for j := range grid[i] {
			grid[i][j] = ' '
			colors[i][j] = lipgloss.NewStyle()
		}
	}

	if m.resolver != nil && m.info.TotalBlocks > 0 {
		m.drawBlocks(grid, colors, w, h)
	}

	var lines []string
	for y := 0; y < h; y++ {
		var line strings.Builder
		for x := 0; x < w; x++ {
			line.WriteString(colors[y][x].Render(string(grid[y][x])))
		}
		lines = append(lines, line.String())
	}

	content := strings.Join(lines, "\n")

	style := MapPanelStyle.Width(w).Height(h)
	if m.focused {
		style = style.BorderForeground(ColorPrimary)
	}
	return style.Render(content)
}

// drawBlocks paints every content cell by running it through the
// inverse camera transform. Cells in dead space stay blank.
func (m MapPanel) drawBlocks(grid [][]rune, colors [][]lipgloss.Style, w, h int) {
	span := m.grid.Span()
	spanPx := span * m.cam.Zoom
	drawBorders := spanPx >= borderMinSpan

	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			i := blockmap.BlockAt(float64(cx), float64(cy), m.cam, m.grid, m.info.TotalBlocks)
			if i < 0 {
				continue
			}
			res := m.resolver.Resolve(i)
			style := blockStyle(res.State)
			grid[cy][cx] = ' '
			colors[cy][cx] = style

			if drawBorders {
				m.drawBorderRune(grid, cy, cx, i, span)
			}
		}
	}

	if spanPx >= labelMinWidth {
		m.drawLabels(grid, w, h, span, spanPx)
	}
}

// drawBorderRune replaces the cell rune with a border character when
// the cell sits on the edge of its block's screen rectangle
func (m MapPanel) drawBorderRune(grid [][]rune, cy, cx, i int, span float64) {
	row, col := m.grid.Pos(i)
	x0, y0 := m.cam.WorldToScreen(float64(col)*span, float64(row)*span)
	x1, y1 := m.cam.WorldToScreen(float64(col+1)*span, float64(row+1)*span)

	left := cx == int(math.Floor(x0))
	right := cx == int(math.Ceil(x1))-1
	top := cy == int(math.Floor(y0))
	bottom := cy == int(math.Ceil(y1))-1

	switch {
	case top && left:
		grid[cy][cx] = '┌'
	case top && right:
		grid[cy][cx] = '┐'
	case bottom && left:
		grid[cy][cx] = '└'
	case bottom && right:
		grid[cy][cx] = '┘'
	case top || bottom:
		grid[cy][cx] = '─'
	case left || right:
		grid[cy][cx] = '│'
	}
}

// drawLabels writes block indices into blocks large enough to hold them
func (m MapPanel) drawLabels(grid [][]rune, w, h int, span, spanPx float64) {
	if spanPx < labelMinHeight {
		return
	}

	// Visible block range from the viewport corners
	wx0, wy0 := m.cam.ScreenToWorld(0, 0)
	wx1, wy1 := m.cam.ScreenToWorld(float64(w), float64(h))
	colLo := int(math.Floor(wx0 / span))
	colHi := int(math.Ceil(wx1 / span))
	rowLo := int(math.Floor(wy0 / span))
	rowHi := int(math.Ceil(wy1 / span))
	if colLo < 0 {
		colLo = 0
	}
	if rowLo < 0 {
		rowLo = 0
	}
	if colHi > m.grid.BlocksPerRow {
		colHi = m.grid.BlocksPerRow
	}
	if rowHi > m.grid.TotalRows {
		rowHi = m.grid.TotalRows
	}

	for row := rowLo; row < rowHi; row++ {
		for col := colLo; col < colHi; col++ {
			i := row*m.grid.BlocksPerRow + col
			if i >= m.info.TotalBlocks {
				break
			}
			x0, y0 := m.cam.WorldToScreen(float64(col)*span, float64(row)*span)
			label := fmt.Sprintf("%d", i)
			lx := int(math.Floor(x0)) + 1
			ly := int(math.Floor(y0)) + 1
			if ly < 0 || ly >= h {
				continue
			}
			maxLen := int(spanPx) - 2
			if maxLen > 0 && len(label) > maxLen {
				label = label[:maxLen]
			}
			for j, ch := range label {
				x := lx + j
				if x < 0 || x >= w {
					break
				}
				grid[ly][x] = ch
			}
		}
	}
}
