package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeffwilliams/squarify"

	"github.com/samuli/blockdive/internal/model"
)

// UsageBlock is one rectangle of the usage treemap
type UsageBlock struct {
	Entry         *model.FileEntry
	X, Y          int
	Width, Height int
	// For the grouped remainder (when Entry is nil)
	IsGrouped  bool
	GroupCount int
	GroupSize  int64
}

// UsagePanel shows the current directory as a treemap: each file is a
// rectangle proportional to its size, colored by file type. It answers
// "what is eating the device" at a glance, complementing the block map
// which answers "where".
type UsagePanel struct {
	dir     string
	entries []model.FileEntry
	blocks  []UsageBlock
	width   int
	height  int
	visible bool
}

const (
	usageMaxItems  = 15 // max rectangles before grouping remainder into "N more"
	usageMinHeight = 3  // minimum height of the grouped strip
)

// NewUsagePanel creates a hidden usage panel
func NewUsagePanel() UsagePanel {
	return UsagePanel{}
}

// Toggle flips visibility
func (u *UsagePanel) Toggle() {
	u.visible = !u.visible
}

// IsVisible reports whether the panel is shown
func (u UsagePanel) IsVisible() bool {
	return u.visible
}

// SetEntries installs the directory listing to visualize
func (u *UsagePanel) SetEntries(dir string, entries []model.FileEntry) {
	u.dir = dir
	u.entries = entries
	u.layout()
}

// SetSize sets the panel dimensions
func (u *UsagePanel) SetSize(w, h int) {
	u.width = w
	u.height = h
	u.layout()
}

// usageItem wraps a directory entry for the squarify algorithm
type usageItem struct {
	entry    *model.FileEntry
	size     float64
	children []*usageItem
}

// Size implements squarify.TreeSizer
func (u *usageItem) Size() float64 { return u.size }

// NumChildren implements squarify.TreeSizer
func (u *usageItem) NumChildren() int { return len(u.children) }

// Child implements squarify.TreeSizer
func (u *usageItem) Child(i int) squarify.TreeSizer { return u.children[i] }

// layout computes rectangles with the squarify library
func (u *UsagePanel) layout() {
	u.blocks = nil

	contentW := u.width - 2
	contentH := u.height - 2
	if contentW < 2 || contentH < 2 {
		return
	}

	items := make([]*usageItem, 0, len(u.entries))
	for i := range u.entries {
		e := &u.entries[i]
		if e.IsDir {
			continue
		}
		size := float64(e.Size)
		if size < 1 {
			size = 1
		}
		items = append(items, &usageItem{entry: e, size: size})
	}
	if len(items) == 0 {
		return
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].size > items[j].size
	})

	mainRect := squarify.Rect{W: float64(contentW), H: float64(contentH)}
	display := items
	grouped := 0
	var groupSize int64
	if len(items) > usageMaxItems {
		display = items[:usageMaxItems-1]
		for _, it := range items[usageMaxItems-1:] {
			grouped++
			groupSize += int64(it.size)
		}
		mainRect.H = float64(contentH - usageMinHeight)
	}

	root := &usageItem{children: display}
	for _, c := range display {
		root.size += c.size
	}

	blocks, metas := squarify.Squarify(root, mainRect, squarify.Options{
		MaxDepth: 1,
		Sort:     true,
	})

	maxEndY := 0
	for i, block := range blocks {
		item, ok := block.TreeSizer.(*usageItem)
		if !ok || item.entry == nil {
			continue
		}
		if i >= len(metas) || metas[i].Depth != 0 {
			continue
		}

		// Round both edges so adjacent rectangles share boundaries
		x := int(math.Round(block.X))
		y := int(math.Round(block.Y))
		w := int(math.Round(block.X+block.W)) - x
		h := int(math.Round(block.Y+block.H)) - y
		if x+w > contentW {
			w = contentW - x
		}
		if y+h > contentH {
			h = contentH - y
		}
		if w < 1 || h < 1 || x >= contentW || y >= contentH {
			continue
		}
		if y+h > maxEndY {
			maxEndY = y + h
		}

		u.blocks = append(u.blocks, UsageBlock{
			Entry:  item.entry,
			X:      x,
			Y:      y,
			Width:  w,
			Height: h,
		})
	}

	if grouped > 0 {
		u.blocks = append(u.blocks, UsageBlock{
			X:          0,
			Y:          maxEndY,
			Width:      contentW,
			Height:     maxInt(contentH-maxEndY, 1),
			IsGrouped:  true,
			GroupCount: grouped,
			GroupSize:  groupSize,
		})
	}
}

// typeColor maps a file type to a treemap fill color
func typeColor(t string) lipgloss.Color {
	switch t {
	case model.TypeText:
		return lipgloss.Color("#14532D")
	case model.TypeImage:
		return lipgloss.Color("#1E3A5F")
	case model.TypeVideo:
		return lipgloss.Color("#581C87")
	case model.TypeAudio:
		return lipgloss.Color("#7C2D12")
	case model.TypeDocument:
		return lipgloss.Color("#713F12")
	case model.TypeArchive:
		return lipgloss.Color("#134E4A")
	case model.TypeExecutable:
		return lipgloss.Color("#7F1D1D")
	default:
		return lipgloss.Color("#2D2D2D")
	}
}

// View renders the treemap
func (u UsagePanel) View() string {
	contentW := u.width - 2
	contentH := u.height - 2
	if contentW < 1 {
		contentW = 1
	}
	if contentH < 1 {
		contentH = 1
	}

	if len(u.blocks) == 0 {
		empty := lipgloss.Place(contentW, contentH, lipgloss.Center, lipgloss.Center,
			HelpStyle.Render("No files in "+u.dir))
		return FilePanelStyle.Width(contentW).Height(contentH).Render(empty)
	}

	grid := make([][]rune, contentH)
	colors := make([][]lipgloss.Style, contentH)
	for i := range grid {
		grid[i] = make([]rune, contentW)
		colors[i] = make([]lipgloss.Style, contentW)
		for j := range grid[i] {
			grid[i][j] = ' '
			colors[i][j] = lipgloss.NewStyle()
		}
	}

	for _, block := range u.blocks {
		u.drawBlock(grid, colors, block, contentW, contentH)
	}

	var lines []string
	for y := 0; y < contentH; y++ {
		var line strings.Builder
		for x := 0; x < contentW; x++ {
			line.WriteString(colors[y][x].Render(string(grid[y][x])))
		}
		lines = append(lines, line.String())
	}

	return FilePanelStyle.Width(contentW).Height(contentH).
		Render(strings.Join(lines, "\n"))
}

// drawBlock draws a single rectangle onto the grid
func (u UsagePanel) drawBlock(grid [][]rune, colors [][]lipgloss.Style, block UsageBlock, gridW, gridH int) {
	if block.Width < 1 || block.Height < 1 {
		return
	}

	var bg lipgloss.Color
	var label, sub string
	if block.IsGrouped {
		bg = lipgloss.Color("#3F3F46")
		label = fmt.Sprintf("%d more", block.GroupCount)
		sub = FormatSize(block.GroupSize)
	} else {
		bg = typeColor(block.Entry.FileType)
		label = block.Entry.Name
		sub = FormatSize(block.Entry.Size)
	}

	fill := lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#E4E4E7"))
	border := lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#4B5563"))

	for y := block.Y; y < block.Y+block.Height && y < gridH; y++ {
		for x := block.X; x < block.X+block.Width && x < gridW; x++ {
			if y >= 0 && x >= 0 {
				grid[y][x] = ' '
				colors[y][x] = fill
			}
		}
	}

	// Border runes on the rectangle edges
	y0, y1 := block.Y, block.Y+block.Height-1
	x0, x1 := block.X, block.X+block.Width-1
	for x := x0; x <= x1 && x < gridW; x++ {
		if x < 0 {
			continue
		}
		if y0 >= 0 && y0 < gridH {
			grid[y0][x] = '─'
			colors[y0][x] = border
		}
		if y1 >= 0 && y1 < gridH {
			grid[y1][x] = '─'
			colors[y1][x] = border
		}
	}
	for y := y0; y <= y1 && y < gridH; y++ {
		if y < 0 {
			continue
		}
		if x0 >= 0 && x0 < gridW {
			grid[y][x0] = '│'
			colors[y][x0] = border
		}
		if x1 >= 0 && x1 < gridW {
			grid[y][x1] = '│'
			colors[y][x1] = border
		}
	}
	setCorner(grid, colors, y0, x0, '┌', border, gridW, gridH)
	setCorner(grid, colors, y0, x1, '┐', border, gridW, gridH)
	setCorner(grid, colors, y1, x0, '└', border, gridW, gridH)
	setCorner(grid, colors, y1, x1, '┘', border, gridW, gridH)

	// Label if space permits
	if block.Width > 4 && block.Height > 2 {
		writeLabel(grid, colors, label, block.Y+1, block.X+2, block.X+block.Width-2, fill, gridW, gridH)
		if block.Height > 3 && block.Width > 6 {
			writeLabel(grid, colors, sub, block.Y+2, block.X+2, block.X+block.Width-2, fill, gridW, gridH)
		}
	}
}

func setCorner(grid [][]rune, colors [][]lipgloss.Style, y, x int, ch rune, style lipgloss.Style, gridW, gridH int) {
	if y >= 0 && y < gridH && x >= 0 && x < gridW {
		grid[y][x] = ch
		colors[y][x] = style
	}
}

func writeLabel(grid [][]rune, colors [][]lipgloss.Style, label string, y, x, maxX int, style lipgloss.Style, gridW, gridH int) {
	if y < 0 || y >= gridH {
		return
	}
	for i, ch := range label {
		cx := x + i
		if cx >= gridW || cx >= maxX {
			break
		}
		if cx >= 0 {
			grid[y][cx] = ch
			colors[y][cx] = style
		}
	}
}
