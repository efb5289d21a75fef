package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/lipgloss"

	"github.com/samuli/blockdive/internal/blockmap"
	"github.com/samuli/blockdive/internal/model"
)

// listCellWidth is the rendered width of one block cell
const listCellWidth = 2

// ListPanel renders blocks as a paginated fixed grid. It is the
// fallback for devices too large to zoom around comfortably: every
// page shows the same block size regardless of device size, and block
// states resolve through the same resolver the map view uses.
type ListPanel struct {
	info     model.BlockInfo
	resolver *blockmap.Resolver
	pager    blockmap.Pager
	pg       paginator.Model

	width   int
	height  int
	focused bool

	originX int
	originY int
}

// NewListPanel creates a list panel on the first page
func NewListPanel() ListPanel {
	pg := paginator.New()
	pg.Type = paginator.Arabic
	return ListPanel{
		pager: blockmap.NewPager(0, blockmap.DefaultPageSize),
		pg:    pg,
	}
}

// SetSnapshot installs a new snapshot, keeping the current page when it
// still exists
func (l *ListPanel) SetSnapshot(info model.BlockInfo, resolver *blockmap.Resolver) {
	page := l.pager.Page
	l.info = info
	l.resolver = resolver
	l.pager = blockmap.NewPager(info.TotalBlocks, blockmap.DefaultPageSize)
	if page < l.pager.TotalPages() {
		l.pager.Page = page
	} else {
		l.pager.Last()
	}
	l.syncPaginator()
}

// SetSize sets the panel dimensions
func (l *ListPanel) SetSize(w, h int) {
	l.width = w
	l.height = h
}

// SetOrigin records where the panel's top-left corner sits on screen
func (l *ListPanel) SetOrigin(x, y int) {
	l.originX = x
	l.originY = y
}

// SetFocused sets focus state
func (l *ListPanel) SetFocused(focused bool) {
	l.focused = focused
}

// Pager returns the current pager state
func (l ListPanel) Pager() blockmap.Pager {
	return l.pager
}

// NextPage advances one page
func (l *ListPanel) NextPage() { l.pager.Next(); l.syncPaginator() }

// PrevPage goes back one page
func (l *ListPanel) PrevPage() { l.pager.Prev(); l.syncPaginator() }

// FirstPage moves to the first page
func (l *ListPanel) FirstPage() { l.pager.First(); l.syncPaginator() }

// LastPage moves to the last page
func (l *ListPanel) LastPage() { l.pager.Last(); l.syncPaginator() }

// JumpPages moves by delta pages, clamping at both ends
func (l *ListPanel) JumpPages(delta int) { l.pager.Jump(delta); l.syncPaginator() }

// SetPage moves to a one-based page number; out-of-range numbers are a
// no-op and return false
func (l *ListPanel) SetPage(n int) bool {
	ok := l.pager.SetPage(n)
	if ok {
		l.syncPaginator()
	}
	return ok
}

func (l *ListPanel) syncPaginator() {
	l.pg.PerPage = l.pager.PageSize
	l.pg.SetTotalPages(maxInt(l.pager.Total, 1))
	l.pg.Page = l.pager.Page
}

// BlockAtScreen maps a terminal mouse position to the block index of
// the cell under it, -1 for dead space
func (l ListPanel) BlockAtScreen(x, y int) int {
	// Content starts after the border and the two header lines
	cx := x - l.originX - 2 // border + padding
	cy := y - l.originY - 1 - listHeaderLines
	if cx < 0 || cy < 0 {
		return -1
	}

	cols := l.pager.Columns()
	col := cx / listCellWidth
	if col >= cols {
		return -1
	}
	start, end := l.pager.Range()
	i := start + cy*cols + col
	if i < start || i >= end {
		return -1
	}
	return i
}

// listHeaderLines is the line count above the block grid (summary +
// blank separator)
const listHeaderLines = 2

// View renders the current page
func (l ListPanel) View() string {
	w := l.width - 4 // border + padding
	h := l.height - 2
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	var b strings.Builder

	summary := l.pager.Summarize(l.info, l.resolver)
	start, end := l.pager.Range()
	header := fmt.Sprintf("Page %d/%d · blocks %d-%d · %d free · %d used",
		l.pager.Page+1, l.pager.TotalPages(), start, end-1, summary.Free, summary.Used)
	if summary.Selected > 0 {
		header += fmt.Sprintf(" · %d selected", summary.Selected)
	}
	b.WriteString(StatsStyle.Render(truncate(header, w)))
	b.WriteString("\n\n")

	cols := l.pager.Columns()
	gridRows := h - listHeaderLines - 1 // reserve bottom line for paginator
	if gridRows < 1 {
		gridRows = 1
	}

	row := 0
	var line strings.Builder
	for i := start; i < end && row < gridRows; i++ {
		var style lipgloss.Style
		if l.resolver != nil {
			style = blockStyle(l.resolver.Resolve(i).State)
		} else {
			style = blockStyle(blockmap.StateFree)
		}
		// Foreground cells read better than background fills at this
		// density
		line.WriteString(style.UnsetBackground().Render("██"))

		if (i-start+1)%cols == 0 {
			b.WriteString(line.String())
			b.WriteString("\n")
			line.Reset()
			row++
		}
	}
	if line.Len() > 0 && row < gridRows {
		b.WriteString(line.String())
		b.WriteString("\n")
		row++
	}
	for ; row < gridRows; row++ {
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(l.pg.View()))

	style := FilePanelStyle.Width(w).Height(h)
	if l.focused {
		style = style.BorderForeground(ColorPrimary)
	}
	return style.Render(b.String())
}

func truncate(s string, w int) string {
	if len(s) <= w {
		return s
	}
	if w < 1 {
		return ""
	}
	return s[:w]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
