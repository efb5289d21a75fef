package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/samuli/blockdive/internal/model"
)

// FilePanel lists the files of the current directory. Selecting an
// entry highlights its blocks on the map.
type FilePanel struct {
	dir     string
	entries []model.FileEntry
	cursor  int
	offset  int
	width   int
	height  int
	focused bool

	// Name of the file whose blocks are highlighted, if any
	highlighted string
}

// NewFilePanel creates an empty file panel
func NewFilePanel() FilePanel {
	return FilePanel{}
}

// SetEntries installs a directory listing, keeping the cursor on the
// same name when it survives the refresh
func (f *FilePanel) SetEntries(dir string, entries []model.FileEntry) {
	var current string
	if f.cursor >= 0 && f.cursor < len(f.entries) {
		current = f.entries[f.cursor].Name
	}
	f.dir = dir
	f.entries = entries
	f.cursor = 0
	f.offset = 0
	for i, e := range entries {
		if e.Name == current {
			f.cursor = i
			break
		}
	}
	f.clampScroll()
}

// SetSize sets the panel dimensions
func (f *FilePanel) SetSize(w, h int) {
	f.width = w
	f.height = h
	f.clampScroll()
}

// SetFocused sets focus state
func (f *FilePanel) SetFocused(focused bool) {
	f.focused = focused
}

// SetHighlighted marks the file whose blocks are shown on the map
func (f *FilePanel) SetHighlighted(name string) {
	f.highlighted = name
}

// Selected returns the entry under the cursor, nil when the listing is
// empty
func (f FilePanel) Selected() *model.FileEntry {
	if f.cursor < 0 || f.cursor >= len(f.entries) {
		return nil
	}
	return &f.entries[f.cursor]
}

// MoveUp moves the cursor up one entry
func (f *FilePanel) MoveUp() {
	if f.cursor > 0 {
		f.cursor--
	}
	f.clampScroll()
}

// MoveDown moves the cursor down one entry
func (f *FilePanel) MoveDown() {
	if f.cursor < len(f.entries)-1 {
		f.cursor++
	}
	f.clampScroll()
}

// GoToTop moves the cursor to the first entry
func (f *FilePanel) GoToTop() {
	f.cursor = 0
	f.clampScroll()
}

// GoToBottom moves the cursor to the last entry
func (f *FilePanel) GoToBottom() {
	if len(f.entries) > 0 {
		f.cursor = len(f.entries) - 1
	}
	f.clampScroll()
}

func (f *FilePanel) visibleRows() int {
	rows := f.height - 3 // border + title line
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (f *FilePanel) clampScroll() {
	rows := f.visibleRows()
	if f.cursor < f.offset {
		f.offset = f.cursor
	}
	if f.cursor >= f.offset+rows {
		f.offset = f.cursor - rows + 1
	}
	if f.offset < 0 {
		f.offset = 0
	}
}

// View renders the file listing
func (f FilePanel) View() string {
	w := f.width - 4 // border + padding
	h := f.height - 2
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	var b strings.Builder

	title := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(truncate(f.dir, w))
	b.WriteString(title)
	b.WriteString("\n")

	if len(f.entries) == 0 {
		b.WriteString(HelpStyle.Render("(empty)"))
	}

	rows := f.visibleRows()
	for i := f.offset; i < len(f.entries) && i < f.offset+rows; i++ {
		e := f.entries[i]

		name := e.Name
		if e.IsDir {
			name += "/"
		}
		marker := "  "
		if !e.IsDir && e.Name == f.highlighted {
			marker = "● "
		}

		var size string
		if !e.IsDir {
			size = FormatSize(e.Size)
		}

		// Right-align size within the row
		avail := w - len(marker) - lipgloss.Width(size) - 1
		if avail < 1 {
			avail = 1
		}
		if len(name) > avail {
			name = name[:avail]
		}
		row := fmt.Sprintf("%s%-*s %s", marker, avail, name, size)

		if i == f.cursor && f.focused {
			b.WriteString(FileItemSelected.Render(row))
		} else if e.IsDir {
			b.WriteString(lipgloss.NewStyle().Foreground(ColorUsedFg).Render(row))
		} else {
			b.WriteString(FileItemStyle.Render(row))
		}
		b.WriteString("\n")
	}

	style := FilePanelStyle.Width(w).Height(h)
	if f.focused {
		style = style.BorderForeground(ColorPrimary)
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}
