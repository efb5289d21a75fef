package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/samuli/blockdive/internal/core"
)

const detailKeyColumnWidth = 12 // Width for label column in detail text

// DetailOverlay shows the resolved detail of a clicked block in a
// centered overlay
type DetailOverlay struct {
	detail  core.BlockDetail
	visible bool
	width   int
	height  int
}

// NewDetailOverlay creates a hidden detail overlay
func NewDetailOverlay() DetailOverlay {
	return DetailOverlay{}
}

// Show displays the overlay for a block detail
func (d *DetailOverlay) Show(detail core.BlockDetail) {
	d.detail = detail
	d.visible = true
}

// Hide hides the overlay
func (d *DetailOverlay) Hide() {
	d.visible = false
}

// IsVisible returns whether the overlay is visible
func (d DetailOverlay) IsVisible() bool {
	return d.visible
}

// SetSize sets the dimensions for centering
func (d *DetailOverlay) SetSize(w, h int) {
	d.width = w
	d.height = h
}

// View renders the detail overlay
func (d DetailOverlay) View() string {
	if !d.visible {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2).
		Background(lipgloss.Color("#1F1F23"))

	titleStyle := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		MarginBottom(1)

	labelStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E4E4E7"))

	hintStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	row := func(label, value string) string {
		return labelStyle.Width(detailKeyColumnWidth).Render(label) + valueStyle.Render(value) + "\n"
	}

	var content strings.Builder

	content.WriteString(titleStyle.Render(fmt.Sprintf("Block %d", d.detail.BlockIndex)))
	content.WriteString("\n")
	content.WriteString(row("Status", d.detail.Status))
	content.WriteString(row("Used", fmt.Sprintf("%v", d.detail.IsUsed)))
	content.WriteString(row("Selected", fmt.Sprintf("%v", d.detail.IsSelected)))
	if d.detail.Filename != "" {
		content.WriteString(row("File", d.detail.Filename))
	}
	if o := d.detail.Owner; o != nil {
		content.WriteString(row("Type", o.FileType))
		content.WriteString(row("Size", FormatSize(o.Size)))
		content.WriteString(row("Allocation", string(o.AllocationType)))
	}

	content.WriteString(hintStyle.Render("Esc close"))

	box := boxStyle.Render(strings.TrimSuffix(content.String(), "\n"))

	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, box)
}
