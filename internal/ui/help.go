package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpKeyColumnWidth = 12 // Width for key column in help text

// HelpOverlay displays keyboard shortcuts in a centered overlay
type HelpOverlay struct {
	visible bool
	width   int
	height  int
}

// NewHelpOverlay creates a new help overlay component
func NewHelpOverlay() HelpOverlay {
	return HelpOverlay{
		visible: false,
	}
}

// Toggle toggles the visibility of the help overlay
func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

// SetVisible sets the visibility of the help overlay
func (h *HelpOverlay) SetVisible(visible bool) {
	h.visible = visible
}

// IsVisible returns whether the help overlay is visible
func (h HelpOverlay) IsVisible() bool {
	return h.visible
}

// SetSize sets the dimensions of the help overlay
func (ho *HelpOverlay) SetSize(w, h int) {
	ho.width = w
	ho.height = h
}

// View renders the help overlay
func (h HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)

	titleStyle := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Bold(true).
		MarginTop(1)

	keyStyle := HelpKey
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E4E4E7"))

	var content strings.Builder

	content.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	content.WriteString("\n")

	content.WriteString(sectionStyle.Render("MAP VIEW"))
	content.WriteString("\n")
	content.WriteString(formatHelpLine(keyStyle, descStyle, "arrows/hjkl", "Pan"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "+/-", "Zoom in/out"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "0", "Reset view"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "mouse drag", "Pan"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "click", "Block details"))

	content.WriteString(sectionStyle.Render("LIST VIEW"))
	content.WriteString("\n")
	content.WriteString(formatHelpLine(keyStyle, descStyle, "n/p", "Next/prev page"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "←/→", "Jump 5 pages"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "g/G", "First/last page"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "J", "Jump to page"))

	content.WriteString(sectionStyle.Render("ACTIONS"))
	content.WriteString("\n")
	content.WriteString(formatHelpLine(keyStyle, descStyle, "f", "File selector"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "s", "Allocation strategy"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "v", "Toggle map/list view"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "u", "Usage treemap"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "/", "Search files"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, ":", "Shell command"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "r", "Refresh"))

	content.WriteString(sectionStyle.Render("OTHER"))
	content.WriteString("\n")
	content.WriteString(formatHelpLine(keyStyle, descStyle, "?", "Toggle this help"))
	content.WriteString(formatHelpLine(keyStyle, descStyle, "q", "Quit"))

	content.WriteString(sectionStyle.Render("BLOCK COLORS"))
	content.WriteString("\n")
	content.WriteString(formatColorLine(ColorFreeFg, "Free"))
	content.WriteString(formatColorLine(ColorUsedFg, "Used"))
	content.WriteString(formatColorLine(ColorSelected, "Selected file"))
	content.WriteString(formatColorLineNoNewline(ColorSearchFg, "Search match"))

	box := boxStyle.Render(content.String())

	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}

// formatHelpLine formats a single help line with key and description
func formatHelpLine(keyStyle, descStyle lipgloss.Style, key, desc string) string {
	return keyStyle.Width(helpKeyColumnWidth).Render(key) + descStyle.Render(desc) + "\n"
}

// formatColorLine formats a color indicator line
func formatColorLine(color lipgloss.Color, desc string) string {
	colorStyle := lipgloss.NewStyle().Foreground(color)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E4E4E7"))
	return colorStyle.Width(helpKeyColumnWidth).Render("████") + descStyle.Render(desc) + "\n"
}

// formatColorLineNoNewline formats a color indicator line without trailing newline
func formatColorLineNoNewline(color lipgloss.Color, desc string) string {
	colorStyle := lipgloss.NewStyle().Foreground(color)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E4E4E7"))
	return colorStyle.Width(helpKeyColumnWidth).Render("████") + descStyle.Render(desc)
}

// HelpBar renders a bottom help bar with key hints
func HelpBar(width int) string {
	keyStyle := HelpKey
	sepStyle := HelpStyle

	hints := []struct {
		key  string
		desc string
	}{
		{"hjkl", "pan"},
		{"+/-", "zoom"},
		{"f", "files"},
		{"s", "strategy"},
		{"v", "view"},
		{":", "cmd"},
		{"/", "search"},
		{"?", "help"},
		{"q", "quit"},
	}

	var parts []string
	for _, hint := range hints {
		parts = append(parts, keyStyle.Render(hint.key)+sepStyle.Render(" "+hint.desc))
	}

	bar := strings.Join(parts, sepStyle.Render("  |  "))

	return HelpStyle.Width(width).Render(bar)
}
