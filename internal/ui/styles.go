package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/samuli/blockdive/internal/blockmap"
)

// Colors
var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorSuccess = lipgloss.Color("#73F59F")
	ColorWarning = lipgloss.Color("#F5A623")
	ColorDanger  = lipgloss.Color("#F56565")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorBorder  = lipgloss.Color("#3F3F46")

	// Block state colors
	ColorFree       = lipgloss.Color("#2D2D2D") // dark gray
	ColorFreeFg     = lipgloss.Color("#4B5563")
	ColorUsed       = lipgloss.Color("#1E3A5F") // deep blue
	ColorUsedFg     = lipgloss.Color("#7DD3FC")
	ColorSelected   = lipgloss.Color("#7D56F4") // violet
	ColorSelectedFg = lipgloss.Color("#FFFFFF")
	ColorSearch     = lipgloss.Color("#B45309") // amber
	ColorSearchFg   = lipgloss.Color("#FDE047")
	ColorHover      = lipgloss.Color("#FFFFFF")
	ColorHoverFg    = lipgloss.Color("#000000")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F1F23")).
			Padding(0, 1)

	StrategyTabActive = lipgloss.NewStyle().
				Background(ColorPrimary).
				Foreground(lipgloss.Color("#FFFFFF")).
				Padding(0, 1).
				Bold(true)

	StrategyTabInactive = lipgloss.NewStyle().
				Background(lipgloss.Color("#3F3F46")).
				Foreground(lipgloss.Color("#A1A1AA")).
				Padding(0, 1)

	StatsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E4E4E7"))

	// Panels
	MapPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	FilePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	FileItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E4E4E7"))

	FileItemSelected = lipgloss.NewStyle().
				Background(ColorPrimary).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	// Status and input bars
	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E4E4E7")).
			Padding(0, 1)

	MessageStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Padding(0, 1)

	// Help bar
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
)

// blockStyle returns the cell style for a resolved block state
func blockStyle(s blockmap.BlockState) lipgloss.Style {
	switch s {
	case blockmap.StateHover:
		return lipgloss.NewStyle().Background(ColorHover).Foreground(ColorHoverFg).Bold(true)
	case blockmap.StateSearchMatch:
		return lipgloss.NewStyle().Background(ColorSearch).Foreground(ColorSearchFg)
	case blockmap.StateSelected:
		return lipgloss.NewStyle().Background(ColorSelected).Foreground(ColorSelectedFg)
	case blockmap.StateUsed:
		return lipgloss.NewStyle().Background(ColorUsed).Foreground(ColorUsedFg)
	default:
		return lipgloss.NewStyle().Background(ColorFree).Foreground(ColorFreeFg)
	}
}

// FormatSize formats bytes to human readable string
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1fTB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1fGB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1fMB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1fKB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}
