package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/samuli/blockdive/internal/model"
)

const headerProgressBarWidth = 20 // Width of block usage progress bar

// Header displays the device stats and current allocation strategy
type Header struct {
	info     model.BlockInfo
	strategy model.AllocationType
	width    int
}

// NewHeader creates a new header component
func NewHeader() Header {
	return Header{strategy: model.Contiguous}
}

// SetInfo updates the displayed block info
func (h *Header) SetInfo(info model.BlockInfo) {
	h.info = info
}

// SetStrategy updates the displayed strategy
func (h *Header) SetStrategy(t model.AllocationType) {
	h.strategy = t
}

// SetWidth sets the header width
func (h *Header) SetWidth(w int) {
	h.width = w
}

// View renders the header
func (h Header) View() string {
	appName := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#C084FC")). // soft violet
		Bold(true).
		Render("BLOCKDIVE")

	// Strategy tabs
	var tabs []string
	for _, si := range strategies {
		label := string(si.strategy)
		if si.strategy == h.strategy {
			tabs = append(tabs, StrategyTabActive.Render(label))
		} else {
			tabs = append(tabs, StrategyTabInactive.Render(label))
		}
	}
	strategyTabs := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	// Fragmentation indicator
	var frag string
	if h.info.TotalBlocks > 0 {
		fragStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
		if h.info.FragmentationIndex >= 60 {
			fragStyle = lipgloss.NewStyle().Foreground(ColorDanger)
		} else if h.info.FragmentationIndex >= 30 {
			fragStyle = lipgloss.NewStyle().Foreground(ColorWarning)
		}
		frag = lipgloss.NewStyle().Foreground(ColorMuted).Render("Frag: ") +
			fragStyle.Render(fmt.Sprintf("%d%%", h.info.FragmentationIndex))
	}

	// Usage stats with progress bar
	var stats, statsCompact string
	if h.info.TotalBlocks > 0 {
		usedPct := float64(h.info.UsedBlocks) / float64(h.info.TotalBlocks) * 100
		filled := int(usedPct / 100 * float64(headerProgressBarWidth))
		bar := strings.Repeat("█", filled) + strings.Repeat("░", headerProgressBarWidth-filled)

		stats = StatsStyle.Render(fmt.Sprintf(
			"%d/%d blocks × %s  [%s] %.0f%%",
			h.info.UsedBlocks,
			h.info.TotalBlocks,
			FormatSize(h.info.BlockSize),
			bar,
			usedPct,
		))
		statsCompact = StatsStyle.Render(fmt.Sprintf(
			"%d/%d blocks",
			h.info.UsedBlocks,
			h.info.TotalBlocks,
		))
	}

	appNameWidth := lipgloss.Width(appName)
	tabsWidth := lipgloss.Width(strategyTabs)
	fragWidth := lipgloss.Width(frag)
	statsWidth := lipgloss.Width(stats)

	sep := lipgloss.NewStyle().Foreground(ColorBorder).Render(" │ ")
	sepWidth := lipgloss.Width(sep)

	totalContent := appNameWidth + sepWidth + tabsWidth + fragWidth + statsWidth + 4

	// For narrow terminals, progressively hide elements
	if h.width < totalContent && statsCompact != "" {
		stats = statsCompact
		statsWidth = lipgloss.Width(stats)
		totalContent = appNameWidth + sepWidth + tabsWidth + fragWidth + statsWidth + 4
	}
	if h.width < totalContent && fragWidth > 0 {
		frag = ""
		fragWidth = 0
		totalContent = appNameWidth + sepWidth + tabsWidth + statsWidth + 2
	}
	if h.width < totalContent && statsWidth > 0 {
		stats = ""
		totalContent = appNameWidth + sepWidth + tabsWidth
	}

	remainingSpace := h.width - totalContent
	if remainingSpace < 2 {
		remainingSpace = 2
	}
	leftGap := remainingSpace / 2
	rightGap := remainingSpace - leftGap
	if leftGap < 1 {
		leftGap = 1
	}
	if rightGap < 1 {
		rightGap = 1
	}

	line := appName + sep + strategyTabs + strings.Repeat(" ", leftGap) + frag + strings.Repeat(" ", rightGap) + stats

	return HeaderStyle.MaxHeight(1).Render(line)
}
