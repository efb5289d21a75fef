package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/samuli/blockdive/internal/model"
)

// strategyInfo pairs a strategy with its one-line description
type strategyInfo struct {
	strategy model.AllocationType
	desc     string
}

var strategies = []strategyInfo{
	{model.Contiguous, "consecutive blocks, best-fit run"},
	{model.Linked, "scattered blocks, linked in order"},
	{model.Indexed, "first free blocks, via index"},
}

// StrategySelector displays the allocation strategies for selection
type StrategySelector struct {
	selected int
	visible  bool
	width    int
	height   int
}

// NewStrategySelector creates a new strategy selector component
func NewStrategySelector() StrategySelector {
	return StrategySelector{}
}

// SetCurrent highlights the given strategy
func (s *StrategySelector) SetCurrent(t model.AllocationType) {
	for i, si := range strategies {
		if si.strategy == t {
			s.selected = i
			return
		}
	}
}

// Selected returns the currently highlighted strategy
func (s StrategySelector) Selected() model.AllocationType {
	return strategies[s.selected].strategy
}

// Toggle toggles visibility of the selector
func (s *StrategySelector) Toggle() {
	s.visible = !s.visible
}

// SetVisible sets visibility of the selector
func (s *StrategySelector) SetVisible(visible bool) {
	s.visible = visible
}

// IsVisible returns whether the selector is visible
func (s StrategySelector) IsVisible() bool {
	return s.visible
}

// SetSize sets the dimensions for centering
func (s *StrategySelector) SetSize(w, h int) {
	s.width = w
	s.height = h
}

// MoveUp moves selection up
func (s *StrategySelector) MoveUp() {
	if s.selected > 0 {
		s.selected--
	}
}

// MoveDown moves selection down
func (s *StrategySelector) MoveDown() {
	if s.selected < len(strategies)-1 {
		s.selected++
	}
}

// View renders the strategy selector overlay
func (s StrategySelector) View() string {
	if !s.visible {
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

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E4E4E7")).
		PaddingLeft(1).
		PaddingRight(1)

	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(ColorPrimary).
		Bold(true).
		PaddingLeft(1).
		PaddingRight(1)

	hintStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	var content strings.Builder

	content.WriteString(titleStyle.Render("Allocation Strategy"))
	content.WriteString("\n")

	for i, si := range strategies {
		line := fmt.Sprintf("%-10s %s", si.strategy, si.desc)
		if i == s.selected {
			content.WriteString(selectedStyle.Render(line))
		} else {
			content.WriteString(normalStyle.Render(line))
		}
		content.WriteString("\n")
	}

	content.WriteString(hintStyle.Render("↑/↓ select  Enter confirm  Esc cancel"))

	box := boxStyle.Render(strings.TrimSuffix(content.String(), "\n"))

	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, box)
}
