package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/tally/pkg/types"
)

type styles struct {
	Title  lipgloss.Style
	Count  lipgloss.Style
	Muted  lipgloss.Style
	Entry  lipgloss.Style
	Status lipgloss.Style
	Input  lipgloss.Style
}

type palette struct {
	accent, text, muted, status lipgloss.Color
}

var (
	darkPalette  = palette{accent: "#7DD3FC", text: "#F3F4F6", muted: "#9CA3AF", status: "#FBBF24"}
	lightPalette = palette{accent: "#0369A1", text: "#111827", muted: "#6B7280", status: "#B45309"}
)

// newStyles picks colors for theme. ThemeSystem asks dark for the
// terminal background.
func newStyles(theme types.Theme, dark func() bool) styles {
	p := lightPalette
	switch theme {
	case types.ThemeDark:
		p = darkPalette
	case types.ThemeSystem:
		if dark() {
			p = darkPalette
		}
	}
	return styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		Count:  lipgloss.NewStyle().Bold(true).Foreground(p.text).Padding(1, 4),
		Muted:  lipgloss.NewStyle().Foreground(p.muted),
		Entry:  lipgloss.NewStyle().Foreground(p.text),
		Status: lipgloss.NewStyle().Foreground(p.status),
		Input:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).Padding(0, 1),
	}
}
