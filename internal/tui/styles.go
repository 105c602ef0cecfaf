package tui

import "github.com/charmbracelet/lipgloss"

// Frame styles share the renderer's palette, with light variants for light
// terminals.
var (
	feltColor = lipgloss.AdaptiveColor{Light: "#1B7F4B", Dark: "#2ECC71"}
	railColor = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#4E4E4E"}

	decisionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#007C85", Dark: "#00B7C3"}).
			Bold(true)

	rejectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"})

	handOverStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9A7D0A", Dark: "#FFD700"}).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(railColor).
			Italic(true)
)
