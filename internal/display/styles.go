package display

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Header    lipgloss.Style
	Banner    lipgloss.Style
	Info      lipgloss.Style
	Actor     lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Fold      lipgloss.Style
	Call      lipgloss.Style
	Raise     lipgloss.Style
	Check     lipgloss.Style
	Winner    lipgloss.Style
	Loss      lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true),
		Banner: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Info: r.NewStyle().
			Foreground(lipgloss.Color("#00B7C3")),
		Actor: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		RedCard: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: r.NewStyle().
			Foreground(lipgloss.Color("#C0C0C0")).
			Bold(true),
		Fold: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),
		Call: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")),
		Raise: r.NewStyle().
			Foreground(lipgloss.Color("#D670D6")).
			Bold(true),
		Check: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Winner: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Loss: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),
	}
}
