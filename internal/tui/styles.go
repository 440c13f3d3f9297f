package tui

import "github.com/charmbracelet/lipgloss"

// Colors adapt to light and dark terminals.
var (
	accent = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#AD8CFF"}
	muted  = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	good   = lipgloss.AdaptiveColor{Light: "#1F8A3B", Dark: "#43BF6D"}
	broken = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF5F5F"}
)

var (
	tabStyle = lipgloss.NewStyle().Padding(0, 2)

	activeTabStyle = tabStyle.
			Foreground(accent).
			Bold(true).
			Underline(true)

	inactiveTabStyle = tabStyle.Foreground(muted)

	statusStyle = lipgloss.NewStyle().Foreground(good)

	// errors in the status line and confirm questions share the broken color
	warningStyle = lipgloss.NewStyle().Foreground(broken)
	dangerStyle  = warningStyle.Bold(true)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(broken).
			Padding(1, 4)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)
