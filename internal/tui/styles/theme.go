package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-serial-session/internal/tui/colors"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	// Session state styles
	StatusOpenStyle = lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true)

	StatusClosedStyle = lipgloss.NewStyle().
				Foreground(colors.Overlay0).
				Bold(true)

	StatusOpeningStyle = lipgloss.NewStyle().
				Foreground(colors.Yellow).
				Bold(true)

	StatusDisconnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Red).
				Bold(true)

	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(1, 2).
			Margin(1, 0)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)

	InfoStyle = lipgloss.NewStyle().
			Foreground(colors.Subtext0)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colors.Mauve)
)

// SessionStatus is what the UI shows about the serial session
type SessionStatus int

const (
	StatusClosed SessionStatus = iota
	StatusOpening
	StatusOpen
	StatusDisconnected
)

func (s SessionStatus) String() string {
	switch s {
	case StatusOpening:
		return "opening"
	case StatusOpen:
		return "open"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "closed"
	}
}

func GetStatusStyle(status SessionStatus) lipgloss.Style {
	switch status {
	case StatusOpen:
		return StatusOpenStyle
	case StatusOpening:
		return StatusOpeningStyle
	case StatusDisconnected:
		return StatusDisconnectedStyle
	default:
		return StatusClosedStyle
	}
}
