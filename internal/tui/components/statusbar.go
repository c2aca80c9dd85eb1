package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	serial "github.com/allbin/go-serial-session"
	"github.com/allbin/go-serial-session/internal/tui/colors"
	"github.com/allbin/go-serial-session/internal/tui/styles"
)

type StatusBar struct {
	title    string
	portPath string
	status   styles.SessionStatus
	err      error
	width    int
	rxBytes  int
}

func NewStatusBar(title string) *StatusBar {
	return &StatusBar{
		title:  title,
		status: styles.StatusClosed,
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetOpening(portPath string) {
	sb.portPath = portPath
	sb.status = styles.StatusOpening
	sb.err = nil
}

func (sb *StatusBar) SetOpen(portPath string) {
	sb.portPath = portPath
	sb.status = styles.StatusOpen
	sb.err = nil
	sb.rxBytes = 0
}

func (sb *StatusBar) SetClosed(err error) {
	sb.status = styles.StatusClosed
	sb.err = err
}

func (sb *StatusBar) SetDisconnected(err error) {
	sb.status = styles.StatusDisconnected
	sb.err = err
}

func (sb *StatusBar) AddBytes(n int) {
	sb.rxBytes += n
}

func (sb *StatusBar) Status() styles.SessionStatus {
	return sb.status
}

func (sb *StatusBar) Err() error {
	return sb.err
}

// View renders a single-line status bar: mode, port and session state on the
// left, line settings and clock on the right
func (sb *StatusBar) View(mode, timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	modeStyle := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(colors.Blue).
		Bold(true).
		Padding(0, 1)
	if sb.status == styles.StatusDisconnected {
		modeStyle = modeStyle.Background(colors.Red)
	}
	modeView := modeStyle.Render(mode)

	portPath := sb.portPath
	if portPath == "" {
		portPath = sb.title
	}
	port := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(portPath)

	var indicator string
	switch sb.status {
	case styles.StatusOpen:
		indicator = "●"
	case styles.StatusDisconnected:
		indicator = "✗"
	default:
		indicator = "○"
	}
	indicatorView := styles.GetStatusStyle(sb.status).Render(indicator + " " + sb.status.String())

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, modeView, port, indicatorView, divider)

	details := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(fmt.Sprintf("⚡ %d baud 8N1  RX %s", serial.SessionBaudRate, FormatBytes(sb.rxBytes)))

	clock := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(timestamp)

	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, details, divider, clock)

	spacerWidth := terminalWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(terminalWidth).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}

// FormatBytes renders a byte count with a binary unit
func FormatBytes(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KiB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1024*1024))
	}
}
