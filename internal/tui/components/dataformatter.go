package components

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-serial-session/internal/tui/colors"
)

// DataReceivedMsg carries one chunk of decoded text from the session
type DataReceivedMsg struct {
	Timestamp time.Time
	Text      string
}

type DisplayMode struct {
	ShowHex        bool
	ShowTimestamps bool
}

type DataFormatter struct {
	mode DisplayMode
}

func NewDataFormatter(showHex, showTimestamps bool) *DataFormatter {
	return &DataFormatter{
		mode: DisplayMode{
			ShowHex:        showHex,
			ShowTimestamps: showTimestamps,
		},
	}
}

func (df *DataFormatter) SetDisplayMode(showHex, showTimestamps bool) {
	df.mode.ShowHex = showHex
	df.mode.ShowTimestamps = showTimestamps
}

func (df *DataFormatter) GetDisplayMode() DisplayMode {
	return df.mode
}

func (df *DataFormatter) FormatMessage(msg DataReceivedMsg) string {
	indicator := lipgloss.NewStyle().
		Foreground(colors.Sky).
		Bold(true).
		Render("↙ RX")

	var body string
	if df.mode.ShowHex {
		body = fmt.Sprintf("HEX: % X", []byte(msg.Text))
	} else {
		body = EscapeControl(msg.Text)
	}

	if !df.mode.ShowTimestamps {
		return fmt.Sprintf("%s: %s", indicator, body)
	}

	timestamp := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Render(fmt.Sprintf("[%s]", msg.Timestamp.Format("15:04:05.000")))
	return fmt.Sprintf("%s %s: %s", timestamp, indicator, body)
}

func (df *DataFormatter) FormatMessages(messages []DataReceivedMsg) []string {
	formatted := make([]string, len(messages))
	for i, msg := range messages {
		formatted[i] = df.FormatMessage(msg)
	}
	return formatted
}

func (df *DataFormatter) ToggleHex() {
	df.mode.ShowHex = !df.mode.ShowHex
}

func (df *DataFormatter) ToggleTimestamps() {
	df.mode.ShowTimestamps = !df.mode.ShowTimestamps
}

// EscapeControl makes control characters visible so received text cannot
// drive the terminal. Printable runes, including non-ASCII, pass through.
func EscapeControl(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case unicode.IsControl(r):
			fmt.Fprintf(&b, `\x%02X`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
