package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/allbin/go-serial-session/internal/tui/styles"
)

// defaultMaxEntries bounds the scrollback
const defaultMaxEntries = 5000

// entry is either received data or a session notice
type entry struct {
	data   *DataReceivedMsg
	notice string
	isErr  bool
	at     time.Time
}

type Terminal struct {
	viewport   viewport.Model
	formatter  *DataFormatter
	entries    []entry
	lines      []string // entries rendered with the current display mode
	maxEntries int
}

func NewTerminal(width, height int) *Terminal {
	vp := viewport.New(width, height)
	return &Terminal{
		viewport:   vp,
		formatter:  NewDataFormatter(false, true),
		maxEntries: defaultMaxEntries,
	}
}

func (t *Terminal) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
}

func (t *Terminal) GetViewport() viewport.Model {
	return t.viewport
}

func (t *Terminal) AddMessage(msg DataReceivedMsg) {
	t.append(entry{data: &msg, at: msg.Timestamp})
}

// AddNotice shows a session event such as an open or a disconnect
func (t *Terminal) AddNotice(text string, isErr bool) {
	t.append(entry{notice: text, isErr: isErr, at: time.Now()})
}

func (t *Terminal) append(e entry) {
	t.entries = append(t.entries, e)
	t.lines = append(t.lines, t.render(e))
	if over := len(t.entries) - t.maxEntries; over > 0 {
		t.entries = t.entries[over:]
		t.lines = t.lines[over:]
	}
	t.show()
}

// Refresh re-renders every entry with the current display mode
func (t *Terminal) Refresh() {
	t.lines = make([]string, len(t.entries))
	for i, e := range t.entries {
		t.lines[i] = t.render(e)
	}
	t.show()
}

func (t *Terminal) show() {
	t.viewport.SetContent(strings.Join(t.lines, "\n"))
	t.viewport.GotoBottom()
}

func (t *Terminal) render(e entry) string {
	if e.data != nil {
		return t.formatter.FormatMessage(*e.data)
	}
	line := "── " + e.notice
	if t.formatter.GetDisplayMode().ShowTimestamps {
		line = "[" + e.at.Format("15:04:05.000") + "] " + line
	}
	if e.isErr {
		return styles.ErrorStyle.Render(line)
	}
	return styles.InfoStyle.Render(line)
}

// Len returns the number of entries in the scrollback
func (t *Terminal) Len() int {
	return len(t.entries)
}

func (t *Terminal) Clear() {
	t.entries = nil
	t.lines = nil
	t.viewport.SetContent("")
}

func (t *Terminal) ToggleHex() {
	t.formatter.ToggleHex()
	t.Refresh()
}

func (t *Terminal) ToggleTimestamps() {
	t.formatter.ToggleTimestamps()
	t.Refresh()
}

func (t *Terminal) GetDisplayMode() DisplayMode {
	return t.formatter.GetDisplayMode()
}

func (t *Terminal) Update(msg tea.Msg) (viewport.Model, tea.Cmd) {
	// Only pass certain message types to viewport to prevent it from consuming our key bindings
	switch msg.(type) {
	case tea.WindowSizeMsg, tea.MouseMsg:
		return t.viewport.Update(msg)
	default:
		return t.viewport, nil
	}
}

func (t *Terminal) View() string {
	return t.viewport.View()
}
