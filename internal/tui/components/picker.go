package components

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-serial-session/internal/tui/colors"
)

// PortItem is one selectable port in the picker
type PortItem struct {
	Path string
	Desc string
}

func (i PortItem) Title() string       { return i.Path }
func (i PortItem) Description() string { return i.Desc }
func (i PortItem) FilterValue() string { return i.Path }

// Picker lets the user choose a port to open
type Picker struct {
	list     list.Model
	describe func(path string) string
}

// NewPicker creates a picker. describe supplies the second line of each item
// and may be nil.
func NewPicker(width, height int, describe func(path string) string) *Picker {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(colors.Mauve).
		BorderForeground(colors.Mauve)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(colors.Subtext0).
		BorderForeground(colors.Mauve)

	l := list.New(nil, delegate, width, height)
	l.Title = "Select a serial port"
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(colors.Mauve).
		Padding(0, 1)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("port", "ports")

	return &Picker{list: l, describe: describe}
}

// SetPorts replaces the listed ports
func (p *Picker) SetPorts(ports []string) tea.Cmd {
	items := make([]list.Item, len(ports))
	for i, path := range ports {
		item := PortItem{Path: path}
		if p.describe != nil {
			item.Desc = p.describe(path)
		}
		items[i] = item
	}
	p.list.ResetSelected()
	return p.list.SetItems(items)
}

// SetTitle changes the heading, e.g. to explain why the picker is shown
func (p *Picker) SetTitle(title string) {
	p.list.Title = title
}

// Selected returns the highlighted port
func (p *Picker) Selected() (string, bool) {
	item, ok := p.list.SelectedItem().(PortItem)
	if !ok {
		return "", false
	}
	return item.Path, true
}

func (p *Picker) Len() int {
	return len(p.list.Items())
}

func (p *Picker) SetSize(width, height int) {
	p.list.SetSize(width, height)
}

func (p *Picker) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return cmd
}

func (p *Picker) View() string {
	return p.list.View()
}
