/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	serial "github.com/allbin/go-serial-session"
	"github.com/allbin/go-serial-session/internal/tui/components"
	"github.com/allbin/go-serial-session/internal/tui/keys"
	"github.com/allbin/go-serial-session/internal/tui/models"
	"github.com/allbin/go-serial-session/internal/tui/styles"
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen [port]",
	Short: "Listen for text on a serial port with real-time display",
	Long: `Listen for incoming text on a serial port in a terminal user interface.

The port is opened at 115200 8N1 and everything it sends is shown as it
arrives. If the device is unplugged the session is closed and a port picker
is shown so another (or the same) port can be opened. Without a port argument
the picker is shown first.

Example usage:
  serial-session listen
  serial-session listen /dev/ttyUSB0
  serial-session listen /dev/ttyUSB0 --no-timestamps --log-file listen.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("listen needs an interactive terminal; use capture to record a port")
		}

		noTimestamps, _ := cmd.Flags().GetBool("no-timestamps")
		logFile, _ := cmd.Flags().GetString("log-file")

		// The TUI owns the screen, so logs only go to a file when asked for
		var logOut io.Writer = io.Discard
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer f.Close()
			logOut = f
		}
		logger, err := newLogger(logOut)
		if err != nil {
			return err
		}

		var port string
		if len(args) == 1 {
			port = args[0]
		}

		manager := serial.NewManager(serial.WithLogger(logger))
		m := newListenModel(models.NewSessionModel(manager, pollInterval()), port, describePortLine)
		if noTimestamps {
			m.terminal.ToggleTimestamps()
		}
		return runListenTUI(m)
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().Bool("no-timestamps", false, "Hide timestamps from output")
	listenCmd.Flags().String("log-file", "", "Write logs to this file while the TUI runs")
}

func describePortLine(port string) string {
	d := describePort(port)
	if d.USB != "" {
		return d.Description + " (" + d.USB + ")"
	}
	return d.Description
}

type listenView int

const (
	viewPicker listenView = iota
	viewMonitor
)

// statusTickMsg refreshes the status bar clock
type statusTickMsg time.Time

// listenModel represents the Bubble Tea model for the listen command
type listenModel struct {
	session    *models.SessionModel
	terminal   *components.Terminal
	picker     *components.Picker
	statusBar  *components.StatusBar
	help       help.Model
	keys       keys.ListenKeys
	pickerKeys keys.PickerKeys

	view        listenView
	initialPort string
	gen         int
	send        func(tea.Msg)
}

func newListenModel(session *models.SessionModel, port string, describe func(string) string) *listenModel {
	m := &listenModel{
		session:     session,
		terminal:    components.NewTerminal(80, 20),
		picker:      components.NewPicker(80, 20, describe),
		statusBar:   components.NewStatusBar("Serial Listen"),
		help:        help.New(),
		keys:        keys.NewListenKeys(),
		pickerKeys:  keys.NewPickerKeys(),
		view:        viewPicker,
		initialPort: port,
		send:        func(tea.Msg) {},
	}
	if port != "" {
		m.view = viewMonitor
	}
	return m
}

func runListenTUI(m *listenModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	m.send = p.Send

	_, err := p.Run()

	// Ensure cleanup
	m.session.Close()
	return err
}

func statusTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

func (m *listenModel) Init() tea.Cmd {
	if m.initialPort != "" {
		m.statusBar.SetOpening(m.initialPort)
		return tea.Batch(m.session.OpenCmd(m.initialPort), statusTick())
	}
	return tea.Batch(m.session.ListPortsCmd(), statusTick())
}

// showPicker switches to the port picker with a fresh listing
func (m *listenModel) showPicker(title string) tea.Cmd {
	m.view = viewPicker
	m.picker.SetTitle(title)
	return m.session.ListPortsCmd()
}

func (m *listenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Status bar is one line, the content border another
		m.terminal.SetSize(msg.Width, msg.Height-2)
		m.picker.SetSize(msg.Width, msg.Height-1)
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.session.SetReady(true)
		_, cmd := m.terminal.Update(msg)
		return m, cmd

	case statusTickMsg:
		return m, statusTick()

	case models.PortsMsg:
		if len(msg.Ports) == 0 {
			m.picker.SetTitle("No serial ports found, press r to refresh")
		}
		return m, m.picker.SetPorts(msg.Ports)

	case models.SessionOpenedMsg:
		m.view = viewMonitor
		m.statusBar.SetOpen(msg.Port)
		m.terminal.AddNotice("opened "+msg.Port, false)
		m.gen = m.session.StartPolling(m.send)
		return m, nil

	case models.OpenFailedMsg:
		m.statusBar.SetClosed(msg.Err)
		if errors.Is(msg.Err, serial.ErrAlreadyOpen) {
			return m, nil
		}
		return m, m.showPicker(fmt.Sprintf("Could not open %s: %v", msg.Port, errors.Unwrap(msg.Err)))

	case components.DataReceivedMsg:
		m.terminal.AddMessage(msg)
		m.statusBar.AddBytes(len(msg.Text))
		return m, nil

	case models.ReadErrorMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		if errors.Is(msg.Err, serial.ErrPortDisconnected) {
			m.statusBar.SetDisconnected(msg.Err)
			m.terminal.AddNotice(msg.Err.Error(), true)
			return m, m.showPicker("Port disconnected, select a port")
		}
		m.terminal.AddNotice(msg.Err.Error(), true)
		return m, nil

	case tea.MouseMsg:
		if m.view == viewMonitor {
			_, cmd := m.terminal.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewPicker {
			return m.updatePicker(msg)
		}
		return m.updateMonitor(msg)
	}

	return m, nil
}

func (m *listenModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.pickerKeys.Quit):
		m.session.Close()
		return m, tea.Quit

	case key.Matches(msg, m.pickerKeys.Refresh):
		return m, m.session.ListPortsCmd()

	case key.Matches(msg, m.pickerKeys.Select):
		port, ok := m.picker.Selected()
		if !ok {
			return m, nil
		}
		m.statusBar.SetOpening(port)
		return m, m.session.OpenCmd(port)
	}
	return m, m.picker.Update(msg)
}

func (m *listenModel) updateMonitor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.session.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Clear):
		m.terminal.Clear()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.ToggleHex):
		m.terminal.ToggleHex()

	case key.Matches(msg, m.keys.ToggleTimestamps):
		m.terminal.ToggleTimestamps()

	case key.Matches(msg, m.keys.SwitchPort):
		if m.session.Close() {
			m.terminal.AddNotice("closed", false)
		}
		m.statusBar.SetClosed(nil)
		return m, m.showPicker("Select a serial port")
	}
	return m, nil
}

func (m *listenModel) View() string {
	timestamp := time.Now().Format("15:04:05")

	if m.view == viewPicker {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.picker.View(),
			m.statusBar.View("PICK", timestamp),
		)
	}

	var content string
	if m.session.IsReady() {
		content = m.terminal.View()
	} else {
		content = "Initializing..."
	}

	parts := []string{styles.ContentBorderStyle.Render(content)}
	if m.help.ShowAll {
		parts = append(parts, styles.HelpBoxStyle.Render(m.help.View(m.keys)))
	}
	parts = append(parts, m.statusBar.View("LISTEN", timestamp))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
