package cmd

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serial "github.com/allbin/go-serial-session"
	"github.com/allbin/go-serial-session/internal/tui/components"
	"github.com/allbin/go-serial-session/internal/tui/models"
	"github.com/allbin/go-serial-session/internal/tui/styles"
)

func newTestListenModel(t *testing.T, port *scriptedPort) (*listenModel, chan tea.Msg) {
	t.Helper()
	manager := newScriptedManager(port)
	m := newListenModel(models.NewSessionModel(manager, time.Millisecond), "", nil)

	msgs := make(chan tea.Msg, 64)
	m.send = func(msg tea.Msg) { msgs <- msg }
	t.Cleanup(func() { m.session.Close() })
	return m, msgs
}

// next waits for the first message of type T from the poller
func next[T tea.Msg](t *testing.T, msgs chan tea.Msg) T {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-msgs:
			if typed, ok := msg.(T); ok {
				return typed
			}
		case <-deadline:
			var zero T
			t.Fatalf("no %T received", zero)
			return zero
		}
	}
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestListenModel_StartsOnPicker(t *testing.T) {
	m, _ := newTestListenModel(t, &scriptedPort{})
	assert.Equal(t, viewPicker, m.view)

	msg := m.session.ListPortsCmd()()
	m.Update(msg)
	assert.Equal(t, 2, m.picker.Len())
}

func TestListenModel_OpenThenDisconnect(t *testing.T) {
	port := &scriptedPort{}
	m, msgs := newTestListenModel(t, port)

	opened := m.session.OpenCmd("DEV1")()
	require.IsType(t, models.SessionOpenedMsg{}, opened)
	m.Update(opened)

	assert.Equal(t, viewMonitor, m.view)
	assert.Equal(t, styles.StatusOpen, m.statusBar.Status())
	notices := m.terminal.Len()

	port.queue(scriptedRead{text: "hello\n"})
	m.Update(next[components.DataReceivedMsg](t, msgs))
	assert.Equal(t, notices+1, m.terminal.Len())

	port.queue(scriptedRead{err: unplugged{}})
	readErr := next[models.ReadErrorMsg](t, msgs)
	assert.ErrorIs(t, readErr.Err, serial.ErrPortDisconnected)

	_, cmd := m.Update(readErr)
	assert.Equal(t, viewPicker, m.view)
	assert.Equal(t, styles.StatusDisconnected, m.statusBar.Status())
	require.NotNil(t, cmd)
	assert.Equal(t, models.PortsMsg{Ports: []string{"DEV1", "DEV2"}}, cmd())

	reopened := m.session.OpenCmd("DEV1")()
	assert.IsType(t, models.SessionOpenedMsg{}, reopened, "port can be reopened after a disconnect")
}

func TestListenModel_IgnoresStaleReadErrors(t *testing.T) {
	port := &scriptedPort{}
	m, _ := newTestListenModel(t, port)

	m.Update(m.session.OpenCmd("DEV1")())
	require.Equal(t, viewMonitor, m.view)

	_, cmd := m.Update(models.ReadErrorMsg{Gen: m.gen - 1, Err: serial.ErrPortDisconnected})
	assert.Nil(t, cmd)
	assert.Equal(t, viewMonitor, m.view)
}

func TestListenModel_OpenFailureShowsPicker(t *testing.T) {
	m, _ := newTestListenModel(t, &scriptedPort{})
	m.view = viewMonitor

	msg := m.session.OpenCmd("missing")()
	require.IsType(t, models.OpenFailedMsg{}, msg)

	_, cmd := m.Update(msg)
	assert.Equal(t, viewPicker, m.view)
	assert.Error(t, m.statusBar.Err())
	assert.NotNil(t, cmd)
}

func TestListenModel_SwitchPortClosesSession(t *testing.T) {
	port := &scriptedPort{}
	m, _ := newTestListenModel(t, port)
	m.Update(m.session.OpenCmd("DEV1")())
	require.True(t, m.session.Manager().IsOpen())

	m.Update(keyPress("p"))

	assert.False(t, m.session.Manager().IsOpen())
	assert.Equal(t, viewPicker, m.view)
	assert.True(t, port.isClosed())
}

func TestListenModel_QuitClosesSession(t *testing.T) {
	m, _ := newTestListenModel(t, &scriptedPort{})
	m.Update(m.session.OpenCmd("DEV1")())

	_, cmd := m.Update(keyPress("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.session.Manager().IsOpen())
}

func TestListenModel_ViewRenders(t *testing.T) {
	m, _ := newTestListenModel(t, &scriptedPort{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Contains(t, m.View(), "PICK")

	m.Update(m.session.OpenCmd("DEV1")())
	view := m.View()
	assert.Contains(t, view, "LISTEN")
	assert.Contains(t, view, "DEV1")
}
