package models

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	serial "github.com/allbin/go-serial-session"
	"github.com/allbin/go-serial-session/internal/tui/components"
)

// PortsMsg carries a fresh port listing
type PortsMsg struct {
	Ports []string
}

// SessionOpenedMsg reports a successful open
type SessionOpenedMsg struct {
	Port string
}

// OpenFailedMsg reports an open that did not claim the port
type OpenFailedMsg struct {
	Port string
	Err  error
}

// ReadErrorMsg carries a read failure from the poller. Gen identifies the
// session it belongs to.
type ReadErrorMsg struct {
	Gen int
	Err error
}

// PollerStoppedMsg is sent when a poller returns
type PollerStoppedMsg struct {
	Gen int
}

// SessionModel ties a serial.Manager and its poller to a Bubble Tea program
type SessionModel struct {
	manager  *serial.Manager
	interval time.Duration

	ready bool

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    int
}

func NewSessionModel(manager *serial.Manager, interval time.Duration) *SessionModel {
	return &SessionModel{
		manager:  manager,
		interval: interval,
	}
}

func (m *SessionModel) Manager() *serial.Manager {
	return m.manager
}

func (m *SessionModel) IsReady() bool {
	return m.ready
}

func (m *SessionModel) SetReady(ready bool) {
	m.ready = ready
}

// ListPortsCmd enumerates ports off the UI goroutine
func (m *SessionModel) ListPortsCmd() tea.Cmd {
	return func() tea.Msg {
		return PortsMsg{Ports: m.manager.ListPorts()}
	}
}

// OpenCmd opens port off the UI goroutine
func (m *SessionModel) OpenCmd(port string) tea.Cmd {
	return func() tea.Msg {
		if err := m.manager.TryOpen(port); err != nil {
			return OpenFailedMsg{Port: port, Err: err}
		}
		return SessionOpenedMsg{Port: port}
	}
}

// Gen returns the generation of the most recently started poller
func (m *SessionModel) Gen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

// StartPolling runs a Poller for the open session, delivering its output
// through send. It returns immediately. send may block, so it must not be
// called from the goroutine running Update.
func (m *SessionModel) StartPolling(send func(tea.Msg)) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.gen++
	gen := m.gen

	poller := &serial.Poller{
		Interval: m.interval,
		OnData: func(text string) {
			send(components.DataReceivedMsg{Timestamp: time.Now(), Text: text})
		},
		OnError: func(err error) {
			send(ReadErrorMsg{Gen: gen, Err: err})
		},
	}

	go func() {
		_ = poller.Run(ctx, m.manager)
		send(PollerStoppedMsg{Gen: gen})
	}()
	return gen
}

// Close stops the poller and ends the session. It does not wait for the
// poller goroutine, which returns once it sees the cancelled context or the
// closed session. It reports whether a session was open.
func (m *SessionModel) Close() bool {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	return m.manager.Close()
}
