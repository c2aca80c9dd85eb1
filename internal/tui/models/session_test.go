package models

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serial "github.com/allbin/go-serial-session"
)

// silentPort never has data
type silentPort struct{}

func (silentPort) Read([]byte) (int, error) { return 0, serial.ErrReadTimeout }
func (silentPort) Close() error             { return nil }

func newTestSession() *SessionModel {
	manager := serial.NewManager(
		serial.WithOpener(func(string, ...serial.Option) (serial.Port, error) { return silentPort{}, nil }),
		serial.WithLister(func() ([]string, error) { return []string{"DEV1"}, nil }),
	)
	return NewSessionModel(manager, time.Millisecond)
}

func TestSessionModel_Commands(t *testing.T) {
	s := newTestSession()

	assert.Equal(t, PortsMsg{Ports: []string{"DEV1"}}, s.ListPortsCmd()())
	assert.Equal(t, SessionOpenedMsg{Port: "DEV1"}, s.OpenCmd("DEV1")())

	failed, ok := s.OpenCmd("DEV1")().(OpenFailedMsg)
	require.True(t, ok)
	assert.ErrorIs(t, failed.Err, serial.ErrAlreadyOpen)

	assert.True(t, s.Close())
	assert.False(t, s.Close())
}

func TestSessionModel_PollerStopsOnClose(t *testing.T) {
	s := newTestSession()
	require.Equal(t, SessionOpenedMsg{Port: "DEV1"}, s.OpenCmd("DEV1")())

	msgs := make(chan tea.Msg, 8)
	gen := s.StartPolling(func(msg tea.Msg) { msgs <- msg })
	assert.Equal(t, 1, gen)
	assert.Equal(t, gen, s.Gen())

	s.Close()

	select {
	case msg := <-msgs:
		assert.Equal(t, PollerStoppedMsg{Gen: gen}, msg)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestSessionModel_GenerationAdvances(t *testing.T) {
	s := newTestSession()
	require.Equal(t, SessionOpenedMsg{Port: "DEV1"}, s.OpenCmd("DEV1")())

	discard := func(tea.Msg) {}
	first := s.StartPolling(discard)
	second := s.StartPolling(discard)
	assert.Greater(t, second, first)
	s.Close()
}
