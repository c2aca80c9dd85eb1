package serial

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/allbin/go-serial-session/internal/logging"
)

// Manager owns at most one open serial port and coordinates open, close and
// read across concurrent callers.
//
// The session is either Closed or Open:
//
//	Closed --Open ok--> Open
//	Open   --Close----> Closed
//	Open   --Read sees the device vanish--> Closed (returns ErrPortDisconnected)
//
// Every other call is a no-op reported as false or an error. A single mutex
// guards the open flag, the handle and the decoder carry together, and each
// operation holds it for its whole critical section, including the bounded
// device read.
type Manager struct {
	mu      sync.Mutex
	open    bool
	port    Port // non-nil iff open
	name    string
	decoder *textDecoder
	buf     []byte

	errMu   sync.Mutex
	lastErr error

	opener   OpenFunc
	lister   func() ([]string, error)
	observer Observer
	logger   *slog.Logger
	lossy    bool
}

// State is a snapshot of the session
type State struct {
	Open bool   `json:"open"`
	Port string `json:"port,omitempty"`
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithOpener replaces the function used to claim devices.
func WithOpener(opener OpenFunc) ManagerOption {
	return func(m *Manager) {
		m.opener = opener
	}
}

// WithLister replaces the port enumeration used by ListPorts.
func WithLister(lister func() ([]string, error)) ManagerOption {
	return func(m *Manager) {
		m.lister = lister
	}
}

// WithObserver registers an Observer for session events.
func WithObserver(observer Observer) ManagerOption {
	return func(m *Manager) {
		if observer != nil {
			m.observer = observer
		}
	}
}

// WithLossyDecode decodes every read chunk on its own: a multi-byte character
// split across two reads fails the read with ErrDecode instead of being
// completed by the next one.
func WithLossyDecode() ManagerOption {
	return func(m *Manager) {
		m.lossy = true
	}
}

// NewManager creates a Manager in the Closed state.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		buf:      make([]byte, ReadBufferSize),
		opener:   Open,
		lister:   ListPorts,
		observer: nopObserver{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.decoder = newTextDecoder(!m.lossy)
	return m
}

// ListPorts returns the visible serial ports. It never takes the session lock
// and returns an empty slice when enumeration fails.
func (m *Manager) ListPorts() []string {
	ports, err := m.Ports()
	if err != nil {
		m.logger.Warn("Failed to list serial ports", "err", err)
		return []string{}
	}
	return ports
}

// Ports is ListPorts with the enumeration error.
func (m *Manager) Ports() ([]string, error) {
	ports, err := m.lister()
	if err != nil {
		m.setLastErr(err)
		return nil, err
	}
	if ports == nil {
		ports = []string{}
	}
	return ports, nil
}

// Open claims the named port. It returns false when a session is already
// open or the device cannot be claimed.
func (m *Manager) Open(name string) bool {
	return m.TryOpen(name) == nil
}

// TryOpen is Open with the reason for failure: ErrAlreadyOpen or an
// *OpenError.
func (m *Manager) TryOpen(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open {
		m.logger.Debug("Open refused, session already open", "port", name, "open_port", m.name)
		return ErrAlreadyOpen
	}

	p, err := m.opener(name, WithBaudRate(SessionBaudRate), WithReadTimeout(SessionReadTimeout))
	if err == nil && p == nil {
		err = errors.New("opener returned no port")
	}
	if err != nil {
		openErr := &OpenError{Port: name, Err: err}
		m.setLastErr(openErr)
		m.logger.Warn("Failed to open serial port", "port", name, "err", err)
		m.observer.OpenFailed(name, openErr)
		return openErr
	}

	m.port = p
	m.name = name
	m.open = true
	m.decoder.Reset()

	m.logger.Info("Serial port opened", "port", name, "baud", SessionBaudRate)
	m.observer.SessionOpened(name)
	return nil
}

// Close releases the open port. It returns false when no session is open.
func (m *Manager) Close() bool {
	return m.TryClose() == nil
}

// TryClose is Close returning ErrAlreadyClosed instead of false.
func (m *Manager) TryClose() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return ErrAlreadyClosed
	}

	name := m.name
	if err := m.release(); err != nil {
		m.logger.Warn("Error releasing serial port", "port", name, "err", err)
	}

	m.logger.Info("Serial port closed", "port", name)
	m.observer.SessionClosed(name, CloseExplicit)
	return nil
}

// Read performs one bounded read from the open port:
//
//	data      decoded text, or an error wrapping ErrDecode
//	timeout   "", nil
//	gone      session closed, error wrapping ErrPortDisconnected
//	other     *ReadError, session stays open
//
// Without an open session it returns ErrNotOpen and touches no device.
func (m *Manager) Read() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return "", ErrNotOpen
	}

	n, err := m.port.Read(m.buf)
	switch Outcome(n, err) {
	case OutcomeData:
		m.observer.BytesRead(n)
		text, decodeErr := m.decoder.Decode(m.buf[:n])
		if decodeErr != nil {
			m.logger.Debug("Discarded undecodable data", "port", m.name, "err", decodeErr)
			m.observer.ReadFailed(KindDecodeFailure)
			return "", decodeErr
		}
		return text, nil

	case OutcomeTimedOut:
		return "", nil

	case OutcomeDisconnected:
		name := m.name
		if closeErr := m.release(); closeErr != nil {
			m.logger.Debug("Error releasing disconnected port", "port", name, "err", closeErr)
		}
		m.logger.Warn("Serial port disconnected", "port", name, "err", err)
		m.observer.SessionClosed(name, CloseDisconnected)
		m.observer.ReadFailed(KindPortDisconnected)
		return "", fmt.Errorf("%w: %s: %w", ErrPortDisconnected, name, err)

	default:
		m.logger.Debug("Serial read failed", "port", m.name, "err", err)
		m.observer.ReadFailed(KindReadFailure)
		return "", &ReadError{Port: m.name, Err: err}
	}
}

// release drops the handle and returns the session to Closed. The caller
// holds mu.
func (m *Manager) release() error {
	err := m.port.Close()
	m.port = nil
	m.name = ""
	m.open = false
	m.decoder.Reset()
	return err
}

// IsOpen reports whether a session is open
func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// State returns a consistent snapshot of the session
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{Open: m.open, Port: m.name}
}

// LastError returns the most recent open or enumeration failure that the
// boolean API swallowed, or nil.
func (m *Manager) LastError() error {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	return m.lastErr
}

func (m *Manager) setLastErr(err error) {
	m.errMu.Lock()
	m.lastErr = err
	m.errMu.Unlock()
}
