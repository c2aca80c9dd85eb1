//go:build !linux

package serial

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"syscall"

	bugst "go.bug.st/serial"
)

// errDeviceNotConnected is ERROR_DEVICE_NOT_CONNECTED, reported by Windows when
// a USB adapter is pulled mid-read.
const errDeviceNotConnected = syscall.Errno(1167)

// port adapts a go.bug.st/serial port to the Port interface
type port struct {
	mu     sync.Mutex
	sp     bugst.Port
	name   string
	closed bool
}

// Ensure port implements Port interface at compile time
var _ Port = (*port)(nil)

func openPort(name string, config Config) (Port, error) {
	mode := &bugst.Mode{
		BaudRate: config.BaudRate,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}
	sp, err := bugst.Open(name, mode)
	if err != nil {
		return nil, openPortError(name, err)
	}
	if err := sp.SetReadTimeout(config.ReadTimeout); err != nil {
		sp.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", name, err)
	}
	return &port{sp: sp, name: name}, nil
}

func openPortError(name string, err error) error {
	var portErr *bugst.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case bugst.PortNotFound:
			return fmt.Errorf("%w: %s", ErrDeviceNotFound, name)
		case bugst.PortBusy:
			return fmt.Errorf("%w: %s", ErrDeviceInUse, name)
		case bugst.PermissionDenied:
			return fmt.Errorf("%w: %s", ErrPermissionDenied, name)
		case bugst.InvalidSpeed:
			return ErrInvalidBaudRate
		}
	}
	// The library passes some open(2) failures through unwrapped
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, name)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, name)
	}
	return fmt.Errorf("failed to open %s: %w", name, err)
}

// Read waits up to the configured read timeout for data
func (p *port) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrPortClosed
	}
	if len(buf) == 0 {
		return 0, nil
	}

	n, err := p.sp.Read(buf)
	if err != nil {
		if isDisconnect(err) {
			return 0, &disconnectError{err: err}
		}
		return 0, fmt.Errorf("read %s: %w", p.name, err)
	}
	if n == 0 {
		return 0, ErrReadTimeout
	}
	return n, nil
}

func isDisconnect(err error) bool {
	var portErr *bugst.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case bugst.PortClosed, bugst.PortNotFound, bugst.InvalidSerialPort:
			return true
		default:
			return false
		}
	}
	return errors.Is(err, syscall.EIO) ||
		errors.Is(err, syscall.ENXIO) ||
		errors.Is(err, syscall.ENODEV) ||
		errors.Is(err, errDeviceNotConnected)
}

// Close releases the device
func (p *port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}
	p.closed = true
	return p.sp.Close()
}
