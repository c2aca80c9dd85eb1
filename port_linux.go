//go:build linux

package serial

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// port is the Linux implementation of the Port interface
type port struct {
	mu     sync.Mutex
	fd     int
	name   string
	config Config
	closed bool
}

// Ensure port implements Port interface at compile time
var _ Port = (*port)(nil)

var errHangUp = errors.New("hang-up")

// getBaudRate converts an integer baud rate to the unix constant
func getBaudRate(rate int) (uint32, error) {
	switch rate {
	case 50:
		return unix.B50, nil
	case 75:
		return unix.B75, nil
	case 110:
		return unix.B110, nil
	case 134:
		return unix.B134, nil
	case 150:
		return unix.B150, nil
	case 200:
		return unix.B200, nil
	case 300:
		return unix.B300, nil
	case 600:
		return unix.B600, nil
	case 1200:
		return unix.B1200, nil
	case 1800:
		return unix.B1800, nil
	case 2400:
		return unix.B2400, nil
	case 4800:
		return unix.B4800, nil
	case 9600:
		return unix.B9600, nil
	case 19200:
		return unix.B19200, nil
	case 38400:
		return unix.B38400, nil
	case 57600:
		return unix.B57600, nil
	case 115200:
		return unix.B115200, nil
	case 230400:
		return unix.B230400, nil
	case 460800:
		return unix.B460800, nil
	case 500000:
		return unix.B500000, nil
	case 576000:
		return unix.B576000, nil
	case 921600:
		return unix.B921600, nil
	case 1000000:
		return unix.B1000000, nil
	case 1152000:
		return unix.B1152000, nil
	case 1500000:
		return unix.B1500000, nil
	case 2000000:
		return unix.B2000000, nil
	case 2500000:
		return unix.B2500000, nil
	case 3000000:
		return unix.B3000000, nil
	case 3500000:
		return unix.B3500000, nil
	case 4000000:
		return unix.B4000000, nil
	default:
		return 0, ErrInvalidBaudRate
	}
}

func openPort(name string, config Config) (Port, error) {
	baudRate, err := getBaudRate(config.BaudRate)
	if err != nil {
		return nil, err
	}

	// O_NONBLOCK so a missing carrier cannot hang the open; reads are bounded by poll
	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, openErrno(name, err)
	}

	// Claim the device before touching its settings
	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		unix.Close(fd)
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrDeviceInUse, name)
		}
		return nil, fmt.Errorf("failed to lock %s: %w", name, err)
	}

	if err := configurePort(fd, baudRate); err != nil {
		unix.Close(fd)
		return nil, err
	}

	// Refuse further opens from processes that don't honour flock. Not
	// supported everywhere, so failure is ignored.
	_ = unix.IoctlSetInt(fd, unix.TIOCEXCL, 0)

	return &port{
		fd:     fd,
		name:   name,
		config: config,
	}, nil
}

// openErrno maps open(2) failures onto the package sentinels
func openErrno(name string, err error) error {
	switch {
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENXIO), errors.Is(err, unix.ENODEV):
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, name)
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, name)
	case errors.Is(err, unix.EBUSY):
		return fmt.Errorf("%w: %s", ErrDeviceInUse, name)
	default:
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
}

// configurePort puts the line into raw 8N1 mode at the given speed
func configurePort(fd int, baudRate uint32) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("failed to get termios: %w", err)
	}

	termios.Cflag = unix.CS8 | unix.CREAD | unix.CLOCAL
	termios.Iflag = 0
	termios.Oflag = 0
	termios.Lflag = 0

	// Reads never block in the driver; the timeout is enforced with poll
	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 0

	termios.Cflag = (termios.Cflag &^ unix.CBAUD) | baudRate
	termios.Ispeed = baudRate
	termios.Ospeed = baudRate

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("failed to set termios: %w", err)
	}
	return nil
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

	fds := []unix.PollFd{{Fd: int32(p.fd), Events: unix.POLLIN}}
	ready, err := unix.Poll(fds, pollTimeout(p.config.ReadTimeout))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, ErrReadTimeout
		}
		return 0, fmt.Errorf("poll %s: %w", p.name, err)
	}
	if ready == 0 {
		return 0, ErrReadTimeout
	}

	revents := fds[0].Revents
	if revents&unix.POLLIN == 0 && revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
		return 0, &disconnectError{err: pollError(revents)}
	}

	n, err := unix.Read(p.fd, buf)
	if err != nil {
		return 0, classifyReadErrno(p.name, err)
	}
	if n == 0 {
		// Readable with nothing to read is how a tty reports hang-up
		return 0, &disconnectError{err: errHangUp}
	}
	return n, nil
}

func classifyReadErrno(name string, err error) error {
	switch {
	case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
		return ErrReadTimeout
	case errors.Is(err, unix.EIO), errors.Is(err, unix.ENXIO),
		errors.Is(err, unix.ENODEV), errors.Is(err, unix.EBADF):
		return &disconnectError{err: err}
	default:
		return fmt.Errorf("read %s: %w", name, err)
	}
}

func pollError(revents int16) error {
	switch {
	case revents&unix.POLLNVAL != 0:
		return unix.EBADF
	case revents&unix.POLLERR != 0:
		return unix.EIO
	default:
		return errHangUp
	}
}

func pollTimeout(d time.Duration) int {
	ms := int(d / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	return ms
}

// Close releases the device
func (p *port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}
	p.closed = true

	// Best effort: both fail with EIO once the device is gone
	_ = unix.IoctlSetInt(p.fd, unix.TIOCNXCL, 0)
	_ = unix.Flock(p.fd, unix.LOCK_UN)

	return unix.Close(p.fd)
}
