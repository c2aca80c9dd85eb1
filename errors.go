package serial

import (
	"errors"
	"fmt"
)

// Port-level errors
var (
	ErrDeviceNotFound   = errors.New("serial device not found")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrDeviceInUse      = errors.New("serial device already in use")
	ErrInvalidBaudRate  = errors.New("invalid baud rate")
	ErrInvalidConfig    = errors.New("invalid serial configuration")
	ErrPortClosed       = errors.New("serial port is closed")
	ErrReadTimeout      = errors.New("read operation timed out")
	ErrDisconnected     = errors.New("serial device disconnected")
)

// Session-level errors
var (
	ErrAlreadyOpen      = errors.New("a serial session is already open")
	ErrAlreadyClosed    = errors.New("no serial session is open")
	ErrNotOpen          = errors.New("serial port not open")
	ErrPortDisconnected = errors.New("serial port disconnected")
	ErrOpenFailure      = errors.New("failed to open serial port")
	ErrReadFailure      = errors.New("failed to read from serial port")
	ErrDecode           = errors.New("received data is not valid UTF-8 text")
)

// OpenError reports a device that could not be claimed.
type OpenError struct {
	Port string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Port, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

func (e *OpenError) Is(target error) bool { return target == ErrOpenFailure }

// ReadError reports an I/O failure that did not tear the session down.
type ReadError struct {
	Port string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Port, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) Is(target error) bool { return target == ErrReadFailure }

// DecodeError reports a chunk of bytes that was discarded because it was not
// valid text.
type DecodeError struct {
	Bytes int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %d bytes: %v", e.Bytes, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ErrorKind classifies session errors for hosts that only carry a kind and a
// detail string across their boundary.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAlreadyOpen
	KindAlreadyClosed
	KindOpenFailure
	KindNotOpen
	KindPortDisconnected
	KindDecodeFailure
	KindReadFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindAlreadyOpen:
		return "AlreadyOpen"
	case KindAlreadyClosed:
		return "AlreadyClosed"
	case KindOpenFailure:
		return "OpenFailure"
	case KindNotOpen:
		return "NotOpen"
	case KindPortDisconnected:
		return "PortDisconnected"
	case KindDecodeFailure:
		return "DecodeFailure"
	case KindReadFailure:
		return "ReadFailure"
	default:
		return "Unknown"
	}
}

// KindOf returns the ErrorKind of err, or KindUnknown when err is nil or not a
// session error.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrAlreadyOpen):
		return KindAlreadyOpen
	case errors.Is(err, ErrAlreadyClosed):
		return KindAlreadyClosed
	case errors.Is(err, ErrOpenFailure):
		return KindOpenFailure
	case errors.Is(err, ErrNotOpen):
		return KindNotOpen
	case errors.Is(err, ErrPortDisconnected):
		return KindPortDisconnected
	case errors.Is(err, ErrDecode):
		return KindDecodeFailure
	case errors.Is(err, ErrReadFailure):
		return KindReadFailure
	default:
		return KindUnknown
	}
}
