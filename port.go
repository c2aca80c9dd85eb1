package serial

import "errors"

// Port is one exclusively owned serial connection. Read waits at most the
// configured read timeout:
//
//	n, nil                          n bytes were placed at the start of buf
//	0, ErrReadTimeout               nothing arrived in time
//	0, err (errors.Is ErrDisconnected) the device is gone
//	0, err                          any other I/O failure
type Port interface {
	Read(buf []byte) (int, error)
	Close() error
}

// OpenFunc opens a named port. Open satisfies it.
type OpenFunc func(name string, opts ...Option) (Port, error)

// Ensure Open matches OpenFunc at compile time
var _ OpenFunc = Open

// Open opens a serial port with the given device name and options. The
// device is claimed exclusively until Close.
func Open(name string, opts ...Option) (Port, error) {
	config, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	return openPort(name, config)
}

// ReadOutcome classifies the result of a single Port.Read
type ReadOutcome int

const (
	OutcomeData ReadOutcome = iota
	OutcomeTimedOut
	OutcomeDisconnected
	OutcomeIOFailure
)

func (o ReadOutcome) String() string {
	switch o {
	case OutcomeData:
		return "data"
	case OutcomeTimedOut:
		return "timed out"
	case OutcomeDisconnected:
		return "disconnected"
	default:
		return "io failure"
	}
}

// Outcome classifies the (n, err) pair returned by Port.Read
func Outcome(n int, err error) ReadOutcome {
	switch {
	case err == nil:
		return OutcomeData
	case errors.Is(err, ErrReadTimeout):
		return OutcomeTimedOut
	case errors.Is(err, ErrDisconnected):
		return OutcomeDisconnected
	default:
		return OutcomeIOFailure
	}
}

// disconnectError marks an OS error as a device disconnect while keeping the
// original cause reachable through errors.Is/As.
type disconnectError struct {
	err error
}

func (e *disconnectError) Error() string {
	if e.err == nil {
		return ErrDisconnected.Error()
	}
	return ErrDisconnected.Error() + ": " + e.err.Error()
}

func (e *disconnectError) Unwrap() []error {
	if e.err == nil {
		return []error{ErrDisconnected}
	}
	return []error{ErrDisconnected, e.err}
}
