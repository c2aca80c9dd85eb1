package cmd

import (
	"errors"
	"sync"

	serial "github.com/allbin/go-serial-session"
)

// scriptedPort replays queued reads, then times out
type scriptedPort struct {
	mu     sync.Mutex
	reads  []scriptedRead
	closed bool
}

type scriptedRead struct {
	text string
	err  error
}

func (p *scriptedPort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.reads) == 0 {
		return 0, serial.ErrReadTimeout
	}
	r := p.reads[0]
	p.reads = p.reads[1:]
	if r.err != nil {
		return 0, r.err
	}
	return copy(buf, r.text), nil
}

func (p *scriptedPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *scriptedPort) queue(reads ...scriptedRead) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reads = append(p.reads, reads...)
}

// unplugged reads as a device disconnect
type unplugged struct{}

func (unplugged) Error() string        { return "input/output error" }
func (unplugged) Is(target error) bool { return target == serial.ErrDisconnected }

var errNoDevice = errors.New("no such device")

// newScriptedManager returns a Manager whose only openable port is "DEV1"
func newScriptedManager(port *scriptedPort) *serial.Manager {
	return serial.NewManager(
		serial.WithOpener(func(name string, _ ...serial.Option) (serial.Port, error) {
			if name != "DEV1" {
				return nil, errNoDevice
			}
			return port, nil
		}),
		serial.WithLister(func() ([]string, error) { return []string{"DEV1", "DEV2"}, nil }),
	)
}

func (p *scriptedPort) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
