package serial

import (
	"errors"
	"sync"
)

// readResult is one scripted outcome of fakePort.Read
type readResult struct {
	data []byte
	err  error
}

// fakePort replays scripted read results and reports a timeout once they run
// out.
type fakePort struct {
	mu       sync.Mutex
	results  []readResult
	reads    int
	closed   bool
	closeErr error
}

func (f *fakePort) Read(buf []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads++
	if f.closed {
		return 0, ErrPortClosed
	}
	if len(f.results) == 0 {
		return 0, ErrReadTimeout
	}
	r := f.results[0]
	f.results = f.results[1:]
	if r.err != nil {
		return 0, r.err
	}
	return copy(buf, r.data), nil
}

func (f *fakePort) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrPortClosed
	}
	f.closed = true
	return f.closeErr
}

func (f *fakePort) push(results ...readResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, results...)
}

func (f *fakePort) data(s string) *fakePort {
	f.push(readResult{data: []byte(s)})
	return f
}

func (f *fakePort) fail(err error) *fakePort {
	f.push(readResult{err: err})
	return f
}

func (f *fakePort) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *fakePort) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fakeBus is a set of devices that can each be held by one open port at a
// time, like real hardware.
type fakeBus struct {
	mu       sync.Mutex
	present  map[string]bool
	held     map[string]*fakePort
	ports    []*fakePort
	opens    int
	config   Config
	closeErr error
}

func newFakeBus(names ...string) *fakeBus {
	b := &fakeBus{
		present: make(map[string]bool),
		held:    make(map[string]*fakePort),
	}
	for _, name := range names {
		b.present[name] = true
	}
	return b
}

func (b *fakeBus) open(name string, opts ...Option) (Port, error) {
	config, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.opens++
	b.config = config
	if !b.present[name] {
		return nil, ErrDeviceNotFound
	}
	if p := b.held[name]; p != nil && !p.isClosed() {
		return nil, ErrDeviceInUse
	}
	p := &fakePort{closeErr: b.closeErr}
	b.held[name] = p
	b.ports = append(b.ports, p)
	return p, nil
}

func (b *fakeBus) unplug(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.present, name)
}

func (b *fakeBus) last() *fakePort {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.ports) == 0 {
		return nil
	}
	return b.ports[len(b.ports)-1]
}

func (b *fakeBus) openCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens
}

var errUnplugged = &disconnectError{err: errors.New("input/output error")}
