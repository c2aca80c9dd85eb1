// Package serial manages a single exclusive serial port session for hosts
// that poll it from several goroutines.
//
// A Manager holds at most one open port at a time. Ports are opened at
// 115200 baud, 8N1, with a 10ms read timeout, so every Read returns quickly:
//
//	m := serial.NewManager(serial.WithLogger(logger))
//	if !m.Open("/dev/ttyUSB0") {
//	    log.Fatal(m.LastError())
//	}
//	defer m.Close()
//
//	text, err := m.Read() // "" with a nil error means nothing arrived
//
// # Disconnects
//
// When the device disappears mid-session, Read closes the session itself and
// returns an error wrapping ErrPortDisconnected. The port can then be opened
// again without calling Close first:
//
//	if errors.Is(err, serial.ErrPortDisconnected) {
//	    ports := m.ListPorts()
//	    // let the user pick one and Open it
//	}
//
// # Polling
//
// Poller runs the read loop on a goroutine and stops when the session is
// closed, either by Close or by a detected disconnect:
//
//	p := &serial.Poller{OnData: func(s string) { fmt.Print(s) }}
//	go p.Run(ctx, m)
//
// # Errors
//
// Open and Close report failure as false; the cause of the last failed Open
// is available from LastError, and TryOpen and TryClose return it directly.
// KindOf maps any session error to an ErrorKind for hosts that pass errors
// across a process or network boundary.
//
// # Platform Support
//
// On Linux ports are driven directly through termios and poll(2) and are
// claimed with flock and TIOCEXCL. Other platforms use go.bug.st/serial.
package serial
