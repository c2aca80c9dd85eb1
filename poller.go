package serial

import (
	"context"
	"errors"
	"time"
)

// DefaultPollInterval is the pause between read attempts
const DefaultPollInterval = 10 * time.Millisecond

// Poller repeatedly reads from a Manager on behalf of a host that must not
// block on the serial port.
//
// Stopping is cooperative: Run re-checks the session before every read and
// returns once it finds the session closed, whether by Close or by a
// detected disconnect. A Close from another goroutine is therefore observed
// after at most one read timeout plus one Interval.
type Poller struct {
	// Interval between read attempts. Defaults to DefaultPollInterval.
	Interval time.Duration

	// OnData receives every non-empty chunk of text.
	OnData func(text string)

	// OnError receives read failures. None of them stop the loop; a
	// disconnect is reported here and then ends it because the session is
	// closed.
	OnError func(err error)
}

// Run polls until the session is closed (returning nil) or ctx is done
// (returning ctx.Err()).
func (p *Poller) Run(ctx context.Context, m *Manager) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !m.IsOpen() {
			return nil
		}

		text, err := m.Read()
		switch {
		case errors.Is(err, ErrNotOpen):
			// Closed between the check and the read
			return nil
		case err != nil:
			if p.OnError != nil {
				p.OnError(err)
			}
		case text != "":
			if p.OnData != nil {
				p.OnData(text)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
