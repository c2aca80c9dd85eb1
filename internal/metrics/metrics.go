// Package metrics exports serial session events as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	serial "github.com/allbin/go-serial-session"
)

// Collector implements serial.Observer on top of Prometheus collectors.
type Collector struct {
	opens      *prometheus.CounterVec
	closes     *prometheus.CounterVec
	open       prometheus.Gauge
	bytesRead  prometheus.Counter
	readErrors *prometheus.CounterVec
}

// Ensure Collector implements serial.Observer at compile time
var _ serial.Observer = (*Collector)(nil)

// New creates a Collector and registers its metrics on reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		opens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "serial_session_opens_total",
				Help: "Open attempts by result",
			},
			[]string{"result"},
		),
		closes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "serial_session_closes_total",
				Help: "Sessions ended, by reason (explicit or disconnected)",
			},
			[]string{"reason"},
		),
		open: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "serial_session_open",
			Help: "1 while a serial session is open",
		}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "serial_read_bytes_total",
			Help: "Bytes read from the serial port",
		}),
		readErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "serial_read_errors_total",
				Help: "Failed reads by error kind",
			},
			[]string{"kind"},
		),
	}

	for _, col := range []prometheus.Collector{c.opens, c.closes, c.open, c.bytesRead, c.readErrors} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SessionOpened counts a successful open and marks the session open.
func (c *Collector) SessionOpened(string) {
	c.opens.WithLabelValues("ok").Inc()
	c.open.Set(1)
}

// OpenFailed counts a failed open attempt.
func (c *Collector) OpenFailed(string, error) {
	c.opens.WithLabelValues("failed").Inc()
}

// SessionClosed counts an ended session by reason and clears the open gauge.
func (c *Collector) SessionClosed(_ string, reason serial.CloseReason) {
	c.closes.WithLabelValues(reason.String()).Inc()
	c.open.Set(0)
}

// BytesRead adds n to the bytes read counter.
func (c *Collector) BytesRead(n int) {
	c.bytesRead.Add(float64(n))
}

// ReadFailed counts a failed read by error kind.
func (c *Collector) ReadFailed(kind serial.ErrorKind) {
	c.readErrors.WithLabelValues(kind.String()).Inc()
}
