package serial

import "time"

// Fixed session parameters
const (
	SessionBaudRate    = 115200
	SessionReadTimeout = 10 * time.Millisecond
	ReadBufferSize     = 1024

	maxReadTimeout = 25500 * time.Millisecond
)

// Config holds the configuration for a serial port
type Config struct {
	BaudRate    int
	ReadTimeout time.Duration // Upper bound on a single Read waiting for data
}

// Option is a functional option for configuring a serial port
type Option func(*Config) error

// DefaultConfig returns the configuration used by session ports: 115200 8N1
// with a 10ms read timeout
func DefaultConfig() Config {
	return Config{
		BaudRate:    SessionBaudRate,
		ReadTimeout: SessionReadTimeout,
	}
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if !validBaudRate(rate) {
			return ErrInvalidBaudRate
		}
		c.BaudRate = rate
		return nil
	}
}

// WithReadTimeout sets how long a Read waits for data before reporting
// ErrReadTimeout. Must be positive and at most 25.5s.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 || timeout > maxReadTimeout {
			return ErrInvalidConfig
		}
		c.ReadTimeout = timeout
		return nil
	}
}

var baudRates = []int{
	50, 75, 110, 134, 150, 200, 300, 600, 1200, 1800, 2400, 4800, 9600,
	19200, 38400, 57600, 115200, 230400, 460800, 500000, 576000, 921600,
	1000000, 1152000, 1500000, 2000000, 2500000, 3000000, 3500000, 4000000,
}

func validBaudRate(rate int) bool {
	for _, r := range baudRates {
		if r == rate {
			return true
		}
	}
	return false
}

func buildConfig(opts []Option) (Config, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return Config{}, err
		}
	}
	return config, nil
}
