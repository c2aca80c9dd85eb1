package serial

import (
	"errors"
	"fmt"
	"testing"
)

func TestOpenNonexistentDevice(t *testing.T) {
	_, err := Open("/dev/nonexistent-serial-device")
	if err == nil {
		t.Fatal("Expected error opening nonexistent device")
	}
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}

func TestOpenRejectsInvalidOptions(t *testing.T) {
	_, err := Open("/dev/nonexistent-serial-device", WithBaudRate(12))
	if err != ErrInvalidBaudRate {
		t.Errorf("Expected ErrInvalidBaudRate, got %v", err)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		n    int
		err  error
		want ReadOutcome
	}{
		{"data", 4, nil, OutcomeData},
		{"empty read", 0, nil, OutcomeData},
		{"timeout", 0, ErrReadTimeout, OutcomeTimedOut},
		{"wrapped timeout", 0, fmt.Errorf("poll: %w", ErrReadTimeout), OutcomeTimedOut},
		{"disconnect", 0, &disconnectError{err: errors.New("eio")}, OutcomeDisconnected},
		{"bare disconnect", 0, &disconnectError{}, OutcomeDisconnected},
		{"other", 0, errors.New("framing error"), OutcomeIOFailure},
		{"closed handle", 0, ErrPortClosed, OutcomeIOFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Outcome(tt.n, tt.err); got != tt.want {
				t.Errorf("Outcome(%d, %v) = %v, want %v", tt.n, tt.err, got, tt.want)
			}
		})
	}
}

func TestDisconnectErrorKeepsCause(t *testing.T) {
	cause := errors.New("input/output error")
	err := fmt.Errorf("read: %w", &disconnectError{err: cause})

	if !errors.Is(err, ErrDisconnected) {
		t.Error("Expected errors.Is(err, ErrDisconnected)")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected the OS cause to stay reachable")
	}
	if err.Error() != "read: serial device disconnected: input/output error" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}
