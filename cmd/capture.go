/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	serial "github.com/allbin/go-serial-session"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture <port> <output-file>",
	Short: "Capture serial text to a file",
	Long: `Capture incoming serial text to a file for later parsing.

Opens the port at 115200 8N1 and appends every decoded chunk of text to the
output file until interrupted (Ctrl+C) or until the device is unplugged.

The output file is opened in append mode, allowing you to resume captures
without overwriting existing data.

Example usage:
  serial-session capture /dev/ttyUSB0 data.log
  serial-session capture /dev/ttyUSB0 capture.log --console`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		showConsole, _ := cmd.Flags().GetBool("console")

		logger, err := newLogger(nil)
		if err != nil {
			return err
		}
		manager := serial.NewManager(serial.WithLogger(logger))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		file, err := os.OpenFile(args[1], os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open output file: %w", err)
		}
		defer file.Close()

		var console io.Writer
		if showConsole {
			console = cmd.OutOrStdout()
			fmt.Fprintf(os.Stderr, "Console display enabled\n")
		}

		fmt.Fprintf(os.Stderr, "Capturing data from %s to %s\n", args[0], args[1])
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

		stats, err := runCapture(ctx, manager, args[0], file, console, pollInterval(), logger)
		fmt.Fprintf(os.Stderr, "\nCapture complete: %d bytes written in %v\n", stats.Bytes, stats.Duration.Round(time.Millisecond))
		if stats.Disconnected {
			fmt.Fprintf(os.Stderr, "Port %s was disconnected\n", args[0])
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().BoolP("console", "c", false, "Display incoming data on console while capturing")
}

type captureStats struct {
	Bytes        int64
	Duration     time.Duration
	Disconnected bool
}

// runCapture opens portPath and copies decoded text to out (and console, when
// non-nil) until ctx is done or the session ends. A disconnect ends the
// capture without an error.
func runCapture(ctx context.Context, manager *serial.Manager, portPath string, out, console io.Writer, interval time.Duration, logger *slog.Logger) (captureStats, error) {
	var stats captureStats
	startTime := time.Now()

	if err := manager.TryOpen(portPath); err != nil {
		return stats, fmt.Errorf("failed to open port: %w", err)
	}
	defer manager.Close()

	var writeErr error
	poller := &serial.Poller{
		Interval: interval,
		OnData: func(text string) {
			n, err := io.WriteString(out, text)
			stats.Bytes += int64(n)
			if err != nil {
				writeErr = err
				manager.Close()
				return
			}
			if console != nil {
				io.WriteString(console, text)
			}
		},
		OnError: func(err error) {
			if errors.Is(err, serial.ErrPortDisconnected) {
				stats.Disconnected = true
				return
			}
			logger.Warn("Read failed", "port", portPath, "err", err)
		},
	}

	err := poller.Run(ctx, manager)
	stats.Duration = time.Since(startTime)

	switch {
	case writeErr != nil:
		return stats, fmt.Errorf("write error: %w", writeErr)
	case err != nil && !errors.Is(err, ctx.Err()):
		// A done context is a normal stop, whether cancelled or past its deadline
		return stats, err
	default:
		return stats, nil
	}
}
