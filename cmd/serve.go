/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	serial "github.com/allbin/go-serial-session"
	"github.com/allbin/go-serial-session/internal/metrics"
	"github.com/allbin/go-serial-session/internal/server"
)

const shutdownTimeout = 5 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the serial session over HTTP",
	Long: `Start an HTTP server that lets another process drive the serial session.

Endpoints:
  GET  /ports    list visible ports
  POST /open     {"port": "/dev/ttyUSB0"}
  POST /close
  GET  /read     one bounded read; "" when nothing arrived
  GET  /state    {"open": true, "port": "/dev/ttyUSB0"}
  GET  /metrics  Prometheus metrics

Example usage:
  serial-session serve --listen 127.0.0.1:8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(nil)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		collector, err := metrics.New(reg)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}

		manager := serial.NewManager(
			serial.WithLogger(logger),
			serial.WithObserver(collector),
		)

		srv := &http.Server{
			Addr:              viper.GetString("listen"),
			Handler:           server.NewHandler(manager, logger, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("HTTP host listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("Shutting down HTTP host")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			err := srv.Shutdown(shutdownCtx)
			if err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				srv.Close()
			}
			manager.Close()
			return err
		})

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", "127.0.0.1:8080", "Address to listen on")
	cobra.CheckErr(viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen")))
}
