/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	serial "github.com/allbin/go-serial-session"
	"github.com/allbin/go-serial-session/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serial-session",
	Short: "Own a single serial port session and read from it",
	Long: `serial-session opens one serial port at a time (115200 8N1), reads incoming
text with a short timeout and notices when the device is unplugged.

Use it interactively with "listen", record a port with "capture", or expose the
session to another process over HTTP with "serve".

Configuration is read from flags, SERIAL_* environment variables and an optional
config file ($HOME/.serial-session.yaml).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.serial-session.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text, json")
	rootCmd.PersistentFlags().Duration("poll-interval", serial.DefaultPollInterval, "Pause between reads")

	cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".serial-session")
	}

	viper.SetEnvPrefix("SERIAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the logger described by log-level and log-format. A nil
// writer means stderr.
func newLogger(w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, err
	}
	if w == nil {
		return logging.New(level, viper.GetString("log-format")), nil
	}
	return logging.NewWithWriter(w, level, viper.GetString("log-format")), nil
}

func pollInterval() time.Duration {
	if d := viper.GetDuration("poll-interval"); d > 0 {
		return d
	}
	return serial.DefaultPollInterval
}
