/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	serial "github.com/allbin/go-serial-session"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display information about a serial port",
	Long: `Display information about a serial port including USB metadata.

Examples:
  serial-session info /dev/ttyUSB0
  serial-session info /dev/ttyACM0

For USB devices this shows the vendor and product IDs and the serial number
read from sysfs (Linux) or the platform enumerator.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := serial.GetPortInfo(args[0])
		if err != nil {
			return fmt.Errorf("getting port info: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Port Information: %s\n\n", info.Path)
		fmt.Fprintf(out, "  Name:        %s\n", info.Name)
		fmt.Fprintf(out, "  Description: %s\n", info.Description)

		if info.VendorID != "" || info.ProductID != "" {
			fmt.Fprintln(out, "\nUSB Device Information:")
			if info.VendorID != "" {
				fmt.Fprintf(out, "  Vendor ID:    %s\n", info.VendorID)
			}
			if info.ProductID != "" {
				fmt.Fprintf(out, "  Product ID:   %s\n", info.ProductID)
			}
			if info.SerialNumber != "" {
				fmt.Fprintf(out, "  Serial:       %s\n", info.SerialNumber)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
