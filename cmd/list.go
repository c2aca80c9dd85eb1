/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"

	serial "github.com/allbin/go-serial-session"
	"github.com/allbin/go-serial-session/internal/tui/styles"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all available serial ports on the system.

This command scans for communication-capable serial devices including:
- USB serial adapters (ttyUSB*)
- USB CDC/ACM devices (ttyACM*)
- Standard serial ports (ttyS*)
- ARM/Raspberry Pi ports (ttyAMA*)
- And other platform-specific serial devices

Listing never fails: if the ports cannot be enumerated the list is empty and
the cause is logged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(nil)
		if err != nil {
			return err
		}
		manager := serial.NewManager(serial.WithLogger(logger))

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		ports := filterPorts(manager.ListPorts(), filterType)
		if len(ports) == 0 {
			if filterType != "" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return nil
		}

		if tableFormat {
			fmt.Printf("Found %d serial port(s):\n\n", len(ports))
			fmt.Println(renderTable(ports, describePort))
			return nil
		}
		for _, port := range ports {
			fmt.Println(port)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// portName strips the directory from a device path
func portName(port string) string {
	if i := strings.LastIndexAny(port, `/\`); i >= 0 {
		return port[i+1:]
	}
	return port
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(ports []string, filterType string) []string {
	if filterType == "" || filterType == "all" {
		return ports
	}

	filtered := []string{}
	for _, port := range ports {
		name := strings.ToLower(portName(port))
		switch strings.ToLower(filterType) {
		case "usb":
			if strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm") {
				filtered = append(filtered, port)
			}
		case "standard":
			if strings.HasPrefix(name, "ttys") || strings.HasPrefix(name, "com") {
				filtered = append(filtered, port)
			}
		case "arm":
			if strings.HasPrefix(name, "ttyama") {
				filtered = append(filtered, port)
			}
		}
	}
	return filtered
}

// portDetails is what the table shows for a port
type portDetails struct {
	Description string
	USB         string
	Serial      string
}

func describePort(port string) portDetails {
	info, err := serial.GetPortInfo(port)
	if err != nil {
		return portDetails{Description: fmt.Sprintf("Error: %v", err)}
	}
	d := portDetails{Description: info.Description, Serial: info.SerialNumber}
	if info.VendorID != "" {
		d.USB = info.VendorID + ":" + info.ProductID
	}
	return d
}

const (
	columnKeyPort   = "port"
	columnKeyType   = "type"
	columnKeyDesc   = "desc"
	columnKeyUSB    = "usb"
	columnKeySerial = "serial"
)

// renderTable renders the port list as a static table
func renderTable(ports []string, describe func(string) portDetails) string {
	columns := []table.Column{
		table.NewColumn(columnKeyPort, "Port", 18),
		table.NewColumn(columnKeyType, "Type", 16),
		table.NewColumn(columnKeyDesc, "Description", 30),
		table.NewColumn(columnKeyUSB, "VID:PID", 11),
		table.NewColumn(columnKeySerial, "Serial", 16),
	}

	rows := make([]table.Row, 0, len(ports))
	for _, port := range ports {
		d := describe(port)
		rows = append(rows, table.NewRow(table.RowData{
			columnKeyPort:   port,
			columnKeyType:   getPortType(portName(port)),
			columnKeyDesc:   d.Description,
			columnKeyUSB:    d.USB,
			columnKeySerial: d.Serial,
		}))
	}

	return table.New(columns).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(styles.TableHeaderStyle).
		View()
}

// getPortType returns a more specific type classification for the port
func getPortType(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(name, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(name, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	case strings.HasPrefix(name, "com"):
		return "COM Port"
	default:
		return "Serial Port"
	}
}
