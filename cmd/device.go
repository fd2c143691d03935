package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var deviceCmd = &cobra.Command{
	Use:     "device",
	Aliases: []string{"devices"},
	Short:   "Manage devices within an emulation non-interactively",
}

var deviceListCmd = &cobra.Command{
	Use:   "list EMULATION_ID",
	Short: "List all devices within an emulation",
	Example: `  # List devices of emulation em-101
  ntc-tesuto device list em-101`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg = GetConfig()
		if err := validateConfigOrExit(cfg, "device list"); err != nil {
			return err
		}

		api, token, err := newTesutoClient(cfg)
		if err != nil {
			return err
		}

		devices, err := api.ListDevices(cmd.Context(), args[0])
		if err != nil {
			return redactedError(err, token)
		}

		if len(devices) == 0 {
			// Write output to stdout; errors writing to stdout are not actionable in CLI context
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ℹ️  No devices found in emulation %s\n", args[0])
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tName\tVendor\tModel\tEnabled")
		_, _ = fmt.Fprintln(w, "--\t----\t------\t-----\t-------")

		for _, device := range devices {
			enabled := "no"
			if device.IsEnabled {
				enabled = "yes"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				device.ID, device.Name, device.VendorName, device.ModelName, enabled)
		}

		_ = w.Flush() // nolint:errcheck // flush error not actionable in CLI display context
		return nil
	},
}

var deviceEnableCmd = &cobra.Command{
	Use:   "enable EMULATION_ID DEVICE_ID...",
	Short: "Enable one or more devices",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleDevicesFromArgs(cmd, args[0], args[1:], true)
	},
}

var deviceDisableCmd = &cobra.Command{
	Use:   "disable EMULATION_ID DEVICE_ID...",
	Short: "Disable one or more devices",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleDevicesFromArgs(cmd, args[0], args[1:], false)
	},
}

// toggleDevicesFromArgs enables or disables every device named on the
// command line, stopping at the first failure.
func toggleDevicesFromArgs(cmd *cobra.Command, emulationID string, deviceIDs []string, enabled bool) error {
	cfg = GetConfig()
	if err := validateConfigOrExit(cfg, "device toggle"); err != nil {
		return err
	}

	api, token, err := newTesutoClient(cfg)
	if err != nil {
		return err
	}

	label := "Disabled"
	if enabled {
		label = "Enabled"
	}

	for _, deviceID := range deviceIDs {
		device, err := api.GetDevice(cmd.Context(), emulationID, deviceID)
		if err != nil {
			return redactedError(err, token)
		}

		if err := api.SetDeviceEnabled(cmd.Context(), emulationID, deviceID, enabled); err != nil {
			return redactedError(err, token)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s device %s\n", label, device.Name)
	}

	return nil
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(deviceCmd)
	deviceCmd.AddCommand(deviceListCmd)
	deviceCmd.AddCommand(deviceEnableCmd)
	deviceCmd.AddCommand(deviceDisableCmd)
}
