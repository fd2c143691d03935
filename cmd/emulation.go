package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/networktocode/ntc-tesuto/internal/tesuto"
)

var emulationCmd = &cobra.Command{
	Use:     "emulation",
	Aliases: []string{"emulations"},
	Short:   "Manage Tesuto emulations non-interactively",
	Long: `Emulation subcommands expose the same operations as the interactive menu
in a scriptable form: list emulations, start them (optionally with a timer),
suspend them, or delete them.`,
}

var emulationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all emulations",
	Example: `  # List emulations, token from the environment
  TESUTO_API_TOKEN=xxxx ntc-tesuto emulation list`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg = GetConfig()
		if err := validateConfigOrExit(cfg, "emulation list"); err != nil {
			return err
		}

		api, token, err := newTesutoClient(cfg)
		if err != nil {
			return err
		}

		emulations, err := api.ListEmulations(cmd.Context())
		if err != nil {
			return redactedError(err, token)
		}

		if len(emulations) == 0 {
			// Write output to stdout; errors writing to stdout are not actionable in CLI context
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "ℹ️  No emulations found")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tName\tRegion\tStatus\tEnds (UTC)")
		_, _ = fmt.Fprintln(w, "--\t----\t------\t------\t----------")

		for _, emulation := range emulations {
			ends := "-"
			if t := emulation.EndingTime(); !t.IsZero() {
				ends = t.Format("2006-01-02 15:04")
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				emulation.ID, emulation.Name, emulation.Region, emulation.Status, ends)
		}

		_ = w.Flush() // nolint:errcheck // flush error not actionable in CLI display context
		return nil
	},
}

var emulationStartCmd = &cobra.Command{
	Use:   "start EMULATION_ID...",
	Short: "Start one or more emulations",
	Long: `Start transitions the given emulations to the running state.

With --duration the emulation is scheduled to end automatically after the
given number of hours (1-24), matching the menu's "Start w/timer" action.`,
	Example: `  # Start two emulations
  ntc-tesuto emulation start em-101 em-102

  # Start with automatic teardown after 8 hours
  ntc-tesuto emulation start --duration 8 em-101`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		duration, _ := cmd.Flags().GetInt("duration")
		if duration < 0 || duration > 24 {
			return fmt.Errorf("invalid --duration %d: must be between 1 and 24 hours", duration)
		}

		var endAt int64
		if duration > 0 {
			endAt = time.Now().UTC().Add(time.Duration(duration) * time.Hour).Unix()
		}

		return toggleEmulationsFromArgs(cmd, args, tesuto.ActionStart, endAt)
	},
}

var emulationSuspendCmd = &cobra.Command{
	Use:     "suspend EMULATION_ID...",
	Aliases: []string{"stop"},
	Short:   "Suspend one or more emulations",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleEmulationsFromArgs(cmd, args, tesuto.ActionSuspend, 0)
	},
}

var emulationDeleteCmd = &cobra.Command{
	Use:   "delete EMULATION_ID...",
	Short: "Tear down one or more emulations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleEmulationsFromArgs(cmd, args, tesuto.ActionStop, 0)
	},
}

// toggleEmulationsFromArgs applies one action to every emulation named on
// the command line, stopping at the first failure.
func toggleEmulationsFromArgs(cmd *cobra.Command, ids []string, action string, endAt int64) error {
	cfg = GetConfig()
	if err := validateConfigOrExit(cfg, "emulation "+action); err != nil {
		return err
	}

	api, token, err := newTesutoClient(cfg)
	if err != nil {
		return err
	}

	for _, id := range ids {
		emulation, err := api.GetEmulation(cmd.Context(), id)
		if err != nil {
			return redactedError(err, token)
		}

		if err := api.SetEmulationAction(cmd.Context(), id, action, endAt); err != nil {
			return redactedError(err, token)
		}

		if endAt != 0 {
			ending := time.Unix(endAt, 0).UTC().Format("2006-01-02 15:04 MST")
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Set emulation %s to %s (ending at %s)\n", emulation.Name, action, ending)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Set emulation %s to %s\n", emulation.Name, action)
		}
	}

	return nil
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(emulationCmd)
	emulationCmd.AddCommand(emulationListCmd)
	emulationCmd.AddCommand(emulationStartCmd)
	emulationCmd.AddCommand(emulationSuspendCmd)
	emulationCmd.AddCommand(emulationDeleteCmd)

	emulationStartCmd.Flags().Int("duration", 0, "hours to run before automatic teardown (1-24, 0 = no timer)")
}
