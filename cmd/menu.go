package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/networktocode/ntc-tesuto/internal/notification"
	"github.com/networktocode/ntc-tesuto/internal/session"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Launch the interactive emulation menu",
	Long: `Menu starts the interactive menu-driven session against the Tesuto API.

The session lists all emulations, lets you select one or more by number
(ranges like "1-3,5" work), and offers start, start-with-timer, stop, and
delete actions. Selecting a single emulation also exposes its devices for
enable/disable; selecting several offers bulk device toggles by hostname
substring across all of them.

Ctrl+D backs out of any prompt; at the top level it ends the session.`,
	Example: `  # Token from the environment
  TESUTO_API_TOKEN=xxxx ntc-tesuto menu

  # Token on the command line
  ntc-tesuto menu --token xxxx`,
	RunE: runMenu,
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	cfg = GetConfig()
	if err := validateConfigOrExit(cfg, "menu"); err != nil {
		return err
	}

	api, token, err := newTesutoClient(cfg)
	if err != nil {
		return err
	}

	sess := session.New(api, cmd.InOrStdin(), cmd.OutOrStdout())

	notifier, err := notification.NewNotifier(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Notifications disabled: %v\n", err)
	} else {
		sess.SetNotifier(notifier)
	}

	// Ctrl+C ends the session cleanly instead of dumping a half-drawn menu
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := sess.Run(ctx); err != nil && !errors.Is(err, io.EOF) {
		return redactedError(err, token)
	}
	return nil
}
