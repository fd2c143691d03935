// Package cmd implements the CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/networktocode/ntc-tesuto/internal/config"
	"github.com/networktocode/ntc-tesuto/internal/version"
)

var (
	cfgFile       string
	verbose       bool
	tokenFlag     string
	cfg           *config.Config
	errConfigLoad error
)

var rootCmd = &cobra.Command{
	Use:   "ntc-tesuto",
	Short: "Operate Tesuto network emulations",
	Long: `ntc-tesuto drives the Tesuto network-emulation platform through its REST API.

It features:
  - A menu-driven session for starting, stopping, and deleting emulations
  - Device enable/disable, per emulation or in bulk across emulations
  - Timed emulation runs (automatic teardown after 1-24 hours)
  - Scriptable emulation and device subcommands for automation
  - A container harness that builds and runs the tool as a Docker image,
    injecting the API token at container creation only`,
	Version: version.GetFullVersion(),
}

// rootPersistentPreRunE is assigned to rootCmd in init rather than in the
// composite literal above because the closure refers to rootCmd, which would
// otherwise be an initialization cycle.
var rootPersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
	// "init" here means the root-level config scaffold, not "container init",
	// which needs a loaded config like every other lifecycle command.
	skipConfig := (cmd.Parent() == rootCmd && cmd.Name() == "init") ||
		cmd.Name() == "help" || cmd.Name() == "version"
	if skipConfig {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Store config load error for commands that need it. They fail fast
		// with validateConfigOrExit() in their RunE handlers.
		errConfigLoad = err
		if verbose {
			fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		}
	}

	if verbose && cfg != nil {
		fmt.Fprintf(os.Stderr, "Loaded configuration from: %s\n", cfg.ConfigFilePath)
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.PersistentPreRunE = rootPersistentPreRunE
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", "",
		"Tesuto API token (can also be passed as the TESUTO_API_TOKEN environment variable); "+
			"use the programmable token, not the login UI token, which expires")
}

// GetConfig returns the loaded configuration or nil if not loaded.
// Must be called after rootCmd.PersistentPreRunE has executed.
func GetConfig() *config.Config {
	return cfg
}

// GetConfigLoadError returns any error encountered during config loading.
// Returns nil if configuration loaded successfully or was not attempted.
func GetConfigLoadError() error {
	return errConfigLoad
}

// IsVerbose returns whether verbose mode is enabled via the -v flag.
func IsVerbose() bool {
	return verbose
}
