package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/networktocode/ntc-tesuto/internal/templates"
)

var (
	force bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ntc-tesuto configuration files",
	Long: `Init creates the configuration files ntc-tesuto reads at startup.

This command will create:
  - config.yaml (sample configuration file)
  - .env (environment variable template for the API token)

Run this once when setting up ntc-tesuto for the first time.`,
	Example: `  # Initialize in current directory
  ntc-tesuto init

  # Force overwrite existing files
  ntc-tesuto init --force`,
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println("🔧 Initializing ntc-tesuto...")

		files := map[string][]byte{
			"config.yaml": templates.ConfigYAML,
			".env":        templates.EnvFile,
		}

		for filename, content := range files {
			if _, err := os.Stat(filename); err == nil && !force {
				fmt.Printf("⚠️  Skipping %s (already exists, use --force to overwrite)\n", filename)
				continue
			}

			if err := os.WriteFile(filename, content, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", filename, err)
			}

			fmt.Printf("✅ Created %s\n", filename)
		}

		fmt.Println("\n🎉 Initialization complete!")
		fmt.Println("\n📝 Next steps:")
		fmt.Println("   1. Add your Tesuto API token to .env (TESUTO_API_TOKEN)")
		fmt.Println("   2. Run 'ntc-tesuto menu' to start an interactive session")
		fmt.Println("   3. Or run 'ntc-tesuto image build' and 'ntc-tesuto container init' to use the container")

		return nil
	},
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration files")
}
