package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/networktocode/ntc-tesuto/internal/docker"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage the ntc-tesuto container image",
}

var imageBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the container image",
	Long: `Build produces the configured image (default ntc-tesuto:latest) from the
build context directory. An existing image with the same name and tag is
replaced; a container created from the previous build keeps running against
its original image snapshot.

Build failures from the daemon are reported verbatim and nothing is retried.`,
	Example: `  # Build ntc-tesuto:latest from the current directory
  ntc-tesuto image build`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg = GetConfig()
		if err := validateConfigOrExit(cfg, "image build"); err != nil {
			return err
		}

		client, err := newDockerClient(cfg)
		if err != nil {
			return err
		}
		defer client.Close() // nolint:errcheck // Close error not actionable in defer context

		imageRef := cfg.Harness.ImageRef()
		fmt.Fprintf(cmd.OutOrStdout(), "🔨 Building image %s from %s...\n", imageRef, cfg.Harness.BuildContext)

		opts := docker.BuildOptions{
			ContextDir: cfg.Harness.BuildContext,
			Dockerfile: cfg.Harness.Dockerfile,
			ImageRef:   imageRef,
		}
		if err := client.BuildImage(cmd.Context(), opts, cmd.OutOrStdout()); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Built image %s\n", imageRef)
		return nil
	},
}

var imageRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the container image",
	Long: `Remove deletes the configured image from the Docker daemon.

The named container must be removed first; an image still referenced by a
container is reported as a conflict.`,
	Example: `  # Remove ntc-tesuto:latest
  ntc-tesuto image remove`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg = GetConfig()
		if err := validateConfigOrExit(cfg, "image remove"); err != nil {
			return err
		}

		client, err := newDockerClient(cfg)
		if err != nil {
			return err
		}
		defer client.Close() // nolint:errcheck // Close error not actionable in defer context

		imageRef := cfg.Harness.ImageRef()
		if err := client.RemoveImage(cmd.Context(), imageRef); err != nil {
			if errors.Is(err, docker.ErrNoImage) {
				return fmt.Errorf("image %s does not exist, nothing to remove", imageRef)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Removed image %s\n", imageRef)
		return nil
	},
}

// nolint:gochecknoinits // Standard Cobra pattern for command registration
func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.AddCommand(imageBuildCmd)
	imageCmd.AddCommand(imageRemoveCmd)
}
